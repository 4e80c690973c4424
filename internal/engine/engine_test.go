package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/greenkeeper/internal/economy"
	"github.com/talgya/greenkeeper/internal/employees"
	"github.com/talgya/greenkeeper/internal/golfers"
	"github.com/talgya/greenkeeper/internal/irrigation"
	"github.com/talgya/greenkeeper/internal/marketing"
	"github.com/talgya/greenkeeper/internal/opt"
	"github.com/talgya/greenkeeper/internal/research"
	"github.com/talgya/greenkeeper/internal/robots"
	"github.com/talgya/greenkeeper/internal/terrain"
	"github.com/talgya/greenkeeper/internal/weather"
)

// fixedRand always draws the same value.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }
func (f fixedRand) Intn(int) int     { return 0 }

// recordingTerrain is a real course that counts scans and sprinkler water.
type recordingTerrain struct {
	*terrain.Course
	scans   int
	watered map[[2]int]float64
}

func newRecordingTerrain(w, h int) *recordingTerrain {
	return &recordingTerrain{Course: terrain.NewFlat(w, h, terrain.TypeFairway), watered: make(map[[2]int]float64)}
}

func (r *recordingTerrain) FindWorkCandidates(cx, cy, radius int) []terrain.WorkCandidate {
	r.scans++
	return r.Course.FindWorkCandidates(cx, cy, radius)
}

func (r *recordingTerrain) WaterFace(x, y int, amount float64) bool {
	r.watered[[2]int{x, y}] += amount
	return r.Course.WaterFace(x, y, amount)
}

type harness struct {
	terrain       *recordingTerrain
	notifications []Notification
	saves         int
	summaries     []DailyStats
	events        *EventQueue
}

func (h *harness) collaborators() Collaborators {
	return Collaborators{
		Terrain:        h.terrain,
		Notify:         func(n Notification) { h.notifications = append(h.notifications, n) },
		Save:           func() { h.saves++ },
		ShowDaySummary: func(d DailyStats) { h.summaries = append(h.summaries, d) },
		Events:         h.events,
	}
}

// quietState is a game at minute with settled weather, no walk-in golfers and
// every hour gate already marked for the current hour.
func quietState(minute float64) *State {
	o := DefaultOptions()
	o.StartTime = minute
	o.BaseHourlyArrivals = 0
	s := NewState(o)
	s.Rand = fixedRand(0.999)
	s.Weather.Current = weather.Conditions{Type: weather.Sunny, Temperature: opt.Some(70.0)}
	s.Weather.LastChangeTime = s.Now()
	h := HourGate(s.Hour())
	s.LastPayrollHour, s.LastArrivalHour, s.LastAutoSaveHour = h, h, h
	s.LastPrestigeUpdateHour, s.LastTeeTimeUpdateHour = h, h
	return s
}

func newHarness() *harness {
	return &harness{terrain: newRecordingTerrain(24, 16), events: NewEventQueue()}
}

func TestHourGate_RunsOncePerDistinctHour(t *testing.T) {
	g := Unset
	runs := 0
	changes := 0
	prev := -1
	for minute := 0.0; minute < 600; minute += 7.3 {
		hour := int(minute) / 60
		if hour != prev {
			changes++
			prev = hour
		}
		if g.Pass(hour) {
			runs++
		}
	}
	assert.Equal(t, changes, runs)
	assert.False(t, g.Pass(9))
}

func TestRunTick_AutosaveOncePerHour(t *testing.T) {
	h := newHarness()
	s := quietState(360)
	s.LastAutoSaveHour = Unset
	s.TimeScale = 7
	for i := 0; i < 30; i++ {
		RunTick(s, h.collaborators(), 1000)
	}
	assert.Equal(t, 570.0, s.GameTime)
	assert.Equal(t, 4, h.saves, "hours 6 through 9")
	assert.Equal(t, HourGate(9), s.LastAutoSaveHour)
}

func TestRunTick_DayWrapAdvancesGameDay(t *testing.T) {
	h := newHarness()
	s := quietState(1439)
	s.TimeScale = 2
	RunTick(s, h.collaborators(), 1000)
	assert.Equal(t, 2, s.GameDay)
	assert.InDelta(t, 1, s.GameTime, 1e-9)
}

func TestRunTick_EndOfDaySettlesOnce(t *testing.T) {
	h := newHarness()
	s := quietState(1320)
	s.LastTeeTimeUpdateHour = 21

	s.TeeSheet = golfers.GenerateDailySlots(s.TeeSheet, 1)
	s.TeeSheet.Slots[0].Booked = 4
	s.TeeSheet.WalkOnsServed = 3
	s.Golfers.GolfersRejectedToday = 7
	s.Golfers.RevenueLostToday = 315
	s.Prestige.VisitsToday = 12
	s.Marketing = marketing.Start(s.Marketing, marketing.LocalAds, 1)
	s.DailyStats.Revenue.GreenFees = 450
	s.RejectionWarned = true
	cash := s.Economy.Cash

	RunTick(s, h.collaborators(), 1)

	require.Len(t, h.summaries, 1)
	assert.Equal(t, 1, h.saves)
	day := h.summaries[0]
	assert.Equal(t, 450.0, day.Revenue.GreenFees)
	assert.Equal(t, golfers.PlayersPerSlot*golfers.BookingFee+3*golfers.WalkOnFee, day.Revenue.Other)
	assert.Equal(t, float64(DailyUtilitiesCost), day.Expenses.Utilities)
	assert.Equal(t, marketing.Catalog[marketing.LocalAds].DailyCost, day.Expenses.Marketing)
	assert.InDelta(t, cash+day.Revenue.Other-DailyUtilitiesCost-day.Expenses.Marketing, s.Economy.Cash, 1e-9)

	assert.True(t, s.TeeSheet.Finalized)
	assert.Zero(t, s.TeeSheet.WalkOnsServed)
	assert.Zero(t, s.Golfers.GolfersRejectedToday)
	assert.Zero(t, s.Golfers.RevenueLostToday)
	assert.Zero(t, s.Prestige.VisitsToday)
	require.Len(t, s.Prestige.History, 1)
	assert.Equal(t, 12, s.Prestige.History[0].Visits)
	assert.Equal(t, DailyStats{Day: 2}, s.DailyStats)
	assert.False(t, s.RejectionWarned)
	assert.Equal(t, HourGate(22), s.LastTeeTimeUpdateHour)

	txs := len(s.Economy.Transactions)
	RunTick(s, h.collaborators(), 1)
	assert.Len(t, h.summaries, 1, "same hour never settles twice")
	assert.Equal(t, txs, len(s.Economy.Transactions))
}

func TestRunTick_SprinklerActivatesAndWatersSameTick(t *testing.T) {
	h := newHarness()
	s := quietState(360)

	irr := irrigation.AddWaterSource(s.Irrigation, "main", 0, 0, irrigation.SourceMunicipal)
	for x := 1; x <= 11; x++ {
		irr = irrigation.AddPipe(irr, x, 0, irrigation.PipeMetal)
		require.NotNil(t, irr)
	}
	irr = irrigation.AddSprinklerHead(irr, "s1", 11, 1, irrigation.SprinklerRotary)
	require.NotNil(t, irr)
	irr = irrigation.SetSchedule(irr, "s1", irrigation.Schedule{
		Enabled:    true,
		TimeRanges: []irrigation.TimeRange{{Start: 300, End: 420}},
		SkipRain:   true,
	})
	require.NotNil(t, irr)
	s.Irrigation = irr
	require.False(t, s.Irrigation.Heads["s1"].IsActive)
	cash := s.Economy.Cash

	RunTick(s, h.collaborators(), 1)

	head := s.Irrigation.Heads["s1"]
	require.True(t, head.IsActive)
	assert.Equal(t, 80.0, s.Irrigation.Pipes[irrigation.Coord{X: 11, Y: 0}].PressureLevel)
	require.Len(t, h.terrain.watered, len(head.CoverageTiles))
	for _, tile := range head.CoverageTiles {
		want := irrigation.BaseWaterRate * tile.Efficiency * 0.8
		assert.InDelta(t, want, h.terrain.watered[[2]int{tile.X, tile.Y}], 1e-9, "tile %d,%d", tile.X, tile.Y)
	}
	assert.Greater(t, s.DailyStats.Expenses.Utilities, 0.0)
	assert.Less(t, s.Economy.Cash, cash)
}

func TestRunTick_RainKeepsSprinklerOff(t *testing.T) {
	h := newHarness()
	s := quietState(360)
	s.Weather.Current.Type = weather.Rainy
	irr := irrigation.AddWaterSource(s.Irrigation, "main", 0, 0, irrigation.SourceMunicipal)
	irr = irrigation.AddPipe(irr, 1, 0, irrigation.PipePVC)
	irr = irrigation.AddSprinklerHead(irr, "s1", 1, 1, irrigation.SprinklerFixed)
	require.NotNil(t, irr)
	s.Irrigation = irr

	RunTick(s, h.collaborators(), 1)
	assert.False(t, s.Irrigation.Heads["s1"].IsActive)
	assert.Empty(t, h.terrain.watered)
}

func TestRunTick_ResearchStallsUntilFunded(t *testing.T) {
	h := newHarness()
	s := quietState(180)
	s.Economy = economy.NewState(economy.OverdraftLimit + 1)
	s.Research = research.Start(s.Research, research.SlowRelease)
	require.NotNil(t, s.Research)
	s.TimeScale = 60

	RunTick(s, h.collaborators(), 100)
	RunTick(s, h.collaborators(), 100)
	assert.Zero(t, s.Research.Progress)
	assert.Equal(t, 1.0, s.ResearchAccumulator)
	assert.Zero(t, s.DailyStats.Expenses.Research)
	assert.Empty(t, h.notifications)

	s.Economy = economy.AddIncome(s.Economy, 20000, economy.CategoryOther, "grant", 0)
	RunTick(s, h.collaborators(), 100)
	assert.InDelta(t, 7, s.Research.Progress, 1e-9, "banked minute plus this tick")
	assert.Zero(t, s.ResearchAccumulator)
	assert.InDelta(t, 7*research.FundingCostPerMinute(s.Research), s.DailyStats.Expenses.Research, 1e-9)
}

func TestRunTick_FleetUsesSingleScan(t *testing.T) {
	h := newHarness()
	s := quietState(600)
	for _, k := range []robots.Kind{robots.KindFairwayMower, robots.KindGenericMower, robots.KindSprayer} {
		s.Fleet = robots.Add(s.Fleet, k)
	}
	s.Fleet.StationX, s.Fleet.StationY = 500, -3

	RunTick(s, h.collaborators(), 1000)
	assert.Equal(t, 1, h.terrain.scans)
	w, ht := h.terrain.Bounds()
	assert.Equal(t, w-1, s.Fleet.StationX)
	assert.Zero(t, s.Fleet.StationY)
	assert.Less(t, s.Fleet.StationY, ht)

	RunTick(s, h.collaborators(), 1000)
	assert.Equal(t, 2, h.terrain.scans)
}

func TestRunTick_NoRobotsNoScan(t *testing.T) {
	h := newHarness()
	RunTick(quietState(600), h.collaborators(), 1000)
	assert.Zero(t, h.terrain.scans)
}

func TestRunTick_MissedPayrollHurtsMorale(t *testing.T) {
	h := newHarness()
	s := quietState(180)
	s.LastPayrollHour = Unset
	s.Economy = economy.NewState(economy.OverdraftLimit)
	s.Roster = employees.Hire(s.Roster, employees.Applicant{
		ID: "a1", Name: "Pat Doyle", Role: employees.RoleGroundskeeper, Skill: employees.Trainee, AskingWage: 12,
	}, 1)
	require.NotNil(t, s.Roster)
	before := s.Roster.Employees[0].Happiness

	RunTick(s, h.collaborators(), 1)
	assert.Zero(t, s.DailyStats.Expenses.Wages)
	assert.Less(t, s.Roster.Employees[0].Happiness, before-10)
	require.NotEmpty(t, h.notifications)
	assert.Equal(t, ColorError, h.notifications[0].Color)

	RunTick(s, h.collaborators(), 1)
	assert.Len(t, h.notifications, 1, "payroll is not retried within the hour")
}

func TestRunTick_PayrollCharged(t *testing.T) {
	h := newHarness()
	s := quietState(180)
	s.LastPayrollHour = Unset
	s.Roster = employees.Hire(s.Roster, employees.Applicant{ID: "a1", Name: "Sam Reyes", Role: employees.RoleMechanic, AskingWage: 18}, 1)

	RunTick(s, h.collaborators(), 1)
	assert.Equal(t, 18.0, s.DailyStats.Expenses.Wages)
	assert.Equal(t, 18.0, s.Roster.Employees[0].TotalPaid)
}

func TestRunTick_WeatherImpactArrivesLater(t *testing.T) {
	h := newHarness()
	s := quietState(600)
	s.Weather.Forecast = []weather.Conditions{{Type: weather.Stormy, WindSpeed: 30}}
	s.Weather.LastChangeTime = s.Now() - weather.EvaluateEvery

	RunTick(s, h.collaborators(), 1)
	assert.Equal(t, weather.Stormy, s.Weather.Current.Type)
	require.Len(t, h.notifications, 1)
	assert.Equal(t, 1, h.events.Len())

	h.events.Advance(WeatherImpactDelayMs - 1)
	assert.Len(t, h.notifications, 1)
	h.events.Advance(1)
	require.Len(t, h.notifications, 2)
	assert.Equal(t, weather.Impact(s.Weather.Current), h.notifications[1].Message)
}

func TestRunTick_ReevaluationNotifiesEvenWhenSkyUnchanged(t *testing.T) {
	h := newHarness()
	s := quietState(600)
	s.Weather.Forecast = []weather.Conditions{{Type: weather.Sunny, WindSpeed: 5}}
	s.Weather.LastChangeTime = s.Now() - weather.EvaluateEvery

	RunTick(s, h.collaborators(), 1)
	assert.Equal(t, weather.Sunny, s.Weather.Current.Type)
	assert.False(t, s.Weather.Changed)
	require.Len(t, h.notifications, 1)
	assert.Equal(t, weather.Describe(s.Weather.Current), h.notifications[0].Message)

	RunTick(s, h.collaborators(), 1)
	assert.Len(t, h.notifications, 1, "quiet until the next re-evaluation")
}

func TestCanTraverse(t *testing.T) {
	tests := []struct {
		kind robots.Kind
		typ  terrain.Type
		want bool
	}{
		{robots.KindFairwayMower, terrain.TypeGreen, true},
		{robots.KindFairwayMower, terrain.TypeRough, true},
		{robots.KindFairwayMower, terrain.TypeFairway, true},
		{robots.KindFairwayMower, terrain.TypeTee, false},
		{robots.KindGreensMower, terrain.TypeFairway, false},
		{robots.KindGenericMower, terrain.TypeTee, true},
		{robots.KindGenericMower, terrain.TypeBunker, false},
		{robots.KindBunkerRaker, terrain.TypeBunker, true},
		{robots.KindSprayer, terrain.TypeWater, false},
		{"hovercraft", terrain.TypeGreen, true},
		{"hovercraft", terrain.TypeRough, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, canTraverse(tt.kind, tt.typ), "%s on %s", tt.kind, terrain.TypeName(tt.typ))
	}
}
