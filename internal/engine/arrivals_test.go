package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/greenkeeper/internal/economy"
	"github.com/talgya/greenkeeper/internal/golfers"
	"github.com/talgya/greenkeeper/internal/prestige"
)

func countTransactions(s *State, cat economy.Category) int {
	n := 0
	for _, t := range s.Economy.Transactions {
		if t.Category == cat {
			n++
		}
	}
	return n
}

func rejectionWarnings(h *harness) int {
	n := 0
	for _, note := range h.notifications {
		if strings.Contains(note.Message, "turned away") {
			n++
		}
	}
	return n
}

func TestRunTick_BargainFeeDrawsExtraGolfers(t *testing.T) {
	h := newHarness()
	s := quietState(660)
	s.LastArrivalHour = Unset
	s.Pricing.BaseHourlyArrivals = 10
	s.Pricing.GreenFee = 1
	s.Rand = fixedRand(0)
	demand := prestige.DemandMultiplier(s.Prestige, s.Pricing.GreenFee)
	require.Greater(t, demand, 1.1)
	cash := s.Economy.Cash

	RunTick(s, h.collaborators(), 1)

	assert.Equal(t, 12, s.Golfers.GolfersToday, "rate 10 × %.3f rounds up", demand)
	assert.Zero(t, s.Golfers.GolfersRejectedToday)

	fees := 0.0
	for _, g := range s.Golfers.Active {
		fees += g.GreenFee
	}
	assert.Positive(t, fees)
	assert.InDelta(t, cash+fees, s.Economy.Cash, 1e-9, "fees are booked on arrival")
	assert.InDelta(t, fees, s.DailyStats.Revenue.GreenFees, 1e-9)
	assert.Equal(t, 1, countTransactions(s, economy.CategoryGreenFees))
}

func TestRunTick_OverpricedGolfersRejectedAndWarnedOnce(t *testing.T) {
	h := newHarness()
	s := quietState(660)
	s.LastArrivalHour = Unset
	s.Pricing.BaseHourlyArrivals = 10
	s.Pricing.GreenFee = 500
	s.Rand = fixedRand(0.5)
	require.Less(t, prestige.DemandMultiplier(s.Prestige, s.Pricing.GreenFee), 0.5)
	cash := s.Economy.Cash

	RunTick(s, h.collaborators(), 1)
	assert.Equal(t, 10, s.Golfers.GolfersRejectedToday)
	assert.Equal(t, 5000.0, s.Golfers.RevenueLostToday)
	assert.Empty(t, s.Golfers.Active)
	assert.Equal(t, cash, s.Economy.Cash)
	assert.True(t, s.RejectionWarned)
	assert.Equal(t, 1, rejectionWarnings(h))

	s.GameTime = 720
	RunTick(s, h.collaborators(), 1)
	assert.Equal(t, 19, s.Golfers.GolfersRejectedToday)
	assert.Equal(t, 1, rejectionWarnings(h), "one warning per day")

	EndOfDay(s, h.collaborators())
	assert.False(t, s.RejectionWarned)
	assert.Zero(t, s.Golfers.GolfersRejectedToday)
}

func TestRunTick_ArrivalsOnlyWhileOpen(t *testing.T) {
	for _, minute := range []float64{300, 1140, 1260} {
		h := newHarness()
		s := quietState(minute)
		s.LastArrivalHour = Unset
		s.Pricing.BaseHourlyArrivals = 10
		s.Rand = fixedRand(0)

		RunTick(s, h.collaborators(), 1)
		assert.Zero(t, s.Golfers.GolfersToday, "minute %v", minute)
		assert.Equal(t, Unset, s.LastArrivalHour, "gate untouched outside operating hours")
	}
}

func TestRunTick_DeparturesTipAndAccumulate(t *testing.T) {
	h := newHarness()
	s := quietState(600)
	s.CourseRating = golfers.CourseRating{Overall: 100}
	s.Golfers.Active = []golfers.Golfer{
		{ID: "g1", Type: golfers.TypeEnthusiast, GreenFee: 100, Holes: 1, Satisfaction: 100},
		{ID: "g2", Type: golfers.TypeCasual, GreenFee: 50, Holes: 1, Satisfaction: 0},
	}
	cash := s.Economy.Cash

	RunTick(s, h.collaborators(), 30_000)

	assert.Empty(t, s.Golfers.Active)
	assert.Equal(t, 2, s.DailyStats.GolfersServed)
	assert.InDelta(t, 109, s.DailyStats.TotalSatisfaction, 0.1)
	assert.InDelta(t, 18, s.DailyStats.Revenue.Tips, 0.01)
	assert.InDelta(t, cash+18, s.Economy.Cash, 0.01)
	assert.Equal(t, 1, countTransactions(s, economy.CategoryTips), "no tip from the unhappy golfer")
	assert.Equal(t, 2, s.Prestige.VisitsToday)
}

type countingDisplay struct{ updates []*prestige.State }

func (d *countingDisplay) Update(s *prestige.State) { d.updates = append(d.updates, s) }

func TestRunTick_PrestigePushedOncePerHour(t *testing.T) {
	h := newHarness()
	d := &countingDisplay{}
	c := h.collaborators()
	c.Prestige = d
	s := quietState(600)
	s.LastPrestigeUpdateHour = Unset

	RunTick(s, c, 1)
	RunTick(s, c, 1)

	require.Len(t, d.updates, 1)
	assert.Same(t, s.Prestige, d.updates[0])
	assert.Equal(t, prestige.DemandMultiplier(s.Prestige, s.Pricing.GreenFee), s.Prestige.Demand)
}

func TestRunTick_TeeSheetOpensAtFive(t *testing.T) {
	h := newHarness()
	s := quietState(300)
	s.LastTeeTimeUpdateHour = Unset

	RunTick(s, h.collaborators(), 1)

	assert.Equal(t, s.GameDay, s.TeeSheet.Day)
	want := (golfers.LastTeeMinute-golfers.FirstTeeMinute)/golfers.SlotInterval + 1
	assert.Len(t, s.TeeSheet.Slots, want)
	assert.Equal(t, golfers.FirstTeeMinute, s.TeeSheet.Slots[0].Minute)
}

func TestRunTick_WalkOnsDuringOperatingHours(t *testing.T) {
	tests := []struct {
		hour   int
		seated bool
	}{
		{6, true},
		{12, true},
		{18, true},
		{19, false},
		{20, false},
	}
	for _, tt := range tests {
		h := newHarness()
		s := quietState(float64(tt.hour * MinutesPerHour))
		s.TeeSheet = golfers.GenerateDailySlots(s.TeeSheet, s.GameDay)
		s.LastTeeTimeUpdateHour = Unset
		s.Rand = fixedRand(0)

		RunTick(s, h.collaborators(), 1)
		assert.Equal(t, tt.seated, s.TeeSheet.WalkOnsServed > 0, "hour %d", tt.hour)
		assert.Equal(t, HourGate(tt.hour), s.LastTeeTimeUpdateHour)
	}
}
