// Simulation aggregate: every subsystem slot plus clock, hour gates and the
// per-day accumulators.
package engine

import (
	"github.com/talgya/greenkeeper/internal/economy"
	"github.com/talgya/greenkeeper/internal/employees"
	"github.com/talgya/greenkeeper/internal/entropy"
	"github.com/talgya/greenkeeper/internal/golfers"
	"github.com/talgya/greenkeeper/internal/irrigation"
	"github.com/talgya/greenkeeper/internal/marketing"
	"github.com/talgya/greenkeeper/internal/prestige"
	"github.com/talgya/greenkeeper/internal/research"
	"github.com/talgya/greenkeeper/internal/robots"
	"github.com/talgya/greenkeeper/internal/scenario"
	"github.com/talgya/greenkeeper/internal/weather"
)

// DailyUtilitiesCost is the flat utilities charge at end of day.
const DailyUtilitiesCost = 75

// LoanPaymentInterval is how many days pass between loan installments.
const LoanPaymentInterval = 30

// RejectionWarnThreshold is the rejections-today count that triggers the
// capacity warning.
const RejectionWarnThreshold = 5

// Revenue is the income side of a day.
type Revenue struct {
	GreenFees float64 `json:"green_fees"`
	Tips      float64 `json:"tips"`
	Other     float64 `json:"other"`
}

// Total is all income for the day.
func (r Revenue) Total() float64 { return r.GreenFees + r.Tips + r.Other }

// Expenses is the spending side of a day.
type Expenses struct {
	Wages       float64 `json:"wages"`
	Supplies    float64 `json:"supplies"`
	Research    float64 `json:"research"`
	Utilities   float64 `json:"utilities"`
	Equipment   float64 `json:"equipment"`
	Marketing   float64 `json:"marketing"`
	Maintenance float64 `json:"maintenance"`
}

// Total is all spending for the day.
func (e Expenses) Total() float64 {
	return e.Wages + e.Supplies + e.Research + e.Utilities + e.Equipment + e.Marketing + e.Maintenance
}

// MaintenanceCounts tallies work applied to the course today.
type MaintenanceCounts struct {
	Mowed      int `json:"mowed"`
	Watered    int `json:"watered"`
	Fertilized int `json:"fertilized"`
	Raked      int `json:"raked"`
}

// DailyStats are the per-day accumulators. They are reset once, at the end
// of day settlement.
type DailyStats struct {
	Day               int               `json:"day"`
	Revenue           Revenue           `json:"revenue"`
	Expenses          Expenses          `json:"expenses"`
	GolfersServed     int               `json:"golfers_served"`
	TotalSatisfaction float64           `json:"total_satisfaction"`
	Maintenance       MaintenanceCounts `json:"maintenance"`
}

// Net is revenue minus expenses.
func (d DailyStats) Net() float64 { return d.Revenue.Total() - d.Expenses.Total() }

// AverageSatisfaction is the mean satisfaction of golfers served today.
func (d DailyStats) AverageSatisfaction() float64 {
	if d.GolfersServed == 0 {
		return 0
	}
	return d.TotalSatisfaction / float64(d.GolfersServed)
}

// Pricing holds operator-set prices and the base arrival rate.
type Pricing struct {
	GreenFee           float64 `json:"green_fee"`
	BaseHourlyArrivals float64 `json:"base_hourly_arrivals"`
}

// State is the aggregate. The orchestrator is its only writer during a tick.
type State struct {
	GameTime  float64 `json:"game_time"` // minutes of day, [0, 1440)
	GameDay   int     `json:"game_day"`
	TimeScale float64 `json:"time_scale"` // in-game minutes per real second

	LastPayrollHour        HourGate `json:"last_payroll_hour"`
	LastArrivalHour        HourGate `json:"last_arrival_hour"`
	LastAutoSaveHour       HourGate `json:"last_auto_save_hour"`
	LastPrestigeUpdateHour HourGate `json:"last_prestige_update_hour"`
	LastTeeTimeUpdateHour  HourGate `json:"last_tee_time_update_hour"`

	Economy      *economy.State          `json:"economy"`
	Weather      *weather.State          `json:"weather"`
	Irrigation   *irrigation.System      `json:"irrigation"`
	Roster       *employees.Roster       `json:"roster"`
	Applications *employees.Applications `json:"applications"`
	Work         *employees.WorkState    `json:"work"`
	Fleet        *robots.Fleet           `json:"fleet"`
	Golfers      *golfers.Pool           `json:"golfers"`
	TeeSheet     *golfers.TeeSheet       `json:"tee_sheet"`
	Prestige     *prestige.State         `json:"prestige"`
	Research     *research.State         `json:"research"`
	Marketing    *marketing.State        `json:"marketing"`
	Scenario     *scenario.Manager       `json:"scenario,omitempty"`

	Pricing             Pricing              `json:"pricing"`
	CourseRating        golfers.CourseRating `json:"course_rating"`
	ResearchAccumulator float64              `json:"research_accumulator"`
	DailyStats          DailyStats           `json:"daily_stats"`
	RejectionWarned     bool                 `json:"rejection_warned"`

	Rand    entropy.Source `json:"-"`
	spawner *employees.Spawner
}

// Options configure a new game.
type Options struct {
	Seed               int64
	StartingCash       float64
	TimeScale          float64
	StartTime          float64 // minute of day
	Season             weather.Season
	GreenFee           float64
	BaseHourlyArrivals float64
	InitialPrestige    float64
	MaxRoster          int
	PoolCapacity       int
	BaseX, BaseY       int // maintenance shed and charging station
	Scenario           *scenario.Manager
}

// DefaultOptions is a small municipal course starting at 6:00.
func DefaultOptions() Options {
	return Options{
		Seed:               1,
		StartingCash:       50000,
		TimeScale:          1,
		StartTime:          360,
		Season:             weather.Spring,
		GreenFee:           45,
		BaseHourlyArrivals: 6,
		InitialPrestige:    300,
		MaxRoster:          20,
		PoolCapacity:       golfers.DefaultCapacity,
	}
}

// NewState creates every subsystem state for a new game.
func NewState(o Options) *State {
	if o.TimeScale <= 0 {
		o.TimeScale = 1
	}
	src := entropy.NewSeeded(entropy.Derive(o.Seed, "engine"))
	s := &State{
		GameTime:  o.StartTime,
		GameDay:   1,
		TimeScale: o.TimeScale,

		LastPayrollHour:        Unset,
		LastArrivalHour:        Unset,
		LastAutoSaveHour:       Unset,
		LastPrestigeUpdateHour: Unset,
		LastTeeTimeUpdateHour:  Unset,

		Economy:      economy.NewState(o.StartingCash),
		Weather:      weather.NewState(o.Seed, o.Season),
		Irrigation:   irrigation.NewSystem(),
		Roster:       employees.NewRoster(o.MaxRoster),
		Applications: employees.NewApplications(),
		Work:         employees.NewWorkState(o.BaseX, o.BaseY),
		Fleet:        robots.NewFleet(o.BaseX, o.BaseY),
		Golfers:      golfers.NewPool(o.PoolCapacity),
		TeeSheet:     golfers.NewTeeSheet(),
		Prestige:     prestige.NewState(o.InitialPrestige),
		Research:     research.NewState(),
		Marketing:    marketing.NewState(),
		Scenario:     o.Scenario,

		Pricing: Pricing{GreenFee: o.GreenFee, BaseHourlyArrivals: o.BaseHourlyArrivals},
		Rand:    src,
	}
	s.DailyStats.Day = s.GameDay
	s.spawner = employees.NewSpawner(src)
	return s
}

// Hour is the current in-game hour.
func (s *State) Hour() int { return int(s.GameTime) / MinutesPerHour }

// Now is the absolute in-game minute, used for timestamps.
func (s *State) Now() float64 {
	return float64(s.GameDay-1)*MinutesPerDay + s.GameTime
}

func (s *State) stamp() int64 { return int64(s.Now()) }

// Restore reattaches the random source and spawner after decoding a saved
// state.
func (s *State) Restore(seed int64) {
	s.Rand = entropy.NewSeeded(entropy.Derive(seed, "engine-restore"))
	s.spawner = employees.NewSpawner(s.Rand)
}

func (s *State) applicantSpawner() *employees.Spawner {
	if s.spawner == nil {
		s.spawner = employees.NewSpawner(s.Rand)
	}
	return s.spawner
}
