// Package prestige tracks the course's reputation: a 0–1000 score driven by
// turf conditions and golfer satisfaction, star ratings, the demand multiplier
// pricing is judged against, and daily snapshots folded into a long-run record
// of excellence.
package prestige

import (
	"math"
	"slices"

	"github.com/talgya/greenkeeper/internal/terrain"
)

// MaxScore is the top of the prestige scale.
const MaxScore = 1000.0

const (
	historyDays      = 30
	excellentStars   = 4.0
	scoreSmoothing   = 0.1 // fraction of the gap closed per update
	conditionWeight  = 0.6
	reputationWeight = 0.3
	excellenceWeight = 0.1
)

// Snapshot is one day's closing prestige.
type Snapshot struct {
	Day              int     `json:"day"`
	Score            float64 `json:"score"`
	Stars            float64 `json:"stars"`
	Visits           int     `json:"visits"`
	AvgSatisfaction  float64 `json:"avg_satisfaction"`
	ConditionAverage float64 `json:"condition_average"`
}

// Excellence is the long-run record built from snapshots.
type Excellence struct {
	ExcellentDays    int     `json:"excellent_days"`
	CurrentStreak    int     `json:"current_streak"`
	LongestStreak    int     `json:"longest_streak"`
	BestScore        float64 `json:"best_score"`
	DaysTracked      int     `json:"days_tracked"`
	LifetimeVisitors int     `json:"lifetime_visitors"`
}

// State is the prestige slot of the aggregate.
type State struct {
	Score      float64    `json:"score"`
	Stars      float64    `json:"stars"`
	Demand     float64    `json:"demand"` // last computed demand multiplier
	History    []Snapshot `json:"history"`
	Excellence Excellence `json:"excellence"`

	VisitsToday       int     `json:"visits_today"`
	SatisfactionToday float64 `json:"satisfaction_today"`
	ConditionSum      float64 `json:"condition_sum"`
	ConditionSamples  int     `json:"condition_samples"`
}

// NewState creates a fresh reputation.
func NewState(initialScore float64) *State {
	score := clamp(initialScore, 0, MaxScore)
	return &State{Score: score, Stars: StarsFor(score), Demand: 1}
}

func (s *State) clone() *State {
	cp := *s
	cp.History = slices.Clone(s.History)
	return &cp
}

// StarsFor maps a score to half-star steps between 0.5 and 5.
func StarsFor(score float64) float64 {
	stars := math.Round(score/MaxScore*5*2) / 2
	return clamp(stars, 0.5, 5)
}

// Update moves the score toward a target built from current conditions,
// today's golfer satisfaction and the excellence record.
func Update(s *State, cond terrain.Conditions) *State {
	next := s.clone()

	reputation := 60.0
	if s.VisitsToday > 0 {
		reputation = s.SatisfactionToday / float64(s.VisitsToday)
	}
	excellence := 0.0
	if s.Excellence.DaysTracked > 0 {
		excellence = float64(s.Excellence.ExcellentDays) / float64(s.Excellence.DaysTracked) * 100
	}
	target := (cond.Overall*conditionWeight + reputation*reputationWeight + excellence*excellenceWeight) / 100 * MaxScore

	next.Score = clamp(s.Score+(target-s.Score)*scoreSmoothing, 0, MaxScore)
	next.Stars = StarsFor(next.Score)
	next.ConditionSum += cond.Overall
	next.ConditionSamples++
	return next
}

// SweetSpotFee is the green fee golfers consider fair at a star rating.
func SweetSpotFee(stars float64) float64 {
	return 20 + stars*15
}

// DemandMultiplier scores a green fee against the sweet spot. Fees at or
// below it earn up to a 20% bonus; fees above it lose demand quickly, never
// below 0.1.
func DemandMultiplier(s *State, fee float64) float64 {
	sweet := SweetSpotFee(s.Stars)
	if fee <= sweet {
		return min(1.2, 1+(sweet-fee)/sweet*0.2)
	}
	return max(0.1, 1-(fee-sweet)/sweet*1.5)
}

// WithDemand records the last demand multiplier for display.
func WithDemand(s *State, demand float64) *State {
	next := s.clone()
	next.Demand = demand
	return next
}

// RecordVisit folds one departing golfer's satisfaction into today.
func RecordVisit(s *State, satisfaction float64) *State {
	next := s.clone()
	next.VisitsToday++
	next.SatisfactionToday += clamp(satisfaction, 0, 100)
	return next
}

// TakeDailySnapshot closes the day: it appends a snapshot, trims history and
// updates the excellence record.
func TakeDailySnapshot(s *State, day int) (*State, Snapshot) {
	next := s.clone()
	snap := Snapshot{Day: day, Score: s.Score, Stars: s.Stars, Visits: s.VisitsToday}
	if s.VisitsToday > 0 {
		snap.AvgSatisfaction = s.SatisfactionToday / float64(s.VisitsToday)
	}
	if s.ConditionSamples > 0 {
		snap.ConditionAverage = s.ConditionSum / float64(s.ConditionSamples)
	}

	next.History = append(next.History, snap)
	if len(next.History) > historyDays {
		next.History = slices.Clone(next.History[len(next.History)-historyDays:])
	}

	ex := &next.Excellence
	ex.DaysTracked++
	ex.LifetimeVisitors += s.VisitsToday
	ex.BestScore = max(ex.BestScore, s.Score)
	if s.Stars >= excellentStars {
		ex.ExcellentDays++
		ex.CurrentStreak++
		ex.LongestStreak = max(ex.LongestStreak, ex.CurrentStreak)
	} else {
		ex.CurrentStreak = 0
	}
	return next, snap
}

// ResetDailyMetrics clears today's counters.
func ResetDailyMetrics(s *State) *State {
	next := s.clone()
	next.VisitsToday = 0
	next.SatisfactionToday = 0
	next.ConditionSum = 0
	next.ConditionSamples = 0
	return next
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
