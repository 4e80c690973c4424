// Active golfer pool, admission and departures.
package golfers

import (
	"math"
	"slices"

	"github.com/talgya/greenkeeper/internal/entropy"
	"github.com/talgya/greenkeeper/internal/terrain"
)

// DefaultCapacity is how many golfers a course holds at once.
const DefaultCapacity = 72

const (
	delightedAbove  = 70.0
	satisfactionLag = 0.15 // pull toward the course rating per hole
	crowdingPenalty = 4.0  // satisfaction lost per hole on a full course
)

// CourseRating is what golfers judge the course by.
type CourseRating struct {
	Condition float64 `json:"condition"`
	Greens    float64 `json:"greens"`
	Fairways  float64 `json:"fairways"`
	Bunkers   float64 `json:"bunkers"`
	Overall   float64 `json:"overall"`
}

// UpdateCourseRating rates the course from turf conditions and prestige stars.
func UpdateCourseRating(cond terrain.Conditions, stars float64) CourseRating {
	return CourseRating{
		Condition: cond.Overall,
		Greens:    cond.GreenHealth,
		Fairways:  cond.FairwayHealth,
		Bunkers:   cond.BunkerCondition,
		Overall:   clamp(cond.Overall*0.8+stars/5*100*0.2, 0, 100),
	}
}

// Pool is the golfer slot of the aggregate.
type Pool struct {
	Active   []Golfer `json:"active"`
	Capacity int      `json:"capacity"`

	GolfersToday         int     `json:"golfers_today"`
	GolfersRejectedToday int     `json:"golfers_rejected_today"`
	RevenueToday         float64 `json:"revenue_today"`
	RevenueLostToday     float64 `json:"revenue_lost_today"`
	TipsToday            float64 `json:"tips_today"`
	RoundsToday          int     `json:"rounds_today"`
	TotalServed          int     `json:"total_served"`
}

// NewPool creates an empty pool.
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pool{Capacity: capacity}
}

func (p *Pool) clone() *Pool {
	cp := *p
	cp.Active = slices.Clone(p.Active)
	return &cp
}

// AdmitResult splits arrivals into those seated and those turned away.
type AdmitResult struct {
	Pool     *Pool
	Admitted []Golfer
	Rejected []Golfer
}

// Admit seats arrivals while there is room and each golfer accepts the price,
// with probability min(1, demand). Rejections count toward today's rejected
// golfers and lost revenue.
func Admit(p *Pool, arrivals []Golfer, demand float64, src entropy.Source) AdmitResult {
	res := AdmitResult{Pool: p}
	if len(arrivals) == 0 {
		return res
	}
	next := p.clone()
	accept := min(1, max(0, demand))
	for _, g := range arrivals {
		if len(next.Active) >= next.Capacity || !entropy.Chance(src, accept) {
			next.GolfersRejectedToday++
			next.RevenueLostToday += g.GreenFee
			res.Rejected = append(res.Rejected, g)
			continue
		}
		next.Active = append(next.Active, g)
		next.GolfersToday++
		next.RevenueToday += g.GreenFee
		res.Admitted = append(res.Admitted, g)
	}
	res.Pool = next
	return res
}

// Departure is a golfer leaving after the round.
type Departure struct {
	Golfer       Golfer
	Tips         float64
	Satisfaction float64
}

// PoolTickResult is one golfer-simulation step.
type PoolTickResult struct {
	Pool       *Pool
	Departures []Departure
	Holes      int // holes completed this tick
}

// Tick advances every golfer's round. Crowding slows play and sours the mood;
// satisfaction drifts toward the course rating hole by hole. Finished golfers
// depart and tip when delighted.
func Tick(p *Pool, minutes float64, rating CourseRating) PoolTickResult {
	res := PoolTickResult{Pool: p}
	if minutes <= 0 || len(p.Active) == 0 {
		return res
	}
	next := p.clone()
	crowding := float64(len(p.Active)) / float64(max(p.Capacity, 1))

	remaining := next.Active[:0:0]
	for _, g := range next.Active {
		prof := profiles[g.Type]
		perHole := prof.minutesPerHole * (1 + crowding*0.5)
		g.HoleProgress += minutes
		for g.HoleProgress >= perHole && g.HolesPlayed < g.Holes {
			g.HoleProgress -= perHole
			g.HolesPlayed++
			res.Holes++
			g.Satisfaction += (rating.Overall - g.Satisfaction) * satisfactionLag * prof.pickiness
			g.Satisfaction = clamp(g.Satisfaction-crowdingPenalty*crowding*crowding, 0, 100)
		}
		if g.HolesPlayed < g.Holes {
			remaining = append(remaining, g)
			continue
		}
		tips := 0.0
		if g.Satisfaction > delightedAbove {
			tips = math.Round(g.GreenFee*prof.tipRate*(g.Satisfaction-delightedAbove)/(100-delightedAbove)*100) / 100
		}
		res.Departures = append(res.Departures, Departure{Golfer: g, Tips: tips, Satisfaction: g.Satisfaction})
		next.TipsToday += tips
		next.RoundsToday++
		next.TotalServed++
	}
	next.Active = remaining
	res.Pool = next
	return res
}

// ResetDailyMetrics clears today's counters; golfers still on the course stay.
func ResetDailyMetrics(p *Pool) *Pool {
	next := p.clone()
	next.GolfersToday = 0
	next.GolfersRejectedToday = 0
	next.RevenueToday = 0
	next.RevenueLostToday = 0
	next.TipsToday = 0
	next.RoundsToday = 0
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
