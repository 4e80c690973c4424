// Sprinkler heads, schedules and coverage.
package irrigation

import (
	"math"
	"slices"

	"github.com/talgya/greenkeeper/internal/opt"
)

// MinutesPerDay bounds schedule times.
const MinutesPerDay = 1440

// BaseWaterRate is the moisture delivered to a full-efficiency coverage tile
// per tick at full pressure.
const BaseWaterRate = 0.5

// SprinklerType determines reach and flow.
type SprinklerType string

const (
	SprinklerFixed     SprinklerType = "fixed"
	SprinklerRotary    SprinklerType = "rotary"
	SprinklerImpact    SprinklerType = "impact"
	SprinklerPrecision SprinklerType = "precision"
)

// SprinklerSpec is the fixed catalog entry for a sprinkler type.
type SprinklerSpec struct {
	Cost          float64
	Radius        float64 // tiles
	FlowPerMinute float64 // water units per minute at full pressure
	EdgeFalloff   float64 // efficiency lost from centre to edge
}

// SprinklerSpecs is the sprinkler catalog.
var SprinklerSpecs = map[SprinklerType]SprinklerSpec{
	SprinklerFixed:     {Cost: 30, Radius: 1, FlowPerMinute: 2, EdgeFalloff: 0.5},
	SprinklerRotary:    {Cost: 60, Radius: 2, FlowPerMinute: 4, EdgeFalloff: 0.6},
	SprinklerImpact:    {Cost: 90, Radius: 3, FlowPerMinute: 7, EdgeFalloff: 0.7},
	SprinklerPrecision: {Cost: 150, Radius: 2, FlowPerMinute: 3, EdgeFalloff: 0.2},
}

// TimeRange is a half-open [Start, End) span of minutes of day. Start > End
// wraps past midnight.
type TimeRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether minute falls in the range.
func (r TimeRange) Contains(minute float64) bool {
	start, end := float64(r.Start), float64(r.End)
	if r.Start <= r.End {
		return minute >= start && minute < end
	}
	return minute >= start || minute < end
}

// Schedule controls when a head runs.
type Schedule struct {
	Enabled    bool        `json:"enabled"`
	TimeRanges []TimeRange `json:"time_ranges"`
	SkipRain   bool        `json:"skip_rain"`
	Zone       string      `json:"zone"`
}

// DefaultSchedule waters before dawn and skips rain.
func DefaultSchedule() Schedule {
	return Schedule{
		Enabled:    true,
		TimeRanges: []TimeRange{{Start: 300, End: 420}},
		SkipRain:   true,
		Zone:       "default",
	}
}

// CoverageTile is one face in a head's footprint.
type CoverageTile struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Efficiency float64 `json:"efficiency"`
}

// SprinklerHead is a sprinkler on the network.
type SprinklerHead struct {
	ID              string            `json:"id"`
	Pos             Coord             `json:"pos"`
	Type            SprinklerType     `json:"type"`
	Schedule        Schedule          `json:"schedule"`
	CoverageTiles   []CoverageTile    `json:"coverage_tiles"`
	IsActive        bool              `json:"is_active"`
	ConnectedToPipe opt.Option[Coord] `json:"connected_to_pipe"`
}

// AddSprinklerHead installs a head with the default schedule. Returns nil if
// the id is taken or the type unknown.
func AddSprinklerHead(s *System, id string, x, y int, t SprinklerType) *System {
	if _, exists := s.Heads[id]; exists {
		return nil
	}
	spec, ok := SprinklerSpecs[t]
	if !ok {
		return nil
	}
	next := s.clone()
	h := &SprinklerHead{
		ID:            id,
		Pos:           Coord{x, y},
		Type:          t,
		Schedule:      DefaultSchedule(),
		CoverageTiles: computeCoverage(Coord{x, y}, spec),
	}
	h.ConnectedToPipe = nearestPipe(next, h.Pos)
	next.Heads[id] = h
	return next
}

// RemoveSprinklerHead removes a head. Returns nil if unknown.
func RemoveSprinklerHead(s *System, id string) *System {
	if _, exists := s.Heads[id]; !exists {
		return nil
	}
	next := s.clone()
	delete(next.Heads, id)
	return next
}

// SetSchedule replaces a head's schedule. Returns nil if the head is unknown
// or a range lies outside the day.
func SetSchedule(s *System, id string, sch Schedule) *System {
	if _, exists := s.Heads[id]; !exists {
		return nil
	}
	for _, r := range sch.TimeRanges {
		if r.Start < 0 || r.Start >= MinutesPerDay || r.End < 0 || r.End > MinutesPerDay || r.Start == r.End {
			return nil
		}
	}
	next := s.clone()
	next.Heads[id].Schedule = Schedule{
		Enabled:    sch.Enabled,
		TimeRanges: slices.Clone(sch.TimeRanges),
		SkipRain:   sch.SkipRain,
		Zone:       sch.Zone,
	}
	return next
}

// IsScheduledNow reports whether an enabled schedule covers gameTime. A
// disabled schedule never matches.
func IsScheduledNow(sch Schedule, gameTime float64) bool {
	if !sch.Enabled {
		return false
	}
	for _, r := range sch.TimeRanges {
		if r.Contains(gameTime) {
			return true
		}
	}
	return false
}

// ShouldBeActive combines the schedule with the rain skip.
func ShouldBeActive(h SprinklerHead, gameTime float64, precipitating bool) bool {
	if h.Schedule.SkipRain && precipitating {
		return false
	}
	return IsScheduledNow(h.Schedule, gameTime)
}

// SetSprinklerActive flips a head on or off. Returns nil if unknown.
func SetSprinklerActive(s *System, id string, active bool) *System {
	if _, exists := s.Heads[id]; !exists {
		return nil
	}
	next := s.clone()
	next.Heads[id].IsActive = active
	return next
}

// HeadPressure is the pressure of the pipe feeding a head, 0 when the head
// has no pipe.
func HeadPressure(s *System, h SprinklerHead) float64 {
	c, ok := h.ConnectedToPipe.Get()
	if !ok {
		return 0
	}
	p, ok := s.Pipes[c]
	if !ok {
		return 0
	}
	return p.PressureLevel
}

// TileWater is the water one coverage tile receives this tick.
type TileWater struct {
	X      int
	Y      int
	Amount float64
}

// CoverageWater returns baseRate × efficiency × pressure/100 for every
// coverage tile, or nil when pressure is zero.
func CoverageWater(h SprinklerHead, pressure, baseRate float64) []TileWater {
	if pressure <= 0 {
		return nil
	}
	out := make([]TileWater, 0, len(h.CoverageTiles))
	for _, t := range h.CoverageTiles {
		out = append(out, TileWater{X: t.X, Y: t.Y, Amount: baseRate * t.Efficiency * (pressure / 100)})
	}
	return out
}

func computeCoverage(center Coord, spec SprinklerSpec) []CoverageTile {
	r := int(math.Ceil(spec.Radius))
	var tiles []CoverageTile
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d := math.Hypot(float64(dx), float64(dy))
			if d > spec.Radius {
				continue
			}
			eff := 1 - spec.EdgeFalloff*(d/spec.Radius)
			tiles = append(tiles, CoverageTile{
				X:          center.X + dx,
				Y:          center.Y + dy,
				Efficiency: math.Round(eff*100) / 100,
			})
		}
	}
	return tiles
}

// nearestPipe finds the pipe under or beside a head.
func nearestPipe(s *System, pos Coord) opt.Option[Coord] {
	if _, ok := s.Pipes[pos]; ok {
		return opt.Some(pos)
	}
	for _, d := range directions {
		n := pos.Step(d)
		if _, ok := s.Pipes[n]; ok {
			return opt.Some(n)
		}
	}
	return opt.None[Coord]()
}

// relinkHeads refreshes every head's pipe link after the pipe layout changes.
func relinkHeads(s *System) {
	for _, h := range s.Heads {
		h.ConnectedToPipe = nearestPipe(s, h.Pos)
	}
}
