// Pipe wear and stochastic leak formation.
package irrigation

import (
	"slices"

	"github.com/talgya/greenkeeper/internal/entropy"
	"github.com/talgya/greenkeeper/internal/opt"
	"github.com/talgya/greenkeeper/internal/weather"
)

// DefaultTemperature stands in when conditions carry no temperature.
const DefaultTemperature = 70.0

// Leak model constants.
const (
	baseLeakChance     = 0.00002 // per pipe per minute at full durability
	leakNeighbourWear  = 2.0     // wear multiplier next to a leaking pipe
	freezingBelow      = 35.0
	heatStressAbove    = 95.0
	stormLeakFactor    = 2.0
	rainLeakFactor     = 1.3
	freezeLeakFactor   = 1.5
	heatLeakFactor     = 1.2
	wornDurabilityStep = 25.0
)

// WeatherEffect is the slice of weather the leak model cares about.
type WeatherEffect struct {
	Type        weather.Kind `json:"type"`
	Temperature float64      `json:"temperature"`
}

// WeatherEffectFrom derives the leak model's weather input. Rainy, stormy and
// cloudy pass through, anything else reads as sunny, and a missing temperature
// reads as DefaultTemperature. Absent conditions yield None rather than a
// default effect.
func WeatherEffectFrom(c opt.Option[weather.Conditions]) opt.Option[WeatherEffect] {
	cond, ok := c.Get()
	if !ok {
		return opt.None[WeatherEffect]()
	}
	kind := weather.Sunny
	switch cond.Type {
	case weather.Rainy, weather.Stormy, weather.Cloudy:
		kind = cond.Type
	}
	return opt.Some(WeatherEffect{
		Type:        kind,
		Temperature: cond.Temperature.OrElse(DefaultTemperature),
	})
}

func (e WeatherEffect) leakFactor() float64 {
	f := 1.0
	switch e.Type {
	case weather.Stormy:
		f *= stormLeakFactor
	case weather.Rainy:
		f *= rainLeakFactor
	}
	switch {
	case e.Temperature < freezingBelow:
		f *= freezeLeakFactor
	case e.Temperature > heatStressAbove:
		f *= heatLeakFactor
	}
	return f
}

// CheckForLeaks wears every pipe by minutes of use and rolls for new leaks.
// Worn pipes leak more often; pipes beside an existing leak wear faster. A
// pipe at zero durability always leaks. Returns the new state and the
// positions of pipes that started leaking.
func CheckForLeaks(s *System, minutes float64, src entropy.Source, effect opt.Option[WeatherEffect]) (*System, []Coord) {
	if minutes <= 0 || len(s.Pipes) == 0 {
		return s, nil
	}
	factor := 1.0
	if e, ok := effect.Get(); ok {
		factor = e.leakFactor()
	}

	next := s.clone()
	var started []Coord
	for _, c := range sortedCoords(next.Pipes) {
		p := next.Pipes[c]
		if p.IsLeaking {
			continue
		}
		spec := PipeSpecs[p.Type]
		wear := spec.WearPerMinute * minutes
		if besideLeak(s, c) {
			wear *= leakNeighbourWear
		}
		p.Durability = clamp(p.Durability-wear, 0, 100)

		chance := baseLeakChance * minutes * factor / spec.LeakResistance
		chance *= 1 + (100-p.Durability)/wornDurabilityStep
		if p.Durability <= 0 || entropy.Chance(src, chance) {
			p.IsLeaking = true
			started = append(started, c)
		}
	}
	return next, started
}

// RepairLeak clears a leak and restores durability. Returns nil when there
// is no leaking pipe at (x, y). Charging for the repair is the caller's job.
func RepairLeak(s *System, x, y int) *System {
	p, ok := s.Pipes[Coord{x, y}]
	if !ok || !p.IsLeaking {
		return nil
	}
	next := s.clone()
	fixed := next.Pipes[Coord{x, y}]
	fixed.IsLeaking = false
	fixed.Durability = 100
	return next
}

// LeakingPipes lists leaking pipe positions in row order.
func LeakingPipes(s *System) []Coord {
	var out []Coord
	for _, c := range sortedCoords(s.Pipes) {
		if s.Pipes[c].IsLeaking {
			out = append(out, c)
		}
	}
	return out
}

func besideLeak(s *System, c Coord) bool {
	for _, d := range directions {
		if n, ok := s.Pipes[c.Step(d)]; ok && n.IsLeaking {
			return true
		}
	}
	return false
}

func sortedCoords(m map[Coord]*Pipe) []Coord {
	out := make([]Coord, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Coord) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	return out
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
