// Per-tick irrigation update.
package irrigation

import (
	"github.com/talgya/greenkeeper/internal/entropy"
	"github.com/talgya/greenkeeper/internal/opt"
)

// TickInput is what one irrigation step needs from the rest of the simulation.
type TickInput struct {
	GameTime      float64
	Minutes       float64
	Precipitating bool
	Weather       opt.Option[WeatherEffect]
	Rand          entropy.Source
}

// TickResult carries the new system plus everything the caller must apply or
// report. Water is delivered to the terrain by the caller.
type TickResult struct {
	System    *System
	Water     []TileWater
	Activated []string
	Stopped   []string
	NewLeaks  []Coord
	Bill      WaterBill
	Changed   bool // topology, leak or activation state moved
}

// Tick runs one irrigation step: pressure, leaks, pressure again, sprinkler
// toggling, coverage watering and water costing. Heads that switch on this
// tick are watered once by the activation path and skipped by the coverage
// pass.
func Tick(s *System, in TickInput) TickResult {
	next := RecalculatePressure(s)
	next, leaks := CheckForLeaks(next, in.Minutes, in.Rand, in.Weather)
	next = RecalculatePressure(next)

	res := TickResult{NewLeaks: leaks, Changed: len(leaks) > 0}
	justActivated := make(map[string]bool)

	for _, id := range next.HeadIDs() {
		h := next.Heads[id]
		want := ShouldBeActive(*h, in.GameTime, in.Precipitating)
		if want == h.IsActive {
			continue
		}
		next = SetSprinklerActive(next, id, want)
		res.Changed = true
		if !want {
			res.Stopped = append(res.Stopped, id)
			continue
		}
		res.Activated = append(res.Activated, id)
		justActivated[id] = true
		flipped := *next.Heads[id]
		res.Water = append(res.Water, CoverageWater(flipped, HeadPressure(next, flipped), BaseWaterRate)...)
	}

	anyActive := false
	for _, id := range next.HeadIDs() {
		h := next.Heads[id]
		if !h.IsActive {
			continue
		}
		anyActive = true
		if justActivated[id] {
			continue
		}
		res.Water = append(res.Water, CoverageWater(*h, HeadPressure(next, *h), BaseWaterRate)...)
	}

	if anyActive && len(next.Sources) > 0 {
		res.Bill = CalculateWaterCost(next, CalculateWaterUsage(next, in.Minutes))
		next = ApplyWaterUsage(next, res.Bill)
	}
	res.System = next
	return res
}
