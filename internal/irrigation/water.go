// Water consumption and costing.
package irrigation

import (
	"cmp"
	"slices"
)

// RepairCost is the flat charge for fixing one leak.
const RepairCost = 50.0

// leakWastePerMinute is lost through a leak at full pressure.
const leakWastePerMinute = 1.5

// CalculateWaterUsage returns the water drawn over minutes by active heads
// with pressure plus what leaks waste. Flow scales with pressure.
func CalculateWaterUsage(s *System, minutes float64) float64 {
	if minutes <= 0 {
		return 0
	}
	total := 0.0
	for _, h := range s.Heads {
		if !h.IsActive {
			continue
		}
		pressure := HeadPressure(s, *h)
		if pressure <= 0 {
			continue
		}
		total += SprinklerSpecs[h.Type].FlowPerMinute * (pressure / 100) * minutes
	}
	for _, p := range s.Pipes {
		if p.IsLeaking && p.PressureLevel > 0 {
			total += leakWastePerMinute * (p.PressureLevel / 100) * minutes
		}
	}
	return total
}

// WaterBill is how a quantity of water is split across sources.
type WaterBill struct {
	Units float64            `json:"units"`
	Cost  float64            `json:"cost"`
	Draws map[string]float64 `json:"draws"`
	Unmet float64            `json:"unmet"` // demand no source could cover today
}

// CalculateWaterCost splits usage across sources, cheapest first, within each
// source's remaining daily capacity. Demand beyond total capacity is Unmet
// and free.
func CalculateWaterCost(s *System, usage float64) WaterBill {
	bill := WaterBill{Draws: make(map[string]float64)}
	if usage <= 0 {
		return bill
	}
	sources := make([]*WaterSource, 0, len(s.Sources))
	for _, w := range s.Sources {
		sources = append(sources, w)
	}
	slices.SortFunc(sources, func(a, b *WaterSource) int {
		if c := cmp.Compare(a.CostPerUnit, b.CostPerUnit); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	left := usage
	for _, w := range sources {
		if left <= 0 {
			break
		}
		take := min(left, w.Remaining())
		if take <= 0 {
			continue
		}
		bill.Draws[w.ID] = take
		bill.Units += take
		bill.Cost += take * w.CostPerUnit
		left -= take
	}
	bill.Unmet = left
	return bill
}

// ApplyWaterUsage records a bill's draws against the sources.
func ApplyWaterUsage(s *System, bill WaterBill) *System {
	if bill.Units <= 0 {
		return s
	}
	next := s.clone()
	for id, units := range bill.Draws {
		if w, ok := next.Sources[id]; ok {
			w.UsedToday += units
		}
	}
	next.TotalWaterUsedToday += bill.Units
	return next
}
