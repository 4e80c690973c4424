// Turf growth: moisture evaporation, nutrient uptake, grass growth and health.
package terrain

import "github.com/talgya/greenkeeper/internal/weather"

// Growth rates per in-game minute.
const (
	baseEvaporation = 0.012
	nutrientUptake  = 0.002
	grassGrowthRate = 0.004 // mm per minute at full vigor
)

// Grow advances every face by minutes of growth under the given weather.
func (c *Course) Grow(minutes float64, w weather.GrowthModifiers) {
	if minutes <= 0 {
		return
	}
	for _, f := range c.Faces {
		if f.Type == TypeWater {
			continue
		}
		f.Moisture = clamp(f.Moisture+(w.Rainfall-baseEvaporation*w.Evaporation)*minutes, 0, 100)
		if f.Type == TypeBunker || f.Type == TypePath {
			if w.Rainfall > 0 {
				f.Raked = clamp(f.Raked-w.Rainfall*minutes, 0, 100)
			}
			continue
		}

		vigor := (f.Moisture/100)*0.5 + (f.Nutrients/100)*0.5
		f.GrassHeight += grassGrowthRate * vigor * w.Growth * minutes
		f.Nutrients = clamp(f.Nutrients-nutrientUptake*vigor*minutes, 0, 100)
		f.Health = faceHealth(f)
	}
}

// faceHealth scores a face 0–100 from moisture, nutrients and cut height.
func faceHealth(f *Face) float64 {
	switch f.Type {
	case TypeWater, TypePath:
		return 100
	case TypeBunker:
		return f.Raked
	}

	moistureScore := 100 - absf(f.Moisture-60)*2
	nutrientScore := 100 - absf(f.Nutrients-65)*1.5
	ideal := idealHeight(f.Type)
	heightScore := 100.0
	if ideal > 0 && f.GrassHeight > ideal {
		heightScore = 100 - (f.GrassHeight-ideal)/ideal*100
	}
	return clamp(moistureScore*0.4+nutrientScore*0.3+clamp(heightScore, 0, 100)*0.3, 0, 100)
}

// Stats summarizes the whole course.
type Stats struct {
	AverageMoisture  float64 `json:"average_moisture"`
	AverageNutrients float64 `json:"average_nutrients"`
	AverageHeight    float64 `json:"average_height"`
	AverageHealth    float64 `json:"average_health"`
	NeedsMowing      int     `json:"needs_mowing"`
	NeedsWater       int     `json:"needs_water"`
	NeedsFertilizer  int     `json:"needs_fertilizer"`
	NeedsRaking      int     `json:"needs_raking"`
}

// CourseStats averages playable faces and counts outstanding work.
func (c *Course) CourseStats() Stats {
	var s Stats
	n := 0
	for _, f := range c.Faces {
		if f.Type == TypeWater {
			continue
		}
		n++
		s.AverageMoisture += f.Moisture
		s.AverageNutrients += f.Nutrients
		s.AverageHeight += f.GrassHeight
		s.AverageHealth += f.Health
		need := needsOf(f)
		if need.Mow {
			s.NeedsMowing++
		}
		if need.Water {
			s.NeedsWater++
		}
		if need.Fertilize {
			s.NeedsFertilizer++
		}
		if need.Rake {
			s.NeedsRaking++
		}
	}
	if n > 0 {
		s.AverageMoisture /= float64(n)
		s.AverageNutrients /= float64(n)
		s.AverageHeight /= float64(n)
		s.AverageHealth /= float64(n)
	}
	return s
}

// Conditions is the per-area quality summary golfers and prestige care about.
type Conditions struct {
	Overall         float64 `json:"overall"`
	GreenHealth     float64 `json:"green_health"`
	FairwayHealth   float64 `json:"fairway_health"`
	TeeHealth       float64 `json:"tee_health"`
	RoughHealth     float64 `json:"rough_health"`
	BunkerCondition float64 `json:"bunker_condition"`
}

// Conditions computes area health averages. Areas with no faces score 100.
func (c *Course) Conditions() Conditions {
	sums := make(map[Type]float64)
	counts := make(map[Type]int)
	for _, f := range c.Faces {
		sums[f.Type] += f.Health
		counts[f.Type]++
	}
	avg := func(t Type) float64 {
		if counts[t] == 0 {
			return 100
		}
		return sums[t] / float64(counts[t])
	}
	cond := Conditions{
		GreenHealth:     avg(TypeGreen),
		FairwayHealth:   avg(TypeFairway),
		TeeHealth:       avg(TypeTee),
		RoughHealth:     avg(TypeRough),
		BunkerCondition: avg(TypeBunker),
	}
	// Greens matter most to golfers.
	cond.Overall = cond.GreenHealth*0.35 + cond.FairwayHealth*0.3 + cond.TeeHealth*0.1 +
		cond.RoughHealth*0.1 + cond.BunkerCondition*0.15
	return cond
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

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
