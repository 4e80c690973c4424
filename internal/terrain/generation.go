// Course generation using layered simplex noise.
// Elevation shapes the base rough and water hazards; holes are laid out as
// tee → fairway → green corridors with bunkers near the green.
package terrain

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds course generation parameters.
type GenConfig struct {
	Width      int
	Height     int
	Seed       int64   // 0 = random
	Holes      int     // number of tee → green corridors
	WaterLevel float64 // elevation threshold for water hazards (0.0–1.0)
}

// DefaultGenConfig returns a nine-hole course.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:      96,
		Height:     64,
		Seed:       0,
		Holes:      9,
		WaterLevel: 0.18,
	}
}

// Generate creates a course with terrain and starting conditions.
func Generate(cfg GenConfig) *Course {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed + 100))
	elevNoise := opensimplex.NewNormalized(seed)
	soilNoise := opensimplex.NewNormalized(seed + 1)

	c := NewFlat(cfg.Width, cfg.Height, TypeRough)
	for _, f := range c.Faces {
		x, y := float64(f.X), float64(f.Y)
		f.Elevation = octaveNoise(elevNoise, x, y, 3, 0.06, 0.5)
		f.Nutrients = 40 + octaveNoise(soilNoise, x, y, 2, 0.1, 0.5)*40
		if f.Elevation < cfg.WaterLevel {
			f.Type = TypeWater
			f.GrassHeight = 0
		}
		f.Health = faceHealth(f)
	}

	for i := 0; i < cfg.Holes; i++ {
		layoutHole(c, rng)
	}
	return c
}

// layoutHole carves one hole: a tee box, a fairway corridor and a green with
// a guarding bunker.
func layoutHole(c *Course, rng *rand.Rand) {
	margin := 4
	if c.Width <= margin*2+2 || c.Height <= margin*2+2 {
		return
	}
	tx := margin + rng.Intn(c.Width-margin*2)
	ty := margin + rng.Intn(c.Height-margin*2)
	gx := margin + rng.Intn(c.Width-margin*2)
	gy := margin + rng.Intn(c.Height-margin*2)

	steps := int(math.Max(math.Abs(float64(gx-tx)), math.Abs(float64(gy-ty))))
	for s := 0; s <= steps; s++ {
		t := 0.0
		if steps > 0 {
			t = float64(s) / float64(steps)
		}
		x := int(math.Round(float64(tx) + float64(gx-tx)*t))
		y := int(math.Round(float64(ty) + float64(gy-ty)*t))
		paint(c, x, y, 1, TypeFairway)
	}
	paint(c, tx, ty, 1, TypeTee)
	paint(c, gx, gy, 2, TypeGreen)

	// Bunker on the approach side of the green.
	bx, by := gx+3, gy
	if gx > tx {
		bx = gx - 3
	}
	paint(c, bx, by, 0, TypeBunker)
}

// paint sets a square of radius r, never overwriting greens or tees.
func paint(c *Course, cx, cy, r int, t Type) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			f := c.Get(x, y)
			if f == nil {
				continue
			}
			if (f.Type == TypeGreen || f.Type == TypeTee) && t != f.Type {
				continue
			}
			c.SetType(x, y, t)
		}
	}
}

// octaveNoise sums multiple frequencies of simplex noise, normalized to 0–1.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxValue := 0.0
	freq := frequency
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*freq, y*freq) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		freq *= 2
	}
	return total / maxValue
}

// TypeCounts returns the number of faces per terrain type.
func TypeCounts(c *Course) map[Type]int {
	counts := make(map[Type]int)
	for _, f := range c.Faces {
		counts[f.Type]++
	}
	return counts
}
