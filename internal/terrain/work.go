// Work entry points: the only ways maintenance changes the surface.
package terrain

import "sort"

// JobType is a kind of maintenance work on a face.
type JobType string

const (
	JobMow       JobType = "mow"
	JobWater     JobType = "water"
	JobFertilize JobType = "fertilize"
	JobRake      JobType = "rake"
)

// WorkEffect is one unit of completed work at a position. Efficiency scales
// how much of a full treatment is applied (1.0 = full).
type WorkEffect struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Job        JobType `json:"job"`
	Efficiency float64 `json:"efficiency"`
}

// Work thresholds.
const (
	mowOverIdeal    = 1.5 // mow when height exceeds ideal × this
	waterBelow      = 40
	fertilizeBelow  = 35
	rakeBelow       = 70
	fullWaterAmount = 30
	fullFertilizer  = 25
)

// Mow cuts the face to its ideal height. Returns false if off-grid or the
// face carries no grass.
func (c *Course) Mow(x, y int) bool {
	return c.mowWith(x, y, 1)
}

func (c *Course) mowWith(x, y int, efficiency float64) bool {
	f := c.Get(x, y)
	if f == nil || !mowable(f.Type) {
		return false
	}
	ideal := idealHeight(f.Type)
	if f.GrassHeight > ideal {
		f.GrassHeight -= (f.GrassHeight - ideal) * clamp(efficiency, 0, 1)
	}
	f.Health = faceHealth(f)
	return true
}

// Rake smooths a bunker. Returns false if the face is not a bunker.
func (c *Course) Rake(x, y int) bool {
	return c.rakeWith(x, y, 1)
}

func (c *Course) rakeWith(x, y int, efficiency float64) bool {
	f := c.Get(x, y)
	if f == nil || f.Type != TypeBunker {
		return false
	}
	f.Raked = clamp(f.Raked+100*clamp(efficiency, 0, 1), 0, 100)
	f.Health = faceHealth(f)
	return true
}

// WaterFace adds moisture to one face. Returns false if off-grid.
func (c *Course) WaterFace(x, y int, amount float64) bool {
	f := c.Get(x, y)
	if f == nil {
		return false
	}
	if f.Type != TypeWater {
		f.Moisture = clamp(f.Moisture+amount, 0, 100)
		f.Health = faceHealth(f)
	}
	return true
}

// WaterArea waters every face within radius (Chebyshev) of (cx, cy).
// Returns the number of faces watered.
func (c *Course) WaterArea(cx, cy, radius int, amount float64) int {
	n := 0
	c.eachInRadius(cx, cy, radius, func(f *Face) {
		if c.WaterFace(f.X, f.Y, amount) {
			n++
		}
	})
	return n
}

// FertilizeArea adds nutrients within radius of (cx, cy).
// Returns the number of faces fertilized.
func (c *Course) FertilizeArea(cx, cy, radius int, amount float64) int {
	n := 0
	c.eachInRadius(cx, cy, radius, func(f *Face) {
		if !mowable(f.Type) {
			return
		}
		f.Nutrients = clamp(f.Nutrients+amount, 0, 100)
		f.Health = faceHealth(f)
		n++
	})
	return n
}

// ApplyWorkEffect applies one work effect. Returns false when the effect had
// no target (off-grid, wrong surface, unknown job).
func (c *Course) ApplyWorkEffect(e WorkEffect) bool {
	switch e.Job {
	case JobMow:
		return c.mowWith(e.X, e.Y, e.Efficiency)
	case JobRake:
		return c.rakeWith(e.X, e.Y, e.Efficiency)
	case JobWater:
		return c.WaterFace(e.X, e.Y, fullWaterAmount*e.Efficiency)
	case JobFertilize:
		return c.FertilizeArea(e.X, e.Y, 0, fullFertilizer*e.Efficiency) > 0
	default:
		return false
	}
}

// WorkCandidate is a face that needs at least one kind of work.
type WorkCandidate struct {
	X         int  `json:"x"`
	Y         int  `json:"y"`
	Type      Type `json:"type"`
	Mow       bool `json:"mow"`
	Water     bool `json:"water"`
	Fertilize bool `json:"fertilize"`
	Rake      bool `json:"rake"`
}

// Needs reports whether the candidate needs the given job.
func (w WorkCandidate) Needs(job JobType) bool {
	switch job {
	case JobMow:
		return w.Mow
	case JobWater:
		return w.Water
	case JobFertilize:
		return w.Fertilize
	case JobRake:
		return w.Rake
	default:
		return false
	}
}

// FindWorkCandidates scans faces within radius of (cx, cy) and returns those
// needing work, nearest first.
func (c *Course) FindWorkCandidates(cx, cy, radius int) []WorkCandidate {
	var out []WorkCandidate
	c.eachInRadius(cx, cy, radius, func(f *Face) {
		need := needsOf(f)
		if need.Mow || need.Water || need.Fertilize || need.Rake {
			out = append(out, need)
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return dist2(out[i].X, out[i].Y, cx, cy) < dist2(out[j].X, out[j].Y, cx, cy)
	})
	return out
}

func needsOf(f *Face) WorkCandidate {
	w := WorkCandidate{X: f.X, Y: f.Y, Type: f.Type}
	switch f.Type {
	case TypeWater, TypePath:
		return w
	case TypeBunker:
		w.Rake = f.Raked < rakeBelow
		return w
	}
	w.Mow = f.GrassHeight > idealHeight(f.Type)*mowOverIdeal
	w.Water = f.Moisture < waterBelow
	w.Fertilize = f.Nutrients < fertilizeBelow
	return w
}

func (c *Course) eachInRadius(cx, cy, radius int, fn func(*Face)) {
	if radius < 0 {
		return
	}
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if f := c.Get(x, y); f != nil {
				fn(f)
			}
		}
	}
}

func dist2(x1, y1, x2, y2 int) int {
	dx, dy := x1-x2, y1-y2
	return dx*dx + dy*dy
}
