// Package irrigation models the course irrigation network: a grid of pipes
// fed by water sources, sprinkler heads on schedules, stochastic leaks and
// water costing.
//
// Every exported transition is pure: it takes a *System and returns a new
// one, leaving the input untouched.
package irrigation

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/talgya/greenkeeper/internal/opt"
)

// Coord is a grid position.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is a pipe connection side.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

var directions = [4]Direction{North, South, East, West}

// Step returns the neighbouring coordinate in direction d.
func (c Coord) Step(d Direction) Coord {
	switch d {
	case North:
		return Coord{c.X, c.Y - 1}
	case South:
		return Coord{c.X, c.Y + 1}
	case East:
		return Coord{c.X + 1, c.Y}
	case West:
		return Coord{c.X - 1, c.Y}
	}
	return c
}

func opposite(d Direction) Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// PipeType determines pressure loss and wear.
type PipeType string

const (
	PipePVC        PipeType = "pvc"
	PipeMetal      PipeType = "metal"
	PipeIndustrial PipeType = "industrial"
)

// PipeSpec is the fixed catalog entry for a pipe type.
type PipeSpec struct {
	Cost           float64
	PressureLoss   float64 // pressure lost per tile travelled
	WearPerMinute  float64 // durability lost per in-game minute
	LeakResistance float64 // divides leak probability
}

// PipeSpecs is the pipe catalog.
var PipeSpecs = map[PipeType]PipeSpec{
	PipePVC:        {Cost: 10, PressureLoss: 3, WearPerMinute: 0.0010, LeakResistance: 1},
	PipeMetal:      {Cost: 20, PressureLoss: 2, WearPerMinute: 0.0005, LeakResistance: 1.5},
	PipeIndustrial: {Cost: 40, PressureLoss: 1, WearPerMinute: 0.0002, LeakResistance: 2.5},
}

// Pipe is one tile of pipe. PressureLevel is 0 when disconnected from every
// source with remaining capacity.
type Pipe struct {
	Pos           Coord       `json:"pos"`
	Type          PipeType    `json:"type"`
	Durability    float64     `json:"durability"` // 0–100
	IsLeaking     bool        `json:"is_leaking"`
	PressureLevel float64     `json:"pressure_level"` // 0–100
	ConnectedTo   []Direction `json:"connected_to"`
}

// WaterSourceType determines capacity and price.
type WaterSourceType string

const (
	SourceMunicipal WaterSourceType = "municipal"
	SourceWell      WaterSourceType = "well"
	SourcePond      WaterSourceType = "pond"
)

// WaterSource feeds the network at a position.
type WaterSource struct {
	ID          string          `json:"id"`
	Pos         Coord           `json:"pos"`
	Type        WaterSourceType `json:"type"`
	Capacity    float64         `json:"capacity"`      // units per day
	CostPerUnit float64         `json:"cost_per_unit"` // dollars per unit
	UsedToday   float64         `json:"used_today"`
}

// Remaining is the capacity left today.
func (w WaterSource) Remaining() float64 {
	r := w.Capacity - w.UsedToday
	if r < 0 {
		return 0
	}
	return r
}

// SourceSpecs gives default capacity and price per source type.
var SourceSpecs = map[WaterSourceType]struct{ Capacity, CostPerUnit float64 }{
	SourceMunicipal: {Capacity: 20000, CostPerUnit: 0.01},
	SourceWell:      {Capacity: 8000, CostPerUnit: 0.004},
	SourcePond:      {Capacity: 5000, CostPerUnit: 0.001},
}

// System is the irrigation slot of the aggregate.
type System struct {
	Pipes               map[Coord]*Pipe           `json:"-"`
	Heads               map[string]*SprinklerHead `json:"heads"`
	Sources             map[string]*WaterSource   `json:"sources"`
	TotalWaterUsedToday float64                   `json:"total_water_used_today"`
	PressureCache       map[Coord]float64         `json:"-"`
}

// MarshalJSON encodes pipes as a list, since coordinate keys are not strings.
func (s *System) MarshalJSON() ([]byte, error) {
	type alias System
	return json.Marshal(struct {
		*alias
		Pipes []Pipe `json:"pipes"`
	}{alias: (*alias)(s), Pipes: s.PipeList()})
}

// PipeList returns copies of every pipe ordered by row then column.
func (s *System) PipeList() []Pipe {
	out := make([]Pipe, 0, len(s.Pipes))
	for _, p := range s.Pipes {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b Pipe) int {
		if a.Pos.Y != b.Pos.Y {
			return a.Pos.Y - b.Pos.Y
		}
		return a.Pos.X - b.Pos.X
	})
	return out
}

// NewSystem creates an empty network.
func NewSystem() *System {
	return &System{
		Pipes:         make(map[Coord]*Pipe),
		Heads:         make(map[string]*SprinklerHead),
		Sources:       make(map[string]*WaterSource),
		PressureCache: make(map[Coord]float64),
	}
}

// clone deep-copies the system so transitions never share mutable state.
func (s *System) clone() *System {
	out := &System{
		Pipes:               make(map[Coord]*Pipe, len(s.Pipes)),
		Heads:               make(map[string]*SprinklerHead, len(s.Heads)),
		Sources:             make(map[string]*WaterSource, len(s.Sources)),
		TotalWaterUsedToday: s.TotalWaterUsedToday,
		PressureCache:       maps.Clone(s.PressureCache),
	}
	if out.PressureCache == nil {
		out.PressureCache = make(map[Coord]float64)
	}
	for k, p := range s.Pipes {
		cp := *p
		cp.ConnectedTo = slices.Clone(p.ConnectedTo)
		out.Pipes[k] = &cp
	}
	for k, h := range s.Heads {
		cp := *h
		cp.Schedule.TimeRanges = slices.Clone(h.Schedule.TimeRanges)
		cp.CoverageTiles = slices.Clone(h.CoverageTiles)
		out.Heads[k] = &cp
	}
	for k, w := range s.Sources {
		cp := *w
		out.Sources[k] = &cp
	}
	return out
}

// Pipe returns a copy of the pipe at c.
func (s *System) Pipe(c Coord) opt.Option[Pipe] {
	p, ok := s.Pipes[c]
	if !ok {
		return opt.None[Pipe]()
	}
	return opt.Some(*p)
}

// Head returns a copy of the sprinkler head with the given id.
func (s *System) Head(id string) opt.Option[SprinklerHead] {
	h, ok := s.Heads[id]
	if !ok {
		return opt.None[SprinklerHead]()
	}
	return opt.Some(*h)
}

// HeadIDs returns sprinkler ids in a stable order.
func (s *System) HeadIDs() []string {
	return slices.Sorted(maps.Keys(s.Heads))
}

// AddPipe lays a pipe at (x, y) and connects it to adjacent pipes. Returns
// nil if a pipe already occupies the tile or the type is unknown.
func AddPipe(s *System, x, y int, t PipeType) *System {
	c := Coord{x, y}
	if _, exists := s.Pipes[c]; exists {
		return nil
	}
	if _, known := PipeSpecs[t]; !known {
		return nil
	}
	next := s.clone()
	p := &Pipe{Pos: c, Type: t, Durability: 100}
	for _, d := range directions {
		if n, ok := next.Pipes[c.Step(d)]; ok {
			p.ConnectedTo = append(p.ConnectedTo, d)
			n.ConnectedTo = addDirection(n.ConnectedTo, opposite(d))
		}
	}
	next.Pipes[c] = p
	relinkHeads(next)
	return next
}

// RemovePipe removes the pipe at (x, y) and disconnects its neighbours.
// Returns nil if there is no pipe there.
func RemovePipe(s *System, x, y int) *System {
	c := Coord{x, y}
	if _, exists := s.Pipes[c]; !exists {
		return nil
	}
	next := s.clone()
	for _, d := range directions {
		if n, ok := next.Pipes[c.Step(d)]; ok {
			n.ConnectedTo = slices.DeleteFunc(n.ConnectedTo, func(x Direction) bool { return x == opposite(d) })
		}
	}
	delete(next.Pipes, c)
	delete(next.PressureCache, c)
	relinkHeads(next)
	return next
}

// AddWaterSource places a source. Returns nil if the id is taken.
func AddWaterSource(s *System, id string, x, y int, t WaterSourceType) *System {
	if _, exists := s.Sources[id]; exists {
		return nil
	}
	spec, ok := SourceSpecs[t]
	if !ok {
		return nil
	}
	next := s.clone()
	next.Sources[id] = &WaterSource{
		ID:          id,
		Pos:         Coord{x, y},
		Type:        t,
		Capacity:    spec.Capacity,
		CostPerUnit: spec.CostPerUnit,
	}
	return next
}

// ResetDailyUsage zeroes every source's daily counter and the system total.
func ResetDailyUsage(s *System) *System {
	next := s.clone()
	next.TotalWaterUsedToday = 0
	for _, w := range next.Sources {
		w.UsedToday = 0
	}
	return next
}

func addDirection(ds []Direction, d Direction) []Direction {
	if slices.Contains(ds, d) {
		return ds
	}
	return append(ds, d)
}

// Summary is a read-only snapshot for panels and logs.
type Summary struct {
	Pipes           int     `json:"pipes"`
	Leaks           int     `json:"leaks"`
	Heads           int     `json:"heads"`
	ActiveHeads     int     `json:"active_heads"`
	Sources         int     `json:"sources"`
	AveragePressure float64 `json:"average_pressure"`
	WaterUsedToday  float64 `json:"water_used_today"`
}

// Summarize counts pipes, leaks and heads and averages pressure.
func Summarize(s *System) Summary {
	sum := Summary{
		Pipes:          len(s.Pipes),
		Heads:          len(s.Heads),
		Sources:        len(s.Sources),
		WaterUsedToday: s.TotalWaterUsedToday,
	}
	total := 0.0
	for _, p := range s.Pipes {
		total += p.PressureLevel
		if p.IsLeaking {
			sum.Leaks++
		}
	}
	if len(s.Pipes) > 0 {
		sum.AveragePressure = total / float64(len(s.Pipes))
	}
	for _, h := range s.Heads {
		if h.IsActive {
			sum.ActiveHeads++
		}
	}
	return sum
}
