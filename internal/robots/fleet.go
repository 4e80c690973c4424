// Package robots is the autonomous equipment controller: robot mowers, rakers,
// sprayers and spreaders that pick work from a shared candidate scan, drive to
// it on battery, and report work effects for the caller to apply.
package robots

import (
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/talgya/greenkeeper/internal/terrain"
)

// Kind is an equipment model.
type Kind string

const (
	KindFairwayMower Kind = "fairway_mower"
	KindGreensMower  Kind = "greens_mower"
	KindRoughMower   Kind = "rough_mower"
	KindGenericMower Kind = "generic_mower"
	KindBunkerRaker  Kind = "bunker_raker"
	KindSprayer      Kind = "sprayer"
	KindSpreader     Kind = "spreader"
)

// EffectType is the kind of work a robot performs.
type EffectType string

const (
	EffectMower    EffectType = "mower"
	EffectRaker    EffectType = "raker"
	EffectSprayer  EffectType = "sprayer"
	EffectSpreader EffectType = "spreader"
)

// Spec is the catalog entry for an equipment model.
type Spec struct {
	Effect         EffectType
	Price          float64
	Speed          float64 // tiles per minute
	CostPerHour    float64 // operating cost while out of the station
	DrainPerMinute float64 // battery percent
	WorkMinutes    float64
	Radius         int     // area effects only
	Amount         float64 // area effects only
	HomeTerrain    terrain.Type
	AllTerrain     bool
}

// Catalog lists every equipment model.
var Catalog = map[Kind]Spec{
	KindFairwayMower: {Effect: EffectMower, Price: 18000, Speed: 3, CostPerHour: 4, DrainPerMinute: 0.15, WorkMinutes: 3, HomeTerrain: terrain.TypeFairway},
	KindGreensMower:  {Effect: EffectMower, Price: 22000, Speed: 2, CostPerHour: 5, DrainPerMinute: 0.12, WorkMinutes: 4, HomeTerrain: terrain.TypeGreen},
	KindRoughMower:   {Effect: EffectMower, Price: 15000, Speed: 3, CostPerHour: 4, DrainPerMinute: 0.18, WorkMinutes: 3, HomeTerrain: terrain.TypeRough},
	KindGenericMower: {Effect: EffectMower, Price: 26000, Speed: 2.5, CostPerHour: 6, DrainPerMinute: 0.2, WorkMinutes: 4, AllTerrain: true},
	KindBunkerRaker:  {Effect: EffectRaker, Price: 12000, Speed: 2, CostPerHour: 3, DrainPerMinute: 0.1, WorkMinutes: 5},
	KindSprayer:      {Effect: EffectSprayer, Price: 16000, Speed: 2.5, CostPerHour: 5, DrainPerMinute: 0.15, WorkMinutes: 2, Radius: 1, Amount: 12},
	KindSpreader:     {Effect: EffectSpreader, Price: 14000, Speed: 2.5, CostPerHour: 4, DrainPerMinute: 0.12, WorkMinutes: 3, Radius: 1, Amount: 10},
}

// IsDedicatedMower reports whether k only mows its home terrain.
func IsDedicatedMower(k Kind) bool {
	s, ok := Catalog[k]
	return ok && s.Effect == EffectMower && !s.AllTerrain
}

// Status is a robot's activity.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusMoving    Status = "moving"
	StatusWorking   Status = "working"
	StatusReturning Status = "returning"
	StatusCharging  Status = "charging"
)

// Battery thresholds and charge rate.
const (
	lowBattery      = 20.0
	chargePerMinute = 2.0
	arriveDistance  = 0.05
	fleetAISpeedup  = 1.2
)

// Robot is one piece of autonomous equipment.
type Robot struct {
	ID       string  `json:"id"`
	Kind     Kind    `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Battery  float64 `json:"battery"` // 0–100
	Status   Status  `json:"status"`
	TargetX  int     `json:"target_x"`
	TargetY  int     `json:"target_y"`
	Progress float64 `json:"progress"`
}

// Fleet is the equipment slot of the aggregate.
type Fleet struct {
	Robots   []Robot `json:"robots"`
	StationX int     `json:"station_x"`
	StationY int     `json:"station_y"`
}

// NewFleet creates an empty fleet charging at (x, y).
func NewFleet(stationX, stationY int) *Fleet {
	return &Fleet{StationX: stationX, StationY: stationY}
}

func (f *Fleet) clone() *Fleet {
	return &Fleet{Robots: slices.Clone(f.Robots), StationX: f.StationX, StationY: f.StationY}
}

// Add parks a new robot at the station. Returns nil for an unknown kind.
func Add(f *Fleet, k Kind) *Fleet {
	if _, ok := Catalog[k]; !ok {
		return nil
	}
	next := f.clone()
	next.Robots = append(next.Robots, Robot{
		ID:      uuid.NewString(),
		Kind:    k,
		X:       float64(f.StationX),
		Y:       float64(f.StationY),
		Battery: 100,
		Status:  StatusIdle,
	})
	return next
}

// Remove sells off a robot. Returns nil if unknown.
func Remove(f *Fleet, id string) *Fleet {
	i := slices.IndexFunc(f.Robots, func(r Robot) bool { return r.ID == id })
	if i < 0 {
		return nil
	}
	next := f.clone()
	next.Robots = slices.Delete(next.Robots, i, i+1)
	return next
}

// ClampStation pulls the charging station inside a width×height course.
// Returns the same fleet when it is already in bounds.
func ClampStation(f *Fleet, width, height int) *Fleet {
	x := min(max(f.StationX, 0), max(width-1, 0))
	y := min(max(f.StationY, 0), max(height-1, 0))
	if x == f.StationX && y == f.StationY {
		return f
	}
	next := f.clone()
	next.StationX, next.StationY = x, y
	return next
}

// TraversePredicate reports whether a robot kind may work on a terrain type.
type TraversePredicate func(k Kind, t terrain.Type) bool

// TickInput drives one controller step. Candidates come from a single scan
// shared by the whole fleet.
type TickInput struct {
	Candidates  []terrain.WorkCandidate
	CanTraverse TraversePredicate
	Minutes     float64
	FleetAI     bool
}

// Effect is one unit of robot work for the caller to apply.
type Effect struct {
	Type       EffectType
	RobotID    string
	X          int
	Y          int
	Radius     int
	Amount     float64
	Efficiency float64
}

// TickResult is the controller output.
type TickResult struct {
	Fleet         *Fleet
	Effects       []Effect
	OperatingCost float64
}

// Tick moves, works and charges every robot. With FleetAI each robot takes
// the unclaimed candidate nearest to itself and works faster; without it
// robots take candidates in scan order.
func Tick(f *Fleet, in TickInput) TickResult {
	res := TickResult{Fleet: f}
	if len(f.Robots) == 0 || in.Minutes <= 0 {
		return res
	}
	next := f.clone()
	claimed := make(map[[2]int]bool)
	for _, r := range next.Robots {
		if r.Status == StatusMoving || r.Status == StatusWorking {
			claimed[[2]int{r.TargetX, r.TargetY}] = true
		}
	}

	for i := range next.Robots {
		r := &next.Robots[i]
		spec := Catalog[r.Kind]
		if r.Status != StatusCharging && r.Status != StatusIdle {
			res.OperatingCost += spec.CostPerHour * in.Minutes / 60
		}
		if e, ok := stepRobot(r, spec, next, in, claimed); ok {
			res.Effects = append(res.Effects, e)
		}
	}
	res.Fleet = next
	return res
}

func stepRobot(r *Robot, spec Spec, f *Fleet, in TickInput, claimed map[[2]int]bool) (Effect, bool) {
	switch r.Status {
	case StatusCharging:
		r.Battery = min(100, r.Battery+chargePerMinute*in.Minutes)
		if r.Battery >= 100 {
			r.Status = StatusIdle
		}
		return Effect{}, false

	case StatusReturning:
		if moveToward(r, f.StationX, f.StationY, spec.Speed*in.Minutes) {
			r.Status = StatusCharging
		}
		r.Battery = max(0, r.Battery-spec.DrainPerMinute*in.Minutes)
		return Effect{}, false
	}

	if r.Battery < lowBattery {
		if r.Status == StatusMoving || r.Status == StatusWorking {
			delete(claimed, [2]int{r.TargetX, r.TargetY})
		}
		r.Status, r.Progress = StatusReturning, 0
		return Effect{}, false
	}

	if r.Status == StatusIdle {
		c, ok := pickCandidate(r, spec, in, claimed)
		if !ok {
			return Effect{}, false
		}
		claimed[[2]int{c.X, c.Y}] = true
		r.TargetX, r.TargetY, r.Status, r.Progress = c.X, c.Y, StatusMoving, 0
	}

	r.Battery = max(0, r.Battery-spec.DrainPerMinute*in.Minutes)
	if r.Status == StatusMoving {
		if !moveToward(r, r.TargetX, r.TargetY, spec.Speed*in.Minutes) {
			return Effect{}, false
		}
		r.Status = StatusWorking
	}

	rate := 1.0
	if in.FleetAI {
		rate = fleetAISpeedup
	}
	r.Progress += in.Minutes * rate / spec.WorkMinutes
	if r.Progress < 1 {
		return Effect{}, false
	}
	delete(claimed, [2]int{r.TargetX, r.TargetY})
	r.Status, r.Progress = StatusIdle, 0
	return Effect{
		Type:       spec.Effect,
		RobotID:    r.ID,
		X:          r.TargetX,
		Y:          r.TargetY,
		Radius:     spec.Radius,
		Amount:     spec.Amount,
		Efficiency: 1,
	}, true
}

func pickCandidate(r *Robot, spec Spec, in TickInput, claimed map[[2]int]bool) (terrain.WorkCandidate, bool) {
	best, found := terrain.WorkCandidate{}, false
	bestDist := math.Inf(1)
	for _, c := range in.Candidates {
		if claimed[[2]int{c.X, c.Y}] || !wants(spec.Effect, c) {
			continue
		}
		if in.CanTraverse != nil && !in.CanTraverse(r.Kind, c.Type) {
			continue
		}
		if !in.FleetAI {
			return c, true
		}
		if d := math.Hypot(float64(c.X)-r.X, float64(c.Y)-r.Y); d < bestDist {
			best, bestDist, found = c, d, true
		}
	}
	return best, found
}

func wants(e EffectType, c terrain.WorkCandidate) bool {
	switch e {
	case EffectMower:
		return c.Mow
	case EffectRaker:
		return c.Rake
	case EffectSprayer:
		return c.Water
	case EffectSpreader:
		return c.Fertilize
	}
	return false
}

// moveToward advances the robot by step tiles and reports arrival.
func moveToward(r *Robot, tx, ty int, step float64) bool {
	dx, dy := float64(tx)-r.X, float64(ty)-r.Y
	dist := math.Hypot(dx, dy)
	if dist < arriveDistance || step >= dist {
		r.X, r.Y = float64(tx), float64(ty)
		return true
	}
	r.X += dx / dist * step
	r.Y += dy / dist * step
	return false
}

// Summary counts robots by status.
func Summary(f *Fleet) map[Status]int {
	out := make(map[Status]int)
	for _, r := range f.Robots {
		out[r.Status]++
	}
	return out
}
