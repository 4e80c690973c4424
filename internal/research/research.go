// Package research runs the course's research program: a fixed catalog of
// projects, one active at a time, funded per minute of progress, whose
// completion unlocks staff efficiency, fertilizer and fleet bonuses.
package research

import (
	"slices"

	"github.com/talgya/greenkeeper/internal/opt"
)

// ItemID names a research project.
type ItemID string

const (
	BasicTraining      ItemID = "basic_training"
	AdvancedTraining   ItemID = "advanced_training"
	ErgonomicEquipment ItemID = "ergonomic_equipment"
	SlowRelease        ItemID = "slow_release_fertilizer"
	OrganicBlend       ItemID = "organic_fertilizer"
	RobotBasics        ItemID = "robotics_basics"
	FleetAI            ItemID = "fleet_ai"
)

// Bonus is what a completed project grants.
type Bonus struct {
	Efficiency float64 // added to the staff efficiency bonus
	Fertilizer float64 // fertilizer effectiveness multiplier, 0 if none
	FleetAI    bool
}

// Item is a catalog entry.
type Item struct {
	ID      ItemID
	Name    string
	Unlocks string
	Cost    float64 // total funding at normal level
	Minutes float64 // research time at normal level
	Prereqs []ItemID
	Bonus   Bonus
}

// Catalog is every project, in display order.
var Catalog = []Item{
	{ID: BasicTraining, Name: "Basic Staff Training", Unlocks: "+10% staff efficiency", Cost: 1500, Minutes: 480, Bonus: Bonus{Efficiency: 0.10}},
	{ID: AdvancedTraining, Name: "Advanced Staff Training", Unlocks: "+15% staff efficiency", Cost: 4000, Minutes: 960, Prereqs: []ItemID{BasicTraining}, Bonus: Bonus{Efficiency: 0.15}},
	{ID: ErgonomicEquipment, Name: "Ergonomic Equipment", Unlocks: "+10% staff efficiency", Cost: 3000, Minutes: 720, Bonus: Bonus{Efficiency: 0.10}},
	{ID: SlowRelease, Name: "Slow-Release Fertilizer", Unlocks: "fertilizer 1.25x as effective", Cost: 2500, Minutes: 600, Bonus: Bonus{Fertilizer: 1.25}},
	{ID: OrganicBlend, Name: "Organic Fertilizer Blend", Unlocks: "fertilizer 1.5x as effective", Cost: 5000, Minutes: 1200, Prereqs: []ItemID{SlowRelease}, Bonus: Bonus{Fertilizer: 1.5}},
	{ID: RobotBasics, Name: "Robotics Basics", Unlocks: "autonomous equipment", Cost: 6000, Minutes: 1440},
	{ID: FleetAI, Name: "Fleet AI", Unlocks: "coordinated robot fleet", Cost: 12000, Minutes: 2880, Prereqs: []ItemID{RobotBasics}, Bonus: Bonus{FleetAI: true}},
}

// Lookup finds a catalog item.
func Lookup(id ItemID) opt.Option[Item] {
	i := slices.IndexFunc(Catalog, func(it Item) bool { return it.ID == id })
	if i < 0 {
		return opt.None[Item]()
	}
	return opt.Some(Catalog[i])
}

// Funding scales both speed and cost.
type Funding string

const (
	FundingNone   Funding = "none"
	FundingLow    Funding = "low"
	FundingNormal Funding = "normal"
	FundingHigh   Funding = "high"
)

// speed and cost multipliers per funding level; research is free but slow
// when unfunded.
var fundingTable = map[Funding]struct{ speed, cost float64 }{
	FundingNone:   {speed: 0.25, cost: 0},
	FundingLow:    {speed: 0.6, cost: 0.5},
	FundingNormal: {speed: 1, cost: 1},
	FundingHigh:   {speed: 1.5, cost: 2},
}

// State is the research slot of the aggregate.
type State struct {
	Active    ItemID   `json:"active"` // empty when idle
	Progress  float64  `json:"progress"`
	Funding   Funding  `json:"funding"`
	Completed []ItemID `json:"completed"`
}

// NewState creates an idle program at normal funding.
func NewState() *State {
	return &State{Funding: FundingNormal}
}

func (s *State) clone() *State {
	cp := *s
	cp.Completed = slices.Clone(s.Completed)
	return &cp
}

// ActiveItem returns the project in progress.
func (s *State) ActiveItem() opt.Option[Item] {
	if s.Active == "" {
		return opt.None[Item]()
	}
	return Lookup(s.Active)
}

// IsCompleted reports whether a project is done.
func IsCompleted(s *State, id ItemID) bool {
	return slices.Contains(s.Completed, id)
}

// Start begins a project. Returns nil if the id is unknown, already done,
// missing a prerequisite, or another project is running.
func Start(s *State, id ItemID) *State {
	it, ok := Lookup(id).Get()
	if !ok || s.Active != "" || IsCompleted(s, id) {
		return nil
	}
	for _, p := range it.Prereqs {
		if !IsCompleted(s, p) {
			return nil
		}
	}
	next := s.clone()
	next.Active = id
	next.Progress = 0
	return next
}

// SetFunding changes the funding level. Returns nil for an unknown level.
func SetFunding(s *State, f Funding) *State {
	if _, ok := fundingTable[f]; !ok {
		return nil
	}
	next := s.clone()
	next.Funding = f
	return next
}

// FundingCostPerMinute is what one minute of research currently costs.
func FundingCostPerMinute(s *State) float64 {
	it, ok := s.ActiveItem().Get()
	if !ok || it.Minutes <= 0 {
		return 0
	}
	return it.Cost / it.Minutes * fundingTable[s.Funding].cost
}

// TickResult reports a research step.
type TickResult struct {
	State     *State
	Completed opt.Option[Item]
}

// Tick advances the active project by minutes of research time.
func Tick(s *State, minutes float64) TickResult {
	it, ok := s.ActiveItem().Get()
	if !ok || minutes <= 0 {
		return TickResult{State: s}
	}
	next := s.clone()
	next.Progress += minutes * fundingTable[s.Funding].speed
	if next.Progress < it.Minutes {
		return TickResult{State: next}
	}
	next.Active = ""
	next.Progress = 0
	next.Completed = append(next.Completed, it.ID)
	return TickResult{State: next, Completed: opt.Some(it)}
}

// PercentComplete is progress on the active project, 0–100.
func PercentComplete(s *State) float64 {
	it, ok := s.ActiveItem().Get()
	if !ok {
		return 0
	}
	return min(100, s.Progress/it.Minutes*100)
}

// EfficiencyBonus sums the staff efficiency granted by completed projects.
func EfficiencyBonus(s *State) float64 {
	total := 0.0
	for _, id := range s.Completed {
		if it, ok := Lookup(id).Get(); ok {
			total += it.Bonus.Efficiency
		}
	}
	return total
}

// FertilizerEffectiveness is the best fertilizer multiplier unlocked, 1 when
// none is.
func FertilizerEffectiveness(s *State) float64 {
	best := 1.0
	for _, id := range s.Completed {
		if it, ok := Lookup(id).Get(); ok {
			best = max(best, it.Bonus.Fertilizer)
		}
	}
	return best
}

// HasFleetAI reports whether fleet coordination is unlocked.
func HasFleetAI(s *State) bool {
	return IsCompleted(s, FleetAI)
}
