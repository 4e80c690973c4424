// Package scenario tracks scenario objectives: revenue, golfers and rounds
// accumulated from the simulation, plus cash and course-health thresholds,
// against an optional day limit.
package scenario

import "slices"

// ObjectiveKind is what an objective measures.
type ObjectiveKind string

const (
	EarnRevenue    ObjectiveKind = "earn_revenue"
	ServeGolfers   ObjectiveKind = "serve_golfers"
	PlayRounds     ObjectiveKind = "play_rounds"
	ReachCash      ObjectiveKind = "reach_cash"
	MaintainHealth ObjectiveKind = "maintain_health"
)

// Objective is one goal.
type Objective struct {
	Kind   ObjectiveKind `json:"kind"`
	Target float64       `json:"target"`
}

// Status is the scenario outcome so far.
type Status string

const (
	InProgress Status = "in_progress"
	Won        Status = "won"
	Lost       Status = "lost"
)

// Progress is a batch of deltas from one tick.
type Progress struct {
	Revenue float64
	Golfers int
	Rounds  int
}

// Manager is the scenario slot of the aggregate.
type Manager struct {
	Name       string      `json:"name"`
	Objectives []Objective `json:"objectives"`
	DayLimit   int         `json:"day_limit"` // 0 means no limit
	Revenue    float64     `json:"revenue"`
	Golfers    int         `json:"golfers"`
	Rounds     int         `json:"rounds"`
	Cash       float64     `json:"cash"`
	Health     float64     `json:"health"`
	Outcome    Status      `json:"outcome"`
}

// New creates a scenario.
func New(name string, objectives []Objective, dayLimit int) *Manager {
	return &Manager{
		Name:       name,
		Objectives: slices.Clone(objectives),
		DayLimit:   dayLimit,
		Outcome:    InProgress,
	}
}

func (m *Manager) clone() *Manager {
	cp := *m
	cp.Objectives = slices.Clone(m.Objectives)
	return &cp
}

// UpdateProgress adds revenue, golfer and round deltas.
func UpdateProgress(m *Manager, p Progress) *Manager {
	if p.Revenue == 0 && p.Golfers == 0 && p.Rounds == 0 {
		return m
	}
	next := m.clone()
	next.Revenue += p.Revenue
	next.Golfers += p.Golfers
	next.Rounds += p.Rounds
	return next
}

// UpdateCash records the current balance.
func UpdateCash(m *Manager, cash float64) *Manager {
	if m.Cash == cash {
		return m
	}
	next := m.clone()
	next.Cash = cash
	return next
}

// UpdateHealth records current course health.
func UpdateHealth(m *Manager, health float64) *Manager {
	if m.Health == health {
		return m
	}
	next := m.clone()
	next.Health = health
	return next
}

// Value is the current measure for an objective kind.
func (m *Manager) Value(k ObjectiveKind) float64 {
	switch k {
	case EarnRevenue:
		return m.Revenue
	case ServeGolfers:
		return float64(m.Golfers)
	case PlayRounds:
		return float64(m.Rounds)
	case ReachCash:
		return m.Cash
	case MaintainHealth:
		return m.Health
	}
	return 0
}

// Met reports whether an objective is satisfied now.
func (m *Manager) Met(o Objective) bool {
	return m.Value(o.Kind) >= o.Target
}

// Evaluate settles the outcome for day: won once every objective is met,
// lost when the day limit passes first. A settled outcome never changes.
func Evaluate(m *Manager, day int) *Manager {
	if m.Outcome != InProgress {
		return m
	}
	outcome := InProgress
	switch {
	case len(m.Objectives) > 0 && !slices.ContainsFunc(m.Objectives, func(o Objective) bool { return !m.Met(o) }):
		outcome = Won
	case m.DayLimit > 0 && day > m.DayLimit:
		outcome = Lost
	}
	if outcome == InProgress {
		return m
	}
	next := m.clone()
	next.Outcome = outcome
	return next
}

// StatusOf is the current outcome.
func StatusOf(m *Manager) Status {
	return m.Outcome
}
