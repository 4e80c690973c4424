// Package employees manages course staff: the roster, hourly payroll,
// fatigue and happiness, promotions, hiring through job postings, and the
// groundskeeper work scheduler that turns staff time into terrain work.
package employees

import (
	"slices"

	"github.com/google/uuid"
)

// DefaultMaxRoster is the staff cap for a new course.
const DefaultMaxRoster = 20

// Role is an employee's job.
type Role string

const (
	RoleGroundskeeper Role = "groundskeeper"
	RoleMechanic      Role = "mechanic"
	RoleProShop       Role = "pro_shop"
	RoleManager       Role = "manager"
)

// baseWage is the hourly wage of a trainee in each role.
var baseWage = map[Role]float64{
	RoleGroundskeeper: 12,
	RoleMechanic:      18,
	RoleProShop:       11,
	RoleManager:       25,
}

// SkillLevel is an employee's seniority.
type SkillLevel int

const (
	Trainee SkillLevel = iota
	Experienced
	Expert
	Master
)

var levelNames = [...]string{"Trainee", "Experienced", "Expert", "Master"}

func (l SkillLevel) String() string {
	if l < Trainee || l > Master {
		return "Unknown"
	}
	return levelNames[l]
}

// Per-level tables, indexed by SkillLevel.
var (
	promotionXP    = [...]float64{0, 100, 300, 700}
	wageMultiplier = [...]float64{1, 1.15, 1.3, 1.5}
	workEfficiency = [...]float64{0.7, 0.85, 1.0, 1.15}
)

// Efficiency is the work rate multiplier for a level.
func (l SkillLevel) Efficiency() float64 {
	if l < Trainee || l > Master {
		return workEfficiency[Trainee]
	}
	return workEfficiency[l]
}

// WageFor returns the hourly wage for a role at a level.
func WageFor(role Role, level SkillLevel) float64 {
	if level < Trainee || level > Master {
		level = Trainee
	}
	return baseWage[role] * wageMultiplier[level]
}

// Employee is one member of staff.
type Employee struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Role       Role       `json:"role"`
	Skill      SkillLevel `json:"skill"`
	HourlyWage float64    `json:"hourly_wage"`
	Experience float64    `json:"experience"`
	Fatigue    float64    `json:"fatigue"`   // 0–100
	Happiness  float64    `json:"happiness"` // 0–100
	HiredDay   int        `json:"hired_day"`
	TotalPaid  float64    `json:"total_paid"`
}

// Roster is the staff slot of the aggregate.
type Roster struct {
	Employees []Employee `json:"employees"`
	MaxSize   int        `json:"max_size"`
}

// NewRoster creates an empty roster.
func NewRoster(maxSize int) *Roster {
	if maxSize <= 0 {
		maxSize = DefaultMaxRoster
	}
	return &Roster{MaxSize: maxSize}
}

func (r *Roster) clone() *Roster {
	return &Roster{Employees: slices.Clone(r.Employees), MaxSize: r.MaxSize}
}

// Len is the number of employees.
func (r *Roster) Len() int { return len(r.Employees) }

// IsFull reports whether the roster is at its cap.
func (r *Roster) IsFull() bool { return len(r.Employees) >= r.MaxSize }

func (r *Roster) index(id string) int {
	return slices.IndexFunc(r.Employees, func(e Employee) bool { return e.ID == id })
}

// Get returns the employee with the given id.
func (r *Roster) Get(id string) (Employee, bool) {
	i := r.index(id)
	if i < 0 {
		return Employee{}, false
	}
	return r.Employees[i], true
}

// Hire adds an applicant to the roster. Returns nil when the roster is full.
func Hire(r *Roster, a Applicant, day int) *Roster {
	if r.IsFull() {
		return nil
	}
	next := r.clone()
	next.Employees = append(next.Employees, Employee{
		ID:         uuid.NewString(),
		Name:       a.Name,
		Role:       a.Role,
		Skill:      a.Skill,
		HourlyWage: a.AskingWage,
		Experience: promotionXP[clampLevel(a.Skill)],
		Happiness:  70,
		HiredDay:   day,
	})
	return next
}

// Fire removes an employee. Returns nil if the id is unknown.
func Fire(r *Roster, id string) *Roster {
	i := r.index(id)
	if i < 0 {
		return nil
	}
	next := r.clone()
	next.Employees = slices.Delete(next.Employees, i, i+1)
	return next
}

// AwardExperience adds experience to one employee. Returns nil if the id is
// unknown or the amount is not positive.
func AwardExperience(r *Roster, id string, amount float64) *Roster {
	i := r.index(id)
	if i < 0 || amount <= 0 {
		return nil
	}
	next := r.clone()
	next.Employees[i].Experience += amount
	return next
}

// PayrollResult is the outcome of one hourly payroll run.
type PayrollResult struct {
	Roster    *Roster
	TotalPaid float64
}

// ProcessPayroll pays every employee one hour of wages.
func ProcessPayroll(r *Roster) PayrollResult {
	next := r.clone()
	total := 0.0
	for i := range next.Employees {
		e := &next.Employees[i]
		e.TotalPaid += e.HourlyWage
		total += e.HourlyWage
	}
	return PayrollResult{Roster: next, TotalPaid: total}
}

// MissedPayroll lowers morale after wages could not be paid.
func MissedPayroll(r *Roster) *Roster {
	next := r.clone()
	for i := range next.Employees {
		next.Employees[i].Happiness = clamp(next.Employees[i].Happiness-missedPayHappiness, 0, 100)
	}
	return next
}

// TotalHourlyWages is the payroll for one hour.
func (r *Roster) TotalHourlyWages() float64 {
	total := 0.0
	for _, e := range r.Employees {
		total += e.HourlyWage
	}
	return total
}

// Staff dynamics rates, per in-game minute.
const (
	dutyFatigue        = 0.08
	restRecovery       = 0.2
	happinessDrift     = 0.02
	dutyExperience     = 0.05
	missedPayHappiness = 15
)

// TickInput drives one staff update.
type TickInput struct {
	Minutes       float64
	OnDuty        bool
	TrainingBonus float64 // fraction, from research
}

// Promotion records an employee reaching a new level.
type Promotion struct {
	EmployeeID string
	Name       string
	Level      SkillLevel
}

// Tick advances fatigue, happiness and experience, and promotes anyone who
// crossed the next threshold. Promotion raises the wage to the level rate if
// that is higher.
func Tick(r *Roster, in TickInput) (*Roster, []Promotion) {
	if in.Minutes <= 0 || len(r.Employees) == 0 {
		return r, nil
	}
	next := r.clone()
	var promos []Promotion
	for i := range next.Employees {
		e := &next.Employees[i]
		if in.OnDuty {
			e.Fatigue = clamp(e.Fatigue+dutyFatigue*in.Minutes, 0, 100)
			e.Experience += dutyExperience * (1 + in.TrainingBonus) * in.Minutes
		} else {
			e.Fatigue = clamp(e.Fatigue-restRecovery*in.Minutes, 0, 100)
		}

		target := 75 - e.Fatigue*0.4 + (e.HourlyWage-WageFor(e.Role, e.Skill))*2
		target = clamp(target, 0, 100)
		step := happinessDrift * in.Minutes
		switch {
		case e.Happiness < target:
			e.Happiness = min(target, e.Happiness+step)
		case e.Happiness > target:
			e.Happiness = max(target, e.Happiness-step)
		}

		for e.Skill < Master && e.Experience >= promotionXP[e.Skill+1] {
			e.Skill++
			e.HourlyWage = max(e.HourlyWage, WageFor(e.Role, e.Skill))
			promos = append(promos, Promotion{EmployeeID: e.ID, Name: e.Name, Level: e.Skill})
		}
	}
	return next, promos
}

func clampLevel(l SkillLevel) SkillLevel {
	if l < Trainee {
		return Trainee
	}
	if l > Master {
		return Master
	}
	return l
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
