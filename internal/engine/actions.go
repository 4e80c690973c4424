// Operator actions. Each either applies fully or reports false and leaves the
// aggregate untouched.
package engine

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/talgya/greenkeeper/internal/economy"
	"github.com/talgya/greenkeeper/internal/employees"
	"github.com/talgya/greenkeeper/internal/irrigation"
	"github.com/talgya/greenkeeper/internal/marketing"
	"github.com/talgya/greenkeeper/internal/research"
	"github.com/talgya/greenkeeper/internal/robots"
)

// spend records a normal expense, reporting false when it cannot be afforded.
func (s *State) spend(amount float64, cat economy.Category, desc string) bool {
	next := economy.AddExpense(s.Economy, amount, cat, desc, s.stamp(), false)
	if next == nil {
		return false
	}
	s.Economy = next
	return true
}

func (c Collaborators) refreshIrrigation(s *State) {
	if c.Irrigation != nil {
		c.Irrigation.Update(s.Irrigation)
	}
}

// RepairPipe fixes a leaking pipe for irrigation.RepairCost.
func RepairPipe(s *State, c Collaborators, x, y int) bool {
	p, ok := s.Irrigation.Pipe(irrigation.Coord{X: x, Y: y}).Get()
	if !ok || !p.IsLeaking {
		return false
	}
	if !economy.CanAfford(s.Economy, irrigation.RepairCost) {
		slog.Warn("repair rejected", "x", x, "y", y, "cash", s.Economy.Cash)
		c.notify("Not enough cash to repair the pipe", ColorError)
		return false
	}
	fixed := irrigation.RepairLeak(s.Irrigation, x, y)
	if fixed == nil || !s.spend(irrigation.RepairCost, economy.CategoryMaintenance, fmt.Sprintf("Pipe repair at (%d, %d)", x, y)) {
		return false
	}
	s.Irrigation = irrigation.RecalculatePressure(fixed)
	s.DailyStats.Expenses.Maintenance += irrigation.RepairCost
	c.notify("Pipe repaired", ColorSuccess)
	c.refreshIrrigation(s)
	return true
}

// BuildPipe lays a pipe tile.
func BuildPipe(s *State, c Collaborators, x, y int, t irrigation.PipeType) bool {
	spec, ok := irrigation.PipeSpecs[t]
	if !ok || !economy.CanAfford(s.Economy, spec.Cost) {
		return false
	}
	next := irrigation.AddPipe(s.Irrigation, x, y, t)
	if next == nil || !s.spend(spec.Cost, economy.CategoryConstruction, "Pipe "+string(t)) {
		return false
	}
	s.Irrigation = irrigation.RecalculatePressure(next)
	c.refreshIrrigation(s)
	return true
}

// PlaceSprinkler installs a sprinkler head.
func PlaceSprinkler(s *State, c Collaborators, id string, x, y int, t irrigation.SprinklerType) bool {
	spec, ok := irrigation.SprinklerSpecs[t]
	if !ok || !economy.CanAfford(s.Economy, spec.Cost) {
		return false
	}
	next := irrigation.AddSprinklerHead(s.Irrigation, id, x, y, t)
	if next == nil || !s.spend(spec.Cost, economy.CategoryConstruction, "Sprinkler "+string(t)) {
		return false
	}
	s.Irrigation = next
	c.refreshIrrigation(s)
	return true
}

// RemoveSprinkler takes a head off the network. Nothing is refunded.
func RemoveSprinkler(s *State, c Collaborators, id string) bool {
	next := irrigation.RemoveSprinklerHead(s.Irrigation, id)
	if next == nil {
		return false
	}
	s.Irrigation = next
	c.refreshIrrigation(s)
	return true
}

// SetSprinklerSchedule replaces a head's watering schedule.
func SetSprinklerSchedule(s *State, c Collaborators, id string, sch irrigation.Schedule) bool {
	next := irrigation.SetSchedule(s.Irrigation, id, sch)
	if next == nil {
		return false
	}
	s.Irrigation = next
	c.refreshIrrigation(s)
	return true
}

// TakeLoan borrows principal at annualRate over termMonths.
func TakeLoan(s *State, c Collaborators, principal, annualRate float64, termMonths int) bool {
	next := economy.TakeLoan(s.Economy, principal, annualRate, termMonths, s.stamp())
	if next == nil {
		return false
	}
	s.Economy = next
	c.notify(fmt.Sprintf("Loan of %s approved", economy.FormatMoney(principal)), ColorSuccess)
	return true
}

// StartResearch begins a research item.
func StartResearch(s *State, c Collaborators, id research.ItemID) bool {
	next := research.Start(s.Research, id)
	if next == nil {
		return false
	}
	s.Research = next
	s.ResearchAccumulator = 0
	if it, ok := research.Lookup(id).Get(); ok {
		c.notify("Research started: "+it.Name, ColorInfo)
	}
	return true
}

// SetResearchFunding changes the funding level of the active project.
func SetResearchFunding(s *State, f research.Funding) bool {
	next := research.SetFunding(s.Research, f)
	if next == nil {
		return false
	}
	s.Research = next
	return true
}

// StartCampaign launches a marketing campaign. Costs are charged daily.
func StartCampaign(s *State, c Collaborators, t marketing.CampaignType) bool {
	next := marketing.Start(s.Marketing, t, s.GameDay)
	if next == nil {
		return false
	}
	s.Marketing = next
	c.notify(marketing.Catalog[t].Name+" campaign launched", ColorInfo)
	return true
}

// PostJob advertises an open role for employees.PostingCost.
func PostJob(s *State, role employees.Role) bool {
	next := employees.PostJob(s.Applications, role, s.Now())
	if next == nil || !s.spend(employees.PostingCost, economy.CategoryOther, "Job posting: "+string(role)) {
		return false
	}
	s.Applications = next
	return true
}

// HireApplicant moves an applicant onto the roster.
func HireApplicant(s *State, c Collaborators, applicantID string) bool {
	a, ok := s.Applications.Applicant(applicantID)
	if !ok {
		return false
	}
	roster := employees.Hire(s.Roster, a, s.GameDay)
	if roster == nil {
		c.notify("Roster is full", ColorWarning)
		return false
	}
	s.Roster = roster
	s.Applications = employees.RemoveApplicant(s.Applications, applicantID)
	c.notify(fmt.Sprintf("Hired %s as %s", a.Name, a.Role), ColorSuccess)
	return true
}

// FireEmployee removes someone from the roster.
func FireEmployee(s *State, id string) bool {
	next := employees.Fire(s.Roster, id)
	if next == nil {
		return false
	}
	s.Roster = next
	return true
}

// BuyRobot purchases a robot, parked at the charging station.
func BuyRobot(s *State, c Collaborators, k robots.Kind) bool {
	spec, ok := robots.Catalog[k]
	if !ok || !s.spend(spec.Price, economy.CategoryEquipment, "Robot: "+string(k)) {
		return false
	}
	s.Fleet = robots.Add(s.Fleet, k)
	c.notify(fmt.Sprintf("Purchased %s for %s", k, economy.FormatMoney(spec.Price)), ColorSuccess)
	return true
}

// ResaleShare is the part of a robot's price recovered when it is sold.
const ResaleShare = 0.5

// SellRobot removes a robot from the fleet and books its resale value.
func SellRobot(s *State, c Collaborators, id string) bool {
	i := slices.IndexFunc(s.Fleet.Robots, func(r robots.Robot) bool { return r.ID == id })
	if i < 0 {
		return false
	}
	k := s.Fleet.Robots[i].Kind
	next := robots.Remove(s.Fleet, id)
	if next == nil {
		return false
	}
	s.Fleet = next
	value := robots.Catalog[k].Price * ResaleShare
	s.Economy = economy.AddIncome(s.Economy, value, economy.CategoryOther, "Sold robot: "+string(k), s.stamp())
	s.DailyStats.Revenue.Other += value
	c.notify(fmt.Sprintf("Sold %s for %s", k, economy.FormatMoney(value)), ColorInfo)
	return true
}

// SetGreenFee changes the price of a round.
func SetGreenFee(s *State, fee float64) bool {
	if fee < 0 {
		return false
	}
	s.Pricing.GreenFee = fee
	return true
}
