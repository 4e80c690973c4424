// Tick orchestrator: one call per host frame.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/talgya/greenkeeper/internal/economy"
	"github.com/talgya/greenkeeper/internal/employees"
	"github.com/talgya/greenkeeper/internal/golfers"
	"github.com/talgya/greenkeeper/internal/irrigation"
	"github.com/talgya/greenkeeper/internal/marketing"
	"github.com/talgya/greenkeeper/internal/opt"
	"github.com/talgya/greenkeeper/internal/prestige"
	"github.com/talgya/greenkeeper/internal/research"
	"github.com/talgya/greenkeeper/internal/robots"
	"github.com/talgya/greenkeeper/internal/scenario"
	"github.com/talgya/greenkeeper/internal/terrain"
	"github.com/talgya/greenkeeper/internal/weather"
)

// WeatherImpactDelayMs separates the impact message from the conditions
// message.
const WeatherImpactDelayMs = 500

// Staff shift, in hours.
const (
	ShiftStart = 5
	ShiftEnd   = 20
)

// RunTick advances the aggregate by deltaMs of real time. Steps run in a
// fixed order and a failed guard in one never stops the later ones.
func RunTick(s *State, c Collaborators, deltaMs float64) {
	if s.Rand == nil {
		s.Restore(int64(s.GameDay))
	}
	minutes := advanceClock(s, deltaMs)
	hour := s.Hour()

	tickWeather(s, c)
	c.Terrain.Grow(minutes, weather.GrowthFor(s.Weather.Current))
	runPayroll(s, c, hour)
	if s.LastAutoSaveHour.Pass(hour) {
		slog.Debug("autosave", "time", SimTime(s.GameDay, s.GameTime))
		c.save()
	}
	updatePrestige(s, c, hour)
	updateTeeTimes(s, c, hour)

	var progress scenario.Progress
	admitGolfers(s, c, hour, &progress)
	tickGolfers(s, minutes, &progress)
	if s.Scenario != nil {
		s.Scenario = scenario.UpdateProgress(s.Scenario, progress)
	}

	tickEmployees(s, c, hour, minutes)
	tickResearch(s, c, minutes)
	tickFleet(s, c, minutes)
	if s.Scenario != nil {
		s.Scenario = scenario.UpdateCash(s.Scenario, s.Economy.Cash)
		s.Scenario = scenario.UpdateHealth(s.Scenario, c.Terrain.CourseStats().AverageHealth)
	}
	tickIrrigation(s, c, minutes)

	if c.Irrigation != nil {
		c.Irrigation.Update(s.Irrigation)
	}
	if c.Minimap != nil {
		c.Minimap.Update(s.Work.Workers, s.Fleet.Robots, s.Irrigation)
	}
}

// advanceClock converts real time to game minutes and wraps the day.
func advanceClock(s *State, deltaMs float64) float64 {
	minutes := max(deltaMs, 0) / 1000 * s.TimeScale
	s.GameTime += minutes
	for s.GameTime >= MinutesPerDay {
		s.GameTime -= MinutesPerDay
		s.GameDay++
	}
	return minutes
}

func tickWeather(s *State, c Collaborators) {
	next := weather.Tick(s.Weather, s.Now(), s.Rand)
	if next == s.Weather && !next.Changed {
		return
	}
	s.Weather = next
	c.notify(weather.Describe(next.Current), ColorInfo)
	if impact := weather.Impact(next.Current); impact != "" {
		c.notifyLater(WeatherImpactDelayMs, impact, ColorWarning)
	}
}

func runPayroll(s *State, c Collaborators, hour int) {
	if !s.LastPayrollHour.Changed(hour) || s.Roster.Len() == 0 {
		return
	}
	s.LastPayrollHour.Mark(hour)
	res := employees.ProcessPayroll(s.Roster)
	if res.TotalPaid <= 0 {
		return
	}
	next := economy.AddExpense(s.Economy, res.TotalPaid, economy.CategoryWages, "Hourly payroll", s.stamp(), false)
	if next == nil {
		slog.Warn("payroll rejected", "amount", res.TotalPaid, "cash", s.Economy.Cash)
		s.Roster = employees.MissedPayroll(s.Roster)
		c.notify("Payroll missed: staff morale is falling", ColorError)
		return
	}
	s.Economy = next
	s.Roster = res.Roster
	s.DailyStats.Expenses.Wages += res.TotalPaid
	slog.Debug("payroll", "hour", hour, "paid", res.TotalPaid)
}

func updatePrestige(s *State, c Collaborators, hour int) {
	if !s.LastPrestigeUpdateHour.Pass(hour) {
		return
	}
	s.Prestige = prestige.Update(s.Prestige, c.Terrain.Conditions())
	s.Prestige = prestige.WithDemand(s.Prestige, prestige.DemandMultiplier(s.Prestige, s.Pricing.GreenFee))
	if c.Prestige != nil {
		c.Prestige.Update(s.Prestige)
	}
	slog.Debug("prestige", "score", s.Prestige.Score, "stars", s.Prestige.Stars, "demand", s.Prestige.Demand)
}

// bookingDemand combines price acceptance with running campaigns.
func bookingDemand(s *State) float64 {
	return prestige.DemandMultiplier(s.Prestige, s.Pricing.GreenFee) * marketing.DemandBoost(s.Marketing)
}

func updateTeeTimes(s *State, c Collaborators, hour int) {
	if !s.LastTeeTimeUpdateHour.Pass(hour) {
		return
	}
	switch {
	case hour == SlotsHour:
		s.TeeSheet = golfers.GenerateDailySlots(s.TeeSheet, s.GameDay)
		s.TeeSheet = golfers.SimulateDailyBookings(s.TeeSheet, bookingDemand(s), s.Rand)
		slog.Debug("tee sheet opened", "day", s.GameDay, "booked", s.TeeSheet.BookedPlayers())
	case golfers.IsOperatingHour(hour):
		res := golfers.ProcessWalkOns(s.TeeSheet, hour, bookingDemand(s), s.Rand)
		s.TeeSheet = res.Sheet
		if res.TurnedAway > 0 {
			slog.Debug("walk-ons turned away", "hour", hour, "count", res.TurnedAway)
		}
	case hour == DayEndHour:
		EndOfDay(s, c)
	}
}

func admitGolfers(s *State, c Collaborators, hour int, p *scenario.Progress) {
	if !s.LastArrivalHour.Changed(hour) || !golfers.IsOperatingHour(hour) {
		return
	}
	s.LastArrivalHour.Mark(hour)
	s.CourseRating = golfers.UpdateCourseRating(c.Terrain.Conditions(), s.Prestige.Stars)

	// A bargain fee draws extra golfers; an expensive one turns them away at
	// the gate. Admit only ever filters.
	demand := prestige.DemandMultiplier(s.Prestige, s.Pricing.GreenFee)
	rate := golfers.ArrivalRate(hour, s.Pricing.BaseHourlyArrivals, s.Weather.Current.Type, max(1, demand)*marketing.DemandBoost(s.Marketing))
	count := golfers.StochasticRound(rate, s.Rand)
	arrivals := golfers.GenerateArrivals(count, s.Pricing.GreenFee, s.Now(), s.Rand)
	res := golfers.Admit(s.Golfers, arrivals, demand, s.Rand)
	s.Golfers = res.Pool

	fees := 0.0
	for _, g := range res.Admitted {
		fees += g.GreenFee
	}
	if fees > 0 {
		desc := fmt.Sprintf("Green fees (%d golfers)", len(res.Admitted))
		s.Economy = economy.AddIncome(s.Economy, fees, economy.CategoryGreenFees, desc, s.stamp())
		s.DailyStats.Revenue.GreenFees += fees
		p.Revenue += fees
		p.Golfers += len(res.Admitted)
	}
	if s.Golfers.GolfersRejectedToday >= RejectionWarnThreshold && !s.RejectionWarned {
		s.RejectionWarned = true
		c.notify(fmt.Sprintf("%s golfers turned away today (%s lost)",
			humanize.Comma(int64(s.Golfers.GolfersRejectedToday)),
			economy.FormatMoney(s.Golfers.RevenueLostToday)), ColorWarning)
	}
	slog.Debug("arrivals", "hour", hour, "rate", rate, "admitted", len(res.Admitted), "rejected", len(res.Rejected))
}

func tickGolfers(s *State, minutes float64, p *scenario.Progress) {
	res := golfers.Tick(s.Golfers, minutes, s.CourseRating)
	s.Golfers = res.Pool
	for _, d := range res.Departures {
		if d.Tips > 0 {
			s.Economy = economy.AddIncome(s.Economy, d.Tips, economy.CategoryTips, "Tip from "+string(d.Golfer.Type)+" golfer", s.stamp())
			s.DailyStats.Revenue.Tips += d.Tips
			p.Revenue += d.Tips
		}
		s.DailyStats.GolfersServed++
		s.DailyStats.TotalSatisfaction += d.Satisfaction
		s.Prestige = prestige.RecordVisit(s.Prestige, d.Satisfaction)
		p.Rounds++
	}
}

func tickEmployees(s *State, c Collaborators, hour int, minutes float64) {
	onDuty := hour >= ShiftStart && hour < ShiftEnd
	bonus := research.EfficiencyBonus(s.Research)

	roster, promos := employees.Tick(s.Roster, employees.TickInput{Minutes: minutes, OnDuty: onDuty, TrainingBonus: bonus})
	s.Roster = roster
	for _, p := range promos {
		c.notify(fmt.Sprintf("%s promoted to %s", p.Name, p.Level), ColorSuccess)
	}

	apps := employees.TickApplications(s.Applications, s.Now(), s.applicantSpawner(), s.Rand)
	s.Applications = apps.State
	for _, a := range apps.NewApplicants {
		c.notify(fmt.Sprintf("New %s applicant: %s (%s, asking %s/hr)", a.Role, a.Name, a.Skill, economy.FormatMoney(a.AskingWage)), ColorInfo)
	}
	for _, p := range apps.ExpiredPostings {
		c.notify(fmt.Sprintf("Job posting for %s expired", p.Role), ColorInfo)
	}

	work := employees.TickWork(s.Work, s.Roster, c.Terrain, employees.WorkInput{Minutes: minutes, OnDuty: onDuty, EfficiencyBonus: bonus})
	s.Work = work.State
	for _, e := range work.Effects {
		if c.Terrain.ApplyWorkEffect(e) {
			s.countMaintenance(e.Job)
		}
	}
	for _, t := range work.Completed {
		reward := employees.TaskRewards[t.Task]
		if reward.Experience > 0 {
			if next := employees.AwardExperience(s.Roster, t.EmployeeID, reward.Experience); next != nil {
				s.Roster = next
			}
		}
		if reward.SupplyCost > 0 {
			s.charge(reward.SupplyCost, economy.CategorySupplies, "Supplies: "+string(t.Task))
			s.DailyStats.Expenses.Supplies += reward.SupplyCost
		}
	}
	if c.Workers != nil {
		c.Workers.Update(s.Work)
	}
}

// charge records a forced expense.
func (s *State) charge(amount float64, cat economy.Category, desc string) {
	if next := economy.AddExpense(s.Economy, amount, cat, desc, s.stamp(), true); next != nil {
		s.Economy = next
	}
}

func (s *State) countMaintenance(job terrain.JobType) {
	switch job {
	case terrain.JobMow:
		s.DailyStats.Maintenance.Mowed++
	case terrain.JobWater:
		s.DailyStats.Maintenance.Watered++
	case terrain.JobFertilize:
		s.DailyStats.Maintenance.Fertilized++
	case terrain.JobRake:
		s.DailyStats.Maintenance.Raked++
	}
}

func tickResearch(s *State, c Collaborators, minutes float64) {
	if s.Research.Active == "" {
		return
	}
	s.ResearchAccumulator += minutes
	if s.ResearchAccumulator < 1 {
		return
	}
	if cost := research.FundingCostPerMinute(s.Research) * s.ResearchAccumulator; cost > 0 {
		next := economy.AddExpense(s.Economy, cost, economy.CategoryResearch, "Research funding", s.stamp(), false)
		if next == nil {
			// Stalled until cash recovers; keep at most a minute banked.
			s.ResearchAccumulator = 1
			return
		}
		s.Economy = next
		s.DailyStats.Expenses.Research += cost
	}
	res := research.Tick(s.Research, s.ResearchAccumulator)
	s.Research = res.State
	s.ResearchAccumulator = 0
	if it, ok := res.Completed.Get(); ok {
		slog.Info("research complete", "item", it.ID)
		c.notify(fmt.Sprintf("Research complete: %s. Unlocked %s", it.Name, it.Unlocks), ColorSuccess)
	}
}

// canTraverse is where each kind of robot may work.
func canTraverse(k robots.Kind, t terrain.Type) bool {
	if t == terrain.TypeGreen {
		return true
	}
	spec, ok := robots.Catalog[k]
	if !ok {
		return false
	}
	switch t {
	case terrain.TypeRough:
		return true
	case terrain.TypeBunker:
		return spec.Effect == robots.EffectRaker
	case terrain.TypeWater:
		return false
	}
	if robots.IsDedicatedMower(k) {
		return t == spec.HomeTerrain
	}
	return true
}

var mowable = map[terrain.Type]bool{
	terrain.TypeFairway: true,
	terrain.TypeRough:   true,
	terrain.TypeGreen:   true,
	terrain.TypeTee:     true,
}

func tickFleet(s *State, c Collaborators, minutes float64) {
	if len(s.Fleet.Robots) == 0 {
		return
	}
	w, h := c.Terrain.Bounds()
	s.Fleet = robots.ClampStation(s.Fleet, w, h)
	candidates := c.Terrain.FindWorkCandidates(w/2, h/2, max(w, h))

	res := robots.Tick(s.Fleet, robots.TickInput{
		Candidates:  candidates,
		CanTraverse: canTraverse,
		Minutes:     minutes,
		FleetAI:     research.HasFleetAI(s.Research),
	})
	s.Fleet = res.Fleet
	if res.OperatingCost > 0 {
		s.charge(res.OperatingCost, economy.CategoryEquipment, "Robot operation")
		s.DailyStats.Expenses.Equipment += res.OperatingCost
	}
	for _, e := range res.Effects {
		applyRobotEffect(s, c, e)
	}
}

func applyRobotEffect(s *State, c Collaborators, e robots.Effect) {
	switch e.Type {
	case robots.EffectMower:
		if !mowable[c.Terrain.TypeAt(e.X, e.Y).OrElse(terrain.TypeWater)] {
			return
		}
		if c.Terrain.ApplyWorkEffect(terrain.WorkEffect{X: e.X, Y: e.Y, Job: terrain.JobMow, Efficiency: e.Efficiency}) {
			s.DailyStats.Maintenance.Mowed++
		}
	case robots.EffectRaker:
		if t, ok := c.Terrain.TypeAt(e.X, e.Y).Get(); !ok || t != terrain.TypeBunker {
			return
		}
		if c.Terrain.ApplyWorkEffect(terrain.WorkEffect{X: e.X, Y: e.Y, Job: terrain.JobRake, Efficiency: e.Efficiency}) {
			s.DailyStats.Maintenance.Raked++
		}
	case robots.EffectSprayer:
		s.DailyStats.Maintenance.Watered += c.Terrain.WaterArea(e.X, e.Y, e.Radius, e.Amount*e.Efficiency)
	case robots.EffectSpreader:
		amount := e.Amount * e.Efficiency * research.FertilizerEffectiveness(s.Research)
		s.DailyStats.Maintenance.Fertilized += c.Terrain.FertilizeArea(e.X, e.Y, e.Radius, amount)
	}
}

func tickIrrigation(s *State, c Collaborators, minutes float64) {
	var current opt.Option[weather.Conditions]
	if s.Weather != nil {
		current = opt.Some(s.Weather.Current)
	}
	res := irrigation.Tick(s.Irrigation, irrigation.TickInput{
		GameTime:      s.GameTime,
		Minutes:       minutes,
		Precipitating: s.Weather != nil && weather.IsPrecipitating(s.Weather.Current.Type),
		Weather:       irrigation.WeatherEffectFrom(current),
		Rand:          s.Rand,
	})
	s.Irrigation = res.System
	for _, w := range res.Water {
		c.Terrain.WaterFace(w.X, w.Y, w.Amount)
	}
	for _, p := range res.NewLeaks {
		c.notify(fmt.Sprintf("Pipe leak at (%d, %d)", p.X, p.Y), ColorWarning)
	}
	if res.Bill.Cost > 0 {
		s.charge(res.Bill.Cost, economy.CategoryUtilities, "Irrigation water")
		s.DailyStats.Expenses.Utilities += res.Bill.Cost
	}
	if res.Changed {
		slog.Debug("irrigation changed", "on", len(res.Activated), "off", len(res.Stopped), "leaks", len(res.NewLeaks))
	}
}
