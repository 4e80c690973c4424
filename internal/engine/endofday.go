// End-of-day settlement, run once from the tee-time gate at DayEndHour.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/greenkeeper/internal/economy"
	"github.com/talgya/greenkeeper/internal/golfers"
	"github.com/talgya/greenkeeper/internal/irrigation"
	"github.com/talgya/greenkeeper/internal/marketing"
	"github.com/talgya/greenkeeper/internal/prestige"
	"github.com/talgya/greenkeeper/internal/robots"
	"github.com/talgya/greenkeeper/internal/scenario"
)

// EndOfDay closes the books: tee-sheet revenue, campaigns, utilities,
// prestige snapshot, loan installments and the scenario verdict, then hands
// the day's stats to the presenter, saves and resets every daily counter.
func EndOfDay(s *State, c Collaborators) {
	sheet, rev := golfers.FinalizeDailyRevenue(s.TeeSheet)
	s.TeeSheet = sheet
	if rev.Total > 0 {
		s.Economy = economy.AddIncome(s.Economy, rev.Total, economy.CategoryOther, "Tee time fees", s.stamp())
		s.DailyStats.Revenue.Other += rev.Total
	}

	mk := marketing.ProcessDaily(s.Marketing)
	s.Marketing = mk.State
	for _, done := range mk.Completed {
		c.notify(fmt.Sprintf("%s campaign finished (%s spent)",
			marketing.Catalog[done.Type].Name, economy.FormatMoney(done.TotalCost)), ColorInfo)
	}
	if mk.Cost > 0 {
		s.charge(mk.Cost, economy.CategoryMarketing, "Marketing campaigns")
		s.DailyStats.Expenses.Marketing += mk.Cost
	}

	s.charge(DailyUtilitiesCost, economy.CategoryUtilities, "Daily utilities")
	s.DailyStats.Expenses.Utilities += DailyUtilitiesCost

	var snap prestige.Snapshot
	s.Prestige, snap = prestige.TakeDailySnapshot(s.Prestige, s.GameDay)

	s.Irrigation = irrigation.ResetDailyUsage(s.Irrigation)
	if s.GameDay%LoanPaymentInterval == 0 && len(s.Economy.Loans) > 0 {
		next, missed := economy.PayDueLoans(s.Economy, s.stamp())
		s.Economy = next
		for _, id := range missed {
			slog.Warn("loan payment missed", "loan", id, "cash", s.Economy.Cash)
			c.notify("Loan payment missed: not enough cash", ColorError)
		}
	}

	if s.Scenario != nil {
		before := scenario.StatusOf(s.Scenario)
		s.Scenario = scenario.Evaluate(s.Scenario, s.GameDay)
		if after := scenario.StatusOf(s.Scenario); after != before {
			slog.Info("scenario settled", "name", s.Scenario.Name, "outcome", after)
			if after == scenario.Won {
				c.notify(fmt.Sprintf("Scenario complete: %s", s.Scenario.Name), ColorSuccess)
			} else {
				c.notify(fmt.Sprintf("Scenario failed: %s", s.Scenario.Name), ColorError)
			}
		}
	}

	s.DailyStats.Day = s.GameDay
	slog.Info("daily report",
		"time", SimTime(s.GameDay, s.GameTime),
		"revenue", economy.FormatMoney(s.DailyStats.Revenue.Total()),
		"expenses", economy.FormatMoney(s.DailyStats.Expenses.Total()),
		"net", economy.FormatMoney(s.DailyStats.Net()),
		"cash", economy.FormatMoney(s.Economy.Cash),
		"net_worth", economy.FormatMoney(economy.NetWorth(s.Economy)),
		"golfers_served", s.DailyStats.GolfersServed,
		"avg_satisfaction", fmt.Sprintf("%.1f", s.DailyStats.AverageSatisfaction()),
		"rejected", s.Golfers.GolfersRejectedToday,
		"prestige", fmt.Sprintf("%.0f", snap.Score),
		"stars", snap.Stars,
		"robots", robots.Summary(s.Fleet),
	)
	if c.ShowDaySummary != nil {
		c.ShowDaySummary(s.DailyStats)
	}
	c.save()

	s.TeeSheet = golfers.ResetWalkOnMetrics(s.TeeSheet)
	s.TeeSheet = golfers.ResetTeeTimeMetrics(s.TeeSheet)
	s.Prestige = prestige.ResetDailyMetrics(s.Prestige)
	s.Golfers = golfers.ResetDailyMetrics(s.Golfers)
	s.Marketing = marketing.ResetDailyMetrics(s.Marketing)
	s.DailyStats = DailyStats{Day: s.GameDay + 1}
	s.RejectionWarned = false
}
