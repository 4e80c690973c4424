package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/greenkeeper/internal/economy"
	"github.com/talgya/greenkeeper/internal/employees"
	"github.com/talgya/greenkeeper/internal/irrigation"
	"github.com/talgya/greenkeeper/internal/research"
	"github.com/talgya/greenkeeper/internal/robots"
)

func leakyState(t *testing.T) *State {
	t.Helper()
	s := quietState(600)
	irr := irrigation.AddWaterSource(s.Irrigation, "main", 0, 0, irrigation.SourceMunicipal)
	irr = irrigation.AddPipe(irr, 1, 0, irrigation.PipePVC)
	irr = irrigation.AddPipe(irr, 2, 0, irrigation.PipePVC)
	require.NotNil(t, irr)
	irr.Pipes[irrigation.Coord{X: 1, Y: 0}].IsLeaking = true
	irr.Pipes[irrigation.Coord{X: 1, Y: 0}].Durability = 12
	s.Irrigation = irrigation.RecalculatePressure(irr)
	return s
}

func TestRepairPipe(t *testing.T) {
	h := newHarness()
	s := leakyState(t)
	require.LessOrEqual(t, s.Irrigation.Pipes[irrigation.Coord{X: 2, Y: 0}].PressureLevel, irrigation.LeakPressureCeiling)
	cash := s.Economy.Cash

	assert.False(t, RepairPipe(s, h.collaborators(), 2, 0), "not leaking")
	assert.True(t, RepairPipe(s, h.collaborators(), 1, 0))

	p := s.Irrigation.Pipes[irrigation.Coord{X: 1, Y: 0}]
	assert.False(t, p.IsLeaking)
	assert.Equal(t, 100.0, p.Durability)
	assert.Greater(t, s.Irrigation.Pipes[irrigation.Coord{X: 2, Y: 0}].PressureLevel, irrigation.LeakPressureCeiling)
	assert.Equal(t, cash-irrigation.RepairCost, s.Economy.Cash)
	assert.Equal(t, irrigation.RepairCost, s.DailyStats.Expenses.Maintenance)
}

func TestRepairPipe_Unaffordable(t *testing.T) {
	h := newHarness()
	s := leakyState(t)
	s.Economy = economy.NewState(economy.OverdraftLimit + 10)

	assert.False(t, RepairPipe(s, h.collaborators(), 1, 0))
	assert.True(t, s.Irrigation.Pipes[irrigation.Coord{X: 1, Y: 0}].IsLeaking)
	assert.Empty(t, s.Economy.Transactions)
	require.Len(t, h.notifications, 1)
	assert.Equal(t, ColorError, h.notifications[0].Color)
}

func TestTakeLoan(t *testing.T) {
	h := newHarness()
	s := quietState(600)
	assert.False(t, TakeLoan(s, h.collaborators(), 0, 0.05, 12))
	assert.True(t, TakeLoan(s, h.collaborators(), 10000, 0.05, 12))
	assert.Equal(t, 60000.0, s.Economy.Cash)
	assert.Len(t, s.Economy.Loans, 1)
}

func TestHireApplicant(t *testing.T) {
	h := newHarness()
	s := quietState(600)
	require.True(t, PostJob(s, employees.RoleGroundskeeper))
	assert.Equal(t, 50000-employees.PostingCost, s.Economy.Cash)

	s.Applications.Applicants = append(s.Applications.Applicants, employees.Applicant{
		ID: "ap-1", Name: "Jo Park", Role: employees.RoleGroundskeeper, AskingWage: 12, ExpiresAt: 99999,
	})
	assert.False(t, HireApplicant(s, h.collaborators(), "ap-404"))
	assert.True(t, HireApplicant(s, h.collaborators(), "ap-1"))
	assert.Equal(t, 1, s.Roster.Len())
	assert.Empty(t, s.Applications.Applicants)
}

func TestStartResearchAndBuyRobot(t *testing.T) {
	h := newHarness()
	s := quietState(600)
	assert.False(t, StartResearch(s, h.collaborators(), research.AdvancedTraining))
	assert.True(t, StartResearch(s, h.collaborators(), research.BasicTraining))
	assert.False(t, StartResearch(s, h.collaborators(), research.SlowRelease), "one project at a time")

	assert.True(t, BuyRobot(s, h.collaborators(), robots.KindSprayer))
	assert.Len(t, s.Fleet.Robots, 1)
	s.Economy = economy.NewState(0)
	assert.False(t, BuyRobot(s, h.collaborators(), robots.KindGenericMower))
	assert.Len(t, s.Fleet.Robots, 1)
}

func TestSetSprinklerSchedule(t *testing.T) {
	h := newHarness()
	s := quietState(600)
	assert.True(t, PlaceSprinkler(s, h.collaborators(), "s1", 3, 3, irrigation.SprinklerFixed))
	assert.False(t, PlaceSprinkler(s, h.collaborators(), "s1", 4, 4, irrigation.SprinklerFixed), "duplicate id")

	sch := irrigation.Schedule{Enabled: true, TimeRanges: []irrigation.TimeRange{{Start: 1200, End: 1260}}}
	assert.True(t, SetSprinklerSchedule(s, h.collaborators(), "s1", sch))
	assert.Equal(t, sch, s.Irrigation.Heads["s1"].Schedule)
	assert.False(t, SetSprinklerSchedule(s, h.collaborators(), "s9", sch))
}

func TestSellRobot(t *testing.T) {
	h := newHarness()
	s := quietState(600)
	require.True(t, BuyRobot(s, h.collaborators(), robots.KindSprayer))
	id := s.Fleet.Robots[0].ID
	cash := s.Economy.Cash

	assert.False(t, SellRobot(s, h.collaborators(), "r-404"))
	assert.True(t, SellRobot(s, h.collaborators(), id))
	assert.Empty(t, s.Fleet.Robots)
	value := robots.Catalog[robots.KindSprayer].Price * ResaleShare
	assert.Equal(t, cash+value, s.Economy.Cash)
	assert.Equal(t, value, s.DailyStats.Revenue.Other)
	assert.False(t, SellRobot(s, h.collaborators(), id), "already sold")
}

func TestRemoveSprinkler(t *testing.T) {
	h := newHarness()
	s := quietState(600)
	require.True(t, PlaceSprinkler(s, h.collaborators(), "s1", 3, 3, irrigation.SprinklerFixed))
	cash := s.Economy.Cash

	assert.True(t, RemoveSprinkler(s, h.collaborators(), "s1"))
	assert.Empty(t, s.Irrigation.Heads)
	assert.Equal(t, cash, s.Economy.Cash)
	assert.False(t, RemoveSprinkler(s, h.collaborators(), "s1"))
}
