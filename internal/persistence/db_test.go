package persistence

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/greenkeeper/internal/economy"
	"github.com/talgya/greenkeeper/internal/engine"
	"github.com/talgya/greenkeeper/internal/irrigation"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "course.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.now = func() time.Time { return time.Date(2026, 4, 12, 7, 30, 0, 0, time.UTC) }
	return db
}

func TestSaveSession_SlotsLedgerAndMeta(t *testing.T) {
	db := openTemp(t)
	s := engine.NewState(engine.DefaultOptions())
	s.Economy = economy.AddIncome(s.Economy, 120, economy.CategoryGreenFees, "Green fees (3 golfers)", 360)
	s.Irrigation = irrigation.AddPipe(s.Irrigation, 2, 3, irrigation.PipePVC)

	require.NoError(t, db.SaveSession(s))
	require.NoError(t, db.SaveSession(s), "saving twice keeps ledger rows unique")

	n, err := db.TransactionCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	raw, err := db.Slot("economy")
	require.NoError(t, err)
	var l ledger
	require.NoError(t, json.Unmarshal(raw, &l))
	assert.Equal(t, 50120.0, l.Cash)

	raw, err = db.Slot("irrigation")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"pipes":[{"pos":{"x":2,"y":3}`)

	saved, err := db.GetMeta("last_saved")
	require.NoError(t, err)
	assert.Equal(t, "2026-04-12 07:30:00", saved)
	day, err := db.GetMeta("game_time")
	require.NoError(t, err)
	assert.Equal(t, "Day 1, 6:00", day)

	_, err = db.Slot("scenario")
	assert.Error(t, err, "no scenario slot without a scenario")
}

func TestSaveSession_WritesOnlyNewLedgerRows(t *testing.T) {
	db := openTemp(t)
	s := engine.NewState(engine.DefaultOptions())
	s.Economy = economy.AddIncome(s.Economy, 40, economy.CategoryGreenFees, "Green fees (1 golfers)", 400)
	require.NoError(t, db.SaveSession(s))

	_, err := db.conn.Exec("DELETE FROM transactions")
	require.NoError(t, err)
	s.Economy = economy.AddIncome(s.Economy, 6, economy.CategoryTips, "Tip", 420)
	require.NoError(t, db.SaveSession(s))

	var ids []string
	require.NoError(t, db.conn.Select(&ids, "SELECT id FROM transactions"))
	require.Len(t, ids, 1, "earlier rows are not rewritten")
	assert.Equal(t, s.Economy.Transactions[1].ID, ids[0])

	fresh := engine.NewState(engine.DefaultOptions())
	fresh.Economy = economy.AddIncome(fresh.Economy, 45, economy.CategoryGreenFees, "Green fees (1 golfers)", 360)
	require.NoError(t, db.SaveSession(fresh))
	n, err := db.TransactionCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n, "a shorter ledger is written from the start")
}

func TestDaySummaries_NewestFirst(t *testing.T) {
	db := openTemp(t)
	for day := 1; day <= 3; day++ {
		d := engine.DailyStats{Day: day, GolfersServed: 10 * day, TotalSatisfaction: 700 * float64(day)}
		d.Revenue.GreenFees = 400
		d.Expenses.Wages = 150
		require.NoError(t, db.SaveDaySummary(d))
	}

	days, err := db.RecentDaySummaries(2)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 3, days[0].Day)
	assert.Equal(t, 250.0, days[0].Net)
	assert.Equal(t, 70.0, days[0].AvgSatisfaction)
	assert.Equal(t, "2026-04-12 07:30:00", days[0].SavedAt)
}

func TestMeta_RoundTrip(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, db.SaveMeta("course_name", "Pine Hollow"))
	v, err := db.GetMeta("course_name")
	require.NoError(t, err)
	assert.Equal(t, "Pine Hollow", v)

	_, err = db.GetMeta("missing")
	assert.Error(t, err)
}
