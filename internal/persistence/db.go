// Package persistence provides SQLite-based session storage: subsystem state
// as JSON slots, the transaction ledger and daily summaries.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ncruces/go-strftime"
	_ "modernc.org/sqlite"

	"github.com/talgya/greenkeeper/internal/economy"
	"github.com/talgya/greenkeeper/internal/engine"
)

const stampLayout = "%Y-%m-%d %H:%M:%S"

// DB wraps a SQLite connection for session persistence.
type DB struct {
	conn *sqlx.DB
	now  func() time.Time

	stored int // ledger rows of the running session already written
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn, now: time.Now}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session_slots (
		slot TEXT PRIMARY KEY,
		body TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		amount REAL NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL,
		timestamp INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS day_summaries (
		day INTEGER PRIMARY KEY,
		revenue REAL NOT NULL,
		expenses REAL NOT NULL,
		net REAL NOT NULL,
		golfers_served INTEGER NOT NULL,
		avg_satisfaction REAL NOT NULL,
		stats_json TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS session_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_timestamp ON transactions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type clock struct {
	GameTime  float64           `json:"game_time"`
	GameDay   int               `json:"game_day"`
	TimeScale float64           `json:"time_scale"`
	Gates     map[string]int    `json:"gates"`
	Pricing   engine.Pricing    `json:"pricing"`
	Daily     engine.DailyStats `json:"daily_stats"`
}

// ledger is the economy slot without its transactions, which live in their
// own table.
type ledger struct {
	Cash        float64        `json:"cash"`
	Loans       []economy.Loan `json:"loans"`
	TotalEarned float64        `json:"total_earned"`
	TotalSpent  float64        `json:"total_spent"`
}

func slotsOf(s *engine.State) map[string]any {
	slots := map[string]any{
		"clock": clock{
			GameTime:  s.GameTime,
			GameDay:   s.GameDay,
			TimeScale: s.TimeScale,
			Gates: map[string]int{
				"payroll":  int(s.LastPayrollHour),
				"arrival":  int(s.LastArrivalHour),
				"autosave": int(s.LastAutoSaveHour),
				"prestige": int(s.LastPrestigeUpdateHour),
				"teetime":  int(s.LastTeeTimeUpdateHour),
			},
			Pricing: s.Pricing,
			Daily:   s.DailyStats,
		},
		"economy": ledger{
			Cash:        s.Economy.Cash,
			Loans:       s.Economy.Loans,
			TotalEarned: s.Economy.TotalEarned,
			TotalSpent:  s.Economy.TotalSpent,
		},
		"weather":      s.Weather,
		"irrigation":   s.Irrigation,
		"roster":       s.Roster,
		"applications": s.Applications,
		"work":         s.Work,
		"fleet":        s.Fleet,
		"golfers":      s.Golfers,
		"tee_sheet":    s.TeeSheet,
		"prestige":     s.Prestige,
		"research":     s.Research,
		"marketing":    s.Marketing,
	}
	if s.Scenario != nil {
		slots["scenario"] = s.Scenario
	}
	return slots
}

// SaveSession writes every subsystem slot and the ledger rows added since the
// last save. A ledger shorter than what was stored means a different session,
// so its rows are written from the start.
func (db *DB) SaveSession(s *engine.State) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for name, v := range slotsOf(s) {
		body, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT OR REPLACE INTO session_slots (slot, body) VALUES (?, ?)", name, string(body)); err != nil {
			return fmt.Errorf("save slot %s: %w", name, err)
		}
	}

	txs := s.Economy.Transactions
	from := db.stored
	if from > len(txs) {
		from = 0
	}
	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO transactions
		(id, amount, category, description, timestamp) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, t := range txs[from:] {
		if _, err := stmt.Exec(t.ID, t.Amount, string(t.Category), t.Description, t.Timestamp); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	meta := map[string]string{
		"game_day":   strconv.Itoa(s.GameDay),
		"game_time":  engine.SimTime(s.GameDay, s.GameTime),
		"last_saved": strftime.Format(stampLayout, db.now()),
	}
	for k, v := range meta {
		if _, err := tx.Exec("INSERT OR REPLACE INTO session_meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	db.stored = len(txs)
	slog.Debug("session saved", "time", meta["game_time"], "new_transactions", len(txs)-from)
	return nil
}

// Slot returns the raw JSON stored for a subsystem slot.
func (db *DB) Slot(name string) (json.RawMessage, error) {
	var body string
	if err := db.conn.Get(&body, "SELECT body FROM session_slots WHERE slot = ?", name); err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// DaySummary is one stored end-of-day report.
type DaySummary struct {
	Day             int     `db:"day" json:"day"`
	Revenue         float64 `db:"revenue" json:"revenue"`
	Expenses        float64 `db:"expenses" json:"expenses"`
	Net             float64 `db:"net" json:"net"`
	GolfersServed   int     `db:"golfers_served" json:"golfers_served"`
	AvgSatisfaction float64 `db:"avg_satisfaction" json:"avg_satisfaction"`
	SavedAt         string  `db:"saved_at" json:"saved_at"`
}

// SaveDaySummary stores the stats handed to the day-summary presenter.
func (db *DB) SaveDaySummary(d engine.DailyStats) error {
	statsJSON, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode day %d: %w", d.Day, err)
	}
	_, err = db.conn.Exec(`INSERT OR REPLACE INTO day_summaries
		(day, revenue, expenses, net, golfers_served, avg_satisfaction, stats_json, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Day, d.Revenue.Total(), d.Expenses.Total(), d.Net(),
		d.GolfersServed, d.AverageSatisfaction(), string(statsJSON),
		strftime.Format(stampLayout, db.now()),
	)
	if err != nil {
		return fmt.Errorf("insert day %d: %w", d.Day, err)
	}
	return nil
}

// RecentDaySummaries returns the most recent N days, newest first.
func (db *DB) RecentDaySummaries(limit int) ([]DaySummary, error) {
	var days []DaySummary
	err := db.conn.Select(&days,
		`SELECT day, revenue, expenses, net, golfers_served, avg_satisfaction, saved_at
		 FROM day_summaries ORDER BY day DESC LIMIT ?`,
		limit,
	)
	return days, err
}

// TransactionCount is the number of ledger rows stored.
func (db *DB) TransactionCount() (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM transactions")
	return n, err
}

// SaveMeta stores a key-value pair in session metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO session_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM session_meta WHERE key = ?", key)
	return value, err
}
