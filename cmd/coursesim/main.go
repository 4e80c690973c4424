// Command coursesim runs a headless golf course simulation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/talgya/greenkeeper/internal/config"
	"github.com/talgya/greenkeeper/internal/economy"
	"github.com/talgya/greenkeeper/internal/employees"
	"github.com/talgya/greenkeeper/internal/engine"
	"github.com/talgya/greenkeeper/internal/irrigation"
	"github.com/talgya/greenkeeper/internal/persistence"
	"github.com/talgya/greenkeeper/internal/robots"
	"github.com/talgya/greenkeeper/internal/terrain"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if isatty.IsTerminal(os.Stdout.Fd()) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	// ── Database ──────────────────────────────────────────────────────
	var db *persistence.DB
	if cfg.SaveEnabled {
		db, err = persistence.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database opened", "path", cfg.DBPath)
	}

	// ── Course ────────────────────────────────────────────────────────
	gen := terrain.DefaultGenConfig()
	gen.Seed = cfg.Seed
	gen.Width = cfg.CourseWidth
	gen.Height = cfg.CourseHeight
	course := terrain.Generate(gen)
	stats := course.CourseStats()
	slog.Info("course generated",
		"width", gen.Width,
		"height", gen.Height,
		"holes", gen.Holes,
		"health", fmt.Sprintf("%.1f", stats.AverageHealth),
	)

	o := engine.DefaultOptions()
	o.Seed = cfg.Seed
	o.StartingCash = cfg.StartingCash
	o.TimeScale = cfg.TimeScale
	o.GreenFee = cfg.GreenFee
	o.BaseHourlyArrivals = cfg.BaseHourlyArrivals
	o.BaseX, o.BaseY = gen.Width/2, gen.Height/2
	s := engine.NewState(o)
	starterCourse(s, o.BaseX, o.BaseY, gen.Width)

	// ── Engine ────────────────────────────────────────────────────────
	events := engine.NewEventQueue()
	defer events.Close()

	save := func() {
		if db == nil {
			return
		}
		if err := db.SaveSession(s); err != nil {
			slog.Error("save failed", "error", err)
		}
	}
	c := engine.Collaborators{
		Terrain: course,
		Notify: func(n engine.Notification) {
			level := slog.LevelInfo
			switch n.Color {
			case engine.ColorWarning:
				level = slog.LevelWarn
			case engine.ColorError:
				level = slog.LevelError
			}
			slog.Log(context.Background(), level, n.Message, "time", engine.SimTime(s.GameDay, s.GameTime))
		},
		Save: save,
		ShowDaySummary: func(d engine.DailyStats) {
			if db == nil {
				return
			}
			if err := db.SaveDaySummary(d); err != nil {
				slog.Error("day summary save failed", "day", d.Day, "error", err)
			}
		},
		Events: events,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng := engine.NewEngine()
	eng.Interval = cfg.FrameInterval
	eng.OnFrame = func(deltaMs float64) {
		events.Advance(deltaMs)
		engine.RunTick(s, c, deltaMs)
		if cfg.StopAfterDays > 0 && s.GameDay > cfg.StopAfterDays {
			eng.Stop()
		}
	}

	slog.Info("starting simulation",
		"time", engine.SimTime(s.GameDay, s.GameTime),
		"cash", economy.FormatMoney(s.Economy.Cash),
		"time_scale", s.TimeScale,
		"stop_after_days", cfg.StopAfterDays,
	)
	eng.Run(ctx)

	slog.Info("final save...")
	save()
	slog.Info("simulation stopped",
		"time", engine.SimTime(s.GameDay, s.GameTime),
		"cash", economy.FormatMoney(s.Economy.Cash),
	)
}

// starterCourse lays a municipal tap with a pipe running east and west of
// the shed, sprinklers every eight tiles, two groundskeepers and a mower.
func starterCourse(s *engine.State, baseX, baseY, width int) {
	irr := irrigation.AddWaterSource(s.Irrigation, "main", baseX, baseY, irrigation.SourceMunicipal)
	span := width / 3
	for x := baseX - span; x <= baseX+span; x++ {
		if next := irrigation.AddPipe(irr, x, baseY, irrigation.PipePVC); next != nil {
			irr = next
		}
	}
	for i, x := 0, baseX-span; x <= baseX+span; i, x = i+1, x+8 {
		if next := irrigation.AddSprinklerHead(irr, fmt.Sprintf("s%d", i+1), x, baseY+1, irrigation.SprinklerRotary); next != nil {
			irr = next
		}
	}
	s.Irrigation = irrigation.RecalculatePressure(irr)

	sp := employees.NewSpawner(s.Rand)
	for range 2 {
		if r := employees.Hire(s.Roster, sp.Spawn(employees.RoleGroundskeeper, s.Now()), s.GameDay); r != nil {
			s.Roster = r
		}
	}
	s.Fleet = robots.Add(s.Fleet, robots.KindGenericMower)
}
