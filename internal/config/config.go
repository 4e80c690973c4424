// Package config loads host settings from an optional YAML file, then from
// GREENKEEPER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "GREENKEEPER_"

type Config struct {
	Seed               int64         `yaml:"seed" env:"SEED"`
	TimeScale          float64       `yaml:"time_scale" env:"TIME_SCALE"`
	FrameInterval      time.Duration `yaml:"frame_interval" env:"FRAME_INTERVAL"`
	StopAfterDays      int           `yaml:"stop_after_days" env:"STOP_AFTER_DAYS"`
	StartingCash       float64       `yaml:"starting_cash" env:"STARTING_CASH"`
	CourseWidth        int           `yaml:"course_width" env:"COURSE_WIDTH"`
	CourseHeight       int           `yaml:"course_height" env:"COURSE_HEIGHT"`
	GreenFee           float64       `yaml:"green_fee" env:"GREEN_FEE"`
	BaseHourlyArrivals float64       `yaml:"base_hourly_arrivals" env:"BASE_HOURLY_ARRIVALS"`
	DBPath             string        `yaml:"db_path" env:"DB_PATH"`
	SaveEnabled        bool          `yaml:"save_enabled" env:"SAVE_ENABLED"`
	LogLevel           string        `yaml:"log_level" env:"LOG_LEVEL"`
}

// Default is a one-minute-per-second sandbox that saves to greenkeeper.db.
func Default() Config {
	return Config{
		Seed:               42,
		TimeScale:          60,
		FrameInterval:      100 * time.Millisecond,
		StartingCash:       50000,
		CourseWidth:        64,
		CourseHeight:       40,
		GreenFee:           45,
		BaseHourlyArrivals: 6,
		DBPath:             "greenkeeper.db",
		SaveEnabled:        true,
		LogLevel:           "info",
	}
}

// Load applies defaults, then the YAML file at path (skipped when path is
// empty), then the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the host cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.TimeScale <= 0 {
		errs = append(errs, errors.New("time_scale must be positive"))
	}
	if c.FrameInterval <= 0 {
		errs = append(errs, errors.New("frame_interval must be positive"))
	}
	if c.CourseWidth < 8 || c.CourseHeight < 8 {
		errs = append(errs, fmt.Errorf("course must be at least 8x8, got %dx%d", c.CourseWidth, c.CourseHeight))
	}
	if c.StopAfterDays < 0 {
		errs = append(errs, errors.New("stop_after_days must not be negative"))
	}
	if c.SaveEnabled && c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required when saving"))
	}
	return errors.Join(errs...)
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
