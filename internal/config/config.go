package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Simulation holds all configuration for the zonesim binary.
type Simulation struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// ZonesPath points to the YAML document with entities, zones and watches.
	ZonesPath string `yaml:"zones_path"`

	// Database journals watch transitions when enabled.
	Database DatabaseConfig `yaml:"database"`

	Watch     WatchConfig     `yaml:"watch"`
	Grid      GridConfig      `yaml:"grid"`
	Tick      TickConfig      `yaml:"tick"`
	DebugDraw DebugDrawConfig `yaml:"debug_draw"`

	// Duration stops the simulation after the given time. Zero runs until a signal.
	Duration time.Duration `yaml:"duration"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// WatchConfig controls enter/exit polling.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval"` // delay between polls (default: 500ms)
}

// GridConfig holds defaults for polygon zone grids. Zone documents may override them per zone.
type GridConfig struct {
	Divisions int  `yaml:"divisions"`
	Eager     bool `yaml:"eager"`
	// MaxConcurrentBuilds bounds eager grid builds running at the same time.
	MaxConcurrentBuilds int `yaml:"max_concurrent_builds"`
}

// TickConfig controls entity movement.
type TickConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// DebugDrawConfig controls debug rendering into the log.
type DebugDrawConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
	// Viewer anchors unbounded zone heights.
	Viewer [3]float64 `yaml:"viewer"`
}

// DefaultSimulation returns Simulation config with sensible defaults.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel:  "info",
		ZonesPath: "config/zones.yaml",
		Database: DatabaseConfig{
			Enabled:  false,
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "polyzone",
			Password: "polyzone",
			DBName:   "polyzone",
			SSLMode:  "disable",
		},
		Watch: WatchConfig{
			Interval: 500 * time.Millisecond,
		},
		Grid: GridConfig{
			Divisions:           30,
			Eager:               false,
			MaxConcurrentBuilds: 4,
		},
		Tick: TickConfig{
			Interval: 100 * time.Millisecond,
		},
		DebugDraw: DebugDrawConfig{
			Enabled:  false,
			Interval: time.Second,
		},
	}
}

// LoadSimulation loads simulation config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that would make the simulation misbehave.
func (c Simulation) Validate() error {
	if c.Watch.Interval < 0 {
		return fmt.Errorf("watch.interval %v: must not be negative", c.Watch.Interval)
	}
	if c.Tick.Interval <= 0 {
		return fmt.Errorf("tick.interval %v: must be positive", c.Tick.Interval)
	}
	if c.Grid.Divisions < 0 {
		return fmt.Errorf("grid.divisions %d: must not be negative", c.Grid.Divisions)
	}
	if c.Grid.MaxConcurrentBuilds < 1 {
		return fmt.Errorf("grid.max_concurrent_builds %d: must be at least 1", c.Grid.MaxConcurrentBuilds)
	}
	if c.DebugDraw.Enabled && c.DebugDraw.Interval <= 0 {
		return fmt.Errorf("debug_draw.interval %v: must be positive", c.DebugDraw.Interval)
	}
	return nil
}
