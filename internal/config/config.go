package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"calselect/internal/eventbus"
	"calselect/internal/grid"
	"calselect/internal/selector"
)

// FileName is the config file name under the default config directory
const FileName = "config.toml"

// Config represents the application configuration
type Config struct {
	Version   int               `toml:"version"`
	Grid      GridSettings      `toml:"grid"`
	Selection SelectionSettings `toml:"selection"`
	Logging   LoggingSettings   `toml:"logging"`
	UI        UISettings        `toml:"ui"`
}

// GridSettings controls the visible week
type GridSettings struct {
	DayStart    string `toml:"day_start"` // "HH:MM"
	DayEnd      string `toml:"day_end"`   // "HH:MM", "24:00" allowed
	SlotMinutes int    `toml:"slot_minutes"`
	DisplayDays int    `toml:"display_days"`
	WeekStart   string `toml:"week_start"` // weekday name, e.g. "monday"
}

// SelectionSettings tunes the selector
type SelectionSettings struct {
	MaxIDRetries int `toml:"max_id_retries"`
}

// LoggingSettings controls the log file
type LoggingSettings struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowHelp  bool    `toml:"show_help"`
	HueOffset float64 `toml:"hue_offset"` // degrees added to every selection color
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
	Watch(ctx context.Context) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath is <user config dir>/calselect/config.toml
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "calselect", FileName)
}

// NewConfigService creates a config service reading path ("" means DefaultPath)
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults if it does not exist
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		cfg, err = cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path.
// Keys missing from the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Grid: GridSettings{
			DayStart:    "06:00",
			DayEnd:      "20:00",
			SlotMinutes: 30,
			DisplayDays: 7,
			WeekStart:   "monday",
		},
		Selection: SelectionSettings{
			MaxIDRetries: selector.DefaultMaxIDRetries,
		},
		Logging: LoggingSettings{
			Level: "INFO",
			File:  "calselect.log",
		},
		UI: UISettings{
			ShowHelp: true,
		},
	}
}

// Validate reports every problem with the config at once
func (c *Config) Validate() error {
	var errs []error
	if c.Version != 1 {
		errs = append(errs, fmt.Errorf("unsupported version %d", c.Version))
	}
	if _, err := c.Layout(); err != nil {
		errs = append(errs, err)
	}
	if c.Selection.MaxIDRetries < 1 {
		errs = append(errs, fmt.Errorf("selection.max_id_retries must be positive, got %d", c.Selection.MaxIDRetries))
	}
	switch strings.ToUpper(c.Logging.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.level %q", c.Logging.Level))
	}
	return errors.Join(errs...)
}

// Layout converts the grid settings into a grid.Layout
func (c *Config) Layout() (grid.Layout, error) {
	start, err := ParseClock(c.Grid.DayStart)
	if err != nil {
		return grid.Layout{}, fmt.Errorf("grid.day_start: %w", err)
	}
	end, err := ParseClock(c.Grid.DayEnd)
	if err != nil {
		return grid.Layout{}, fmt.Errorf("grid.day_end: %w", err)
	}
	ws, err := ParseWeekday(c.Grid.WeekStart)
	if err != nil {
		return grid.Layout{}, fmt.Errorf("grid.week_start: %w", err)
	}

	layout := grid.Layout{
		DayStart:  start,
		DayEnd:    end,
		Spacing:   time.Duration(c.Grid.SlotMinutes) * time.Minute,
		Days:      c.Grid.DisplayDays,
		WeekStart: ws,
	}
	if err := layout.Validate(); err != nil {
		return grid.Layout{}, fmt.Errorf("grid: %w", err)
	}
	return layout, nil
}

// ParseClock parses "HH:MM" into an offset from midnight
func ParseClock(s string) (time.Duration, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("clock %q out of range", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// ParseWeekday accepts full or three-letter English weekday names
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
