// Package config loads brainrot's TOML configuration.
//
// Lookup order:
//   - the path given with --config
//   - <user config dir>/brainrot/config.toml
//   - built-in defaults
//
// Environment variables override file values.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/sadopc/brainrot/internal/classify"
)

const appDir = "brainrot"

// Duration is a time.Duration written as a string such as "1s" or "500ms".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config is the on-disk configuration.
type Config struct {
	DBPath   string `toml:"db_path"`
	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level"`

	// TickInterval is the sampling period.
	TickInterval Duration `toml:"tick_interval"`
	// RefreshEvery is how many ticks pass between view refreshes.
	RefreshEvery int `toml:"refresh_every"`
	TopApps      int `toml:"top_apps"`

	Categories Categories `toml:"categories"`
}

// Categories are the seed lists applied before persisted assignments.
type Categories struct {
	Rot     []string `toml:"rot"`
	Focus   []string `toml:"focus"`
	Neutral []string `toml:"neutral"`
	Ignored []string `toml:"ignored"`
}

// Default returns the built-in configuration. Paths are left empty and
// resolved by SetDefaults.
func Default() *Config {
	seeds := classify.DefaultSeeds()
	return &Config{
		LogLevel:     "info",
		TickInterval: Duration{time.Second},
		RefreshEvery: 5,
		TopApps:      10,
		Categories: Categories{
			Rot:     seeds.Rot,
			Focus:   seeds.Focus,
			Neutral: seeds.Neutral,
			Ignored: seeds.Ignored,
		},
	}
}

// Dir returns <user config dir>/brainrot.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, appDir), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the default config file. A missing file yields defaults.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads path over the defaults, applies environment overrides
// and validates the result. A missing file yields defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.SetDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies BRAINROT_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("BRAINROT_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("BRAINROT_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("BRAINROT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("BRAINROT_TICK"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.TickInterval = Duration{d}
		}
	}
}

// SetDefaults fills empty paths with locations under the config dir.
func (c *Config) SetDefaults() error {
	if c.DBPath != "" && c.LogFile != "" {
		return nil
	}
	dir, err := Dir()
	if err != nil {
		return err
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(dir, "usage.db")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(dir, "brainrot.log")
	}
	return nil
}

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every invalid field.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func (c *Config) Validate() error {
	var errs ValidateErrors

	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, ValidationError{Field: "log_level", Message: err.Error()})
	}
	if c.TickInterval.Duration < 100*time.Millisecond {
		errs = append(errs, ValidationError{
			Field:   "tick_interval",
			Message: fmt.Sprintf("%s is below the 100ms minimum", c.TickInterval),
		})
	}
	if c.RefreshEvery < 1 {
		errs = append(errs, ValidationError{Field: "refresh_every", Message: "must be at least 1"})
	}
	if c.TopApps < 1 {
		errs = append(errs, ValidationError{Field: "top_apps", Message: "must be at least 1"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid level %q", s)
	}
	return level, nil
}

// Seeds returns the category seed lists.
func (c *Config) Seeds() classify.Seeds {
	return classify.Seeds{
		Rot:     c.Categories.Rot,
		Focus:   c.Categories.Focus,
		Neutral: c.Categories.Neutral,
		Ignored: c.Categories.Ignored,
	}
}

// Save writes cfg to path as TOML, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "# brainrot configuration")
	fmt.Fprintln(f)
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
