// Package config provides TOML-based configuration for countdown.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variables that override file settings.
const (
	EnvLogLevel  = "COUNTDOWN_LOG_LEVEL"
	EnvLogFile   = "COUNTDOWN_LOG_FILE"
	EnvSoundFile = "COUNTDOWN_SOUND_FILE"
	EnvNoSound   = "COUNTDOWN_NO_SOUND"
	EnvNoNotify  = "COUNTDOWN_NO_NOTIFY"
)

// Config is the full application configuration.
type Config struct {
	Timer  TimerConfig  `toml:"timer"`
	Sound  SoundConfig  `toml:"sound"`
	Notify NotifyConfig `toml:"notify"`
	Log    LogConfig    `toml:"log"`
}

// TimerConfig controls the countdown and picker.
type TimerConfig struct {
	Tick            Duration `toml:"tick"`
	UrgentThreshold Duration `toml:"urgent_threshold"`
	MaxHours        int      `toml:"max_hours"`
}

// SoundConfig controls the completion cue.
type SoundConfig struct {
	Enabled bool   `toml:"enabled"`
	File    string `toml:"file"` // 16-bit PCM WAV; empty plays the built-in bell
}

// NotifyConfig controls the background notification.
type NotifyConfig struct {
	Enabled bool   `toml:"enabled"`
	Title   string `toml:"title"`
	Bell    bool   `toml:"bell"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // "stderr" logs to the console
}

// Duration wraps time.Duration with TOML-friendly string parsing.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration %q not allowed", s)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML serialization.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			Tick:            Duration{time.Second},
			UrgentThreshold: Duration{10 * time.Second},
			MaxHours:        99,
		},
		Sound: SoundConfig{Enabled: true},
		Notify: NotifyConfig{
			Enabled: true,
			Title:   "Countdown",
			Bell:    false,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(".countdown", "countdown.log"),
		},
	}
}

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/countdown/config.toml
//  2. ~/.config/countdown/config.toml
//
// If no file exists, returns DefaultConfig() with env overrides applied.
func Load() (*Config, error) {
	for _, p := range searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, cfg.Validate()
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes TOML over the defaults, then applies env overrides.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that would break the timer.
func (c *Config) Validate() error {
	if c.Timer.Tick.Duration <= 0 {
		return fmt.Errorf("timer.tick must be positive, got %s", c.Timer.Tick)
	}
	if c.Timer.MaxHours < 0 {
		return fmt.Errorf("timer.max_hours must not be negative, got %d", c.Timer.MaxHours)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv(EnvSoundFile); v != "" {
		cfg.Sound.File = v
	}
	if envBool(EnvNoSound) {
		cfg.Sound.Enabled = false
	}
	if envBool(EnvNoNotify) {
		cfg.Notify.Enabled = false
	}
}

func envBool(name string) bool {
	b, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && b
}

func searchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "countdown", "config.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "countdown", "config.toml"))
	}
	return paths
}
