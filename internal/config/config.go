// Package config loads the read-only application settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"image-finder/internal/logger"
)

const (
	DefaultMatchLimit       = 10
	DefaultConfirmThreshold = 6
)

// Window holds main window presentation settings.
type Window struct {
	Width     float32 `toml:"width"`
	Height    float32 `toml:"height"`
	Title     string  `toml:"title"`
	Watermark string  `toml:"watermark"`
}

// Logging selects the log level and an optional JSON log file.
type Logging struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Config contains every tunable setting.
type Config struct {
	MatchLimit       int     `toml:"match_limit"`
	ConfirmThreshold int     `toml:"confirm_threshold"`
	CaseInsensitive  bool    `toml:"case_insensitive"`
	Window           Window  `toml:"window"`
	Logging          Logging `toml:"logging"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MatchLimit:       DefaultMatchLimit,
		ConfirmThreshold: DefaultConfirmThreshold,
		Window: Window{
			Width:     600,
			Height:    400,
			Title:     "IMAGE FINDER",
			Watermark: "Developed by:",
		},
		Logging: Logging{Level: "info"},
	}
}

// DefaultConfigPath returns <user config dir>/image-finder/config.toml.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "image-finder", "config.toml"), nil
}

// Load reads the configuration at path, falling back to IMAGE_FINDER_CONFIG
// and then the default location. A missing file yields defaults. The
// returned bool reports whether a file was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return nil, "", false, err
	}

	exists := false
	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
		exists = true
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, "", false, fmt.Errorf("open config: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func resolvePath(path string) (string, error) {
	if path == "" {
		path = os.Getenv("IMAGE_FINDER_CONFIG")
	}
	if path == "" {
		return DefaultConfigPath()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %s: %w", path, err)
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(path)
}

// applyEnvOverrides honors LOG_LEVEL and DEBUG=1.
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
		return
	}
	if os.Getenv("DEBUG") == "1" {
		c.Logging.Level = "debug"
	}
}

func (c *Config) normalize() {
	def := Default()
	if c.Window.Width <= 0 {
		c.Window.Width = def.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = def.Window.Height
	}
	if strings.TrimSpace(c.Window.Title) == "" {
		c.Window.Title = def.Window.Title
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
}

// Validate rejects settings the search cannot work with.
func (c *Config) Validate() error {
	if c.MatchLimit < 0 {
		return fmt.Errorf("match_limit must be >= 0, got %d", c.MatchLimit)
	}
	if c.ConfirmThreshold < 0 {
		return fmt.Errorf("confirm_threshold must be >= 0, got %d", c.ConfirmThreshold)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// LogLevel returns the parsed logging level. Validate guarantees it parses.
func (c *Config) LogLevel() logger.LogLevel {
	level, _ := logger.ParseLevel(c.Logging.Level)
	return level
}
