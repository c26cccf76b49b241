// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"deedles.dev/playland/render"
	"deedles.dev/playland/shm"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

// Default configuration values.
const (
	DefaultWidth       = 800
	DefaultHeight      = 600
	DefaultTitle       = "Playland :D"
	DefaultAppID       = "playland"
	DefaultDecorations = DecorationsServer
	DefaultRenderer    = "noise"
	DefaultColor       = "blue"
	DefaultExitKey     = 1 // KEY_ESC
	DefaultLogLevel    = "info"
)

// Decoration preferences.
const (
	DecorationsServer  = "server"
	DecorationsClient  = "client"
	DecorationsDefault = "default"
)

// Config represents the playland configuration.
type Config struct {
	Window WindowConfig `toml:"window"`
	Render RenderConfig `toml:"render"`
	Input  InputConfig  `toml:"input"`
	Log    LogConfig    `toml:"log"`
}

type WindowConfig struct {
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	Title       string `toml:"title"`
	AppID       string `toml:"app_id"`
	Decorations string `toml:"decorations"` // server, client, default
}

type RenderConfig struct {
	Renderer string `toml:"renderer"` // noise, solid
	Color    string `toml:"color"`    // Used by the solid renderer
	Seed     uint64 `toml:"seed"`     // 0 = seed from the clock
}

type InputConfig struct {
	ExitKey      uint32 `toml:"exit_key"` // Linux evdev key code
	ReportMotion bool   `toml:"report_motion"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:       DefaultWidth,
			Height:      DefaultHeight,
			Title:       DefaultTitle,
			AppID:       DefaultAppID,
			Decorations: DefaultDecorations,
		},
		Render: RenderConfig{
			Renderer: DefaultRenderer,
			Color:    DefaultColor,
		},
		Input: InputConfig{
			ExitKey:      DefaultExitKey,
			ReportMotion: true,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "playland", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %v: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	var errs []error

	w, h := c.Window.Width, c.Window.Height
	switch {
	case (w <= 0) || (h <= 0):
		errs = append(errs, fmt.Errorf("window size %vx%v must be positive", w, h))
	case !shm.ValidSize(w, h):
		errs = append(errs, fmt.Errorf("window size %vx%v is too large", w, h))
	}

	switch c.Window.Decorations {
	case DecorationsServer, DecorationsClient, DecorationsDefault:
	default:
		errs = append(errs, fmt.Errorf("unknown decoration mode %q", c.Window.Decorations))
	}

	if !slices.Contains(render.Names(), c.Render.Renderer) {
		errs = append(errs, fmt.Errorf("unknown renderer %q", c.Render.Renderer))
	}
	if _, err := render.Color(c.Render.Color); err != nil {
		errs = append(errs, err)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
