// SPDX-License-Identifier: EPL-2.0

// Package config loads aacpump settings from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ik5/aacpump/audio"
)

const (
	DefaultEngine = "aac"
	DefaultOutput = "wav"
)

var (
	ErrInvalidLevel  = errors.New("invalid log level")
	ErrInvalidFormat = errors.New("invalid value")
	ErrInvalidSize   = errors.New("size out of range")
)

// Config is the file layout:
//
//	engine: aac
//	buffer_size: 1600
//	window_size: 16384
//	log: { level: info, format: text }
//	output: { format: wav, path: out.wav }
//	resample: { rate: 0, mono: false }
type Config struct {
	Engine     string   `yaml:"engine,omitempty"`
	BufferSize int      `yaml:"buffer_size,omitempty"`
	WindowSize int      `yaml:"window_size,omitempty"`
	Log        Log      `yaml:"log,omitempty"`
	Output     Output   `yaml:"output,omitempty"`
	Resample   Resample `yaml:"resample,omitempty"`
}

type Log struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text, json
}

type Output struct {
	Format string `yaml:"format,omitempty"` // wav, aiff, play
	Path   string `yaml:"path,omitempty"`
}

type Resample struct {
	Rate int  `yaml:"rate,omitempty"` // 0 keeps the source rate
	Mono bool `yaml:"mono,omitempty"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Engine:     DefaultEngine,
		BufferSize: audio.DefaultBufferSize,
		WindowSize: audio.DefaultWindowSize,
		Log:        Log{Level: "info", Format: "text"},
		Output:     Output{Format: DefaultOutput},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills fields a file set to their zero value.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Engine == "" {
		c.Engine = d.Engine
	}
	if c.BufferSize == 0 {
		c.BufferSize = d.BufferSize
	}
	if c.WindowSize == 0 {
		c.WindowSize = d.WindowSize
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Output.Format == "" {
		c.Output.Format = d.Output.Format
	}
}

func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidFormat, c.Log.Format)
	}

	switch c.Output.Format {
	case "wav", "aiff", "play":
	default:
		return fmt.Errorf("%w: output.format %q", ErrInvalidFormat, c.Output.Format)
	}

	if c.BufferSize < 2 {
		return fmt.Errorf("%w: buffer_size %d", ErrInvalidSize, c.BufferSize)
	}
	if c.WindowSize < 2 {
		return fmt.Errorf("%w: window_size %d", ErrInvalidSize, c.WindowSize)
	}
	if c.Resample.Rate < 0 {
		return fmt.Errorf("%w: resample.rate %d", ErrInvalidSize, c.Resample.Rate)
	}
	return nil
}

// ParseLevel maps a level name to slog.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
