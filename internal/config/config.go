// Package config loads fragsort settings from YAML and validates them.
//
// Every key is optional. A file is merged over Default, and the CLI then
// overrides individual fields with explicitly set flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"fragsort/internal/assemble"
	"fragsort/internal/model"
	"fragsort/internal/source"
)

// Config is the full set of run settings.
type Config struct {
	Overlap         int    `yaml:"overlap"`
	FragmentLength  int    `yaml:"fragment_length"`
	FragmentPattern string `yaml:"fragment_pattern"`
	Input           string `yaml:"input"`
	Output          string `yaml:"output"`

	Search SearchConfig `yaml:"search"`
	Extend ExtendConfig `yaml:"extend"`
	Log    LogConfig    `yaml:"log"`
	Web    WebConfig    `yaml:"web"`
}

// SearchConfig bounds the path search.
type SearchConfig struct {
	MaxStates   int           `yaml:"max_states"`
	MaxFrontier int           `yaml:"max_frontier"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ExtendConfig controls how leftovers are attached.
type ExtendConfig struct {
	FixedPoint bool `yaml:"fixed_point"`
}

// LogConfig selects log level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// WebConfig configures web mode.
type WebConfig struct {
	Addr  string `yaml:"addr"`
	Watch bool   `yaml:"watch"`
}

// Default returns the settings used when nothing is configured:
// six-character fragments overlapping by two.
func Default() Config {
	return Config{
		Overlap:         2,
		FragmentLength:  6,
		FragmentPattern: source.DefaultPattern,
		Input:           "source.txt",
		Output:          "sequence.txt",
		Search: SearchConfig{
			MaxStates:   2_000_000,
			MaxFrontier: 500_000,
			Timeout:     30 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "console"},
		Web: WebConfig{Addr: ":8080"},
	}
}

// Load reads a YAML file over Default. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(model.ExpandHome(path))
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks ranges and the fragment pattern.
func (c Config) Validate() error {
	var errs []error
	if c.Overlap < 1 {
		errs = append(errs, fmt.Errorf("overlap must be at least 1, got %d", c.Overlap))
	}
	if c.FragmentLength < 0 {
		errs = append(errs, fmt.Errorf("fragment_length must not be negative, got %d", c.FragmentLength))
	}
	if c.FragmentLength > 0 && c.FragmentLength < c.Overlap {
		errs = append(errs, fmt.Errorf("fragment_length %d is shorter than overlap %d", c.FragmentLength, c.Overlap))
	}
	if c.FragmentPattern != "" {
		if _, err := regexp.Compile(c.FragmentPattern); err != nil {
			errs = append(errs, fmt.Errorf("fragment_pattern: %w", err))
		}
	}
	if c.Search.MaxStates < 0 || c.Search.MaxFrontier < 0 || c.Search.Timeout < 0 {
		errs = append(errs, errors.New("search limits must not be negative"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Rules returns the loader rules. Call Validate first.
func (c Config) Rules() source.Rules {
	r := source.Rules{Length: c.FragmentLength, Overlap: c.Overlap}
	if c.FragmentPattern != "" {
		r.Pattern = regexp.MustCompile(c.FragmentPattern)
	}
	return r
}

// AssembleOptions returns the core options for this config.
func (c Config) AssembleOptions() assemble.Options {
	return assemble.Options{
		Overlap: c.Overlap,
		Limits: assemble.Limits{
			MaxStates:   c.Search.MaxStates,
			MaxFrontier: c.Search.MaxFrontier,
		},
		Extend: assemble.ExtendOptions{FixedPoint: c.Extend.FixedPoint},
	}
}
