// Package config holds the run configuration: acceptance thresholds,
// scan behavior, logging and report options. Values come from an optional
// YAML file overlaid by command-line flags; everything is validated
// before a run starts, so a bad threshold never reaches the engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration for one run.
type Config struct {
	Thresholds Thresholds `yaml:"thresholds"`
	Scan       Scan       `yaml:"scan"`
	Logger     Logger     `yaml:"logger"`
	Report     Report     `yaml:"report"`
}

// Thresholds are the acceptance floors files are checked against.
type Thresholds struct {
	MinWidth       int     `yaml:"min_width" validate:"gt=0"`
	MinHeight      int     `yaml:"min_height" validate:"gt=0"`
	MinJPEGQuality float64 `yaml:"min_jpeg_quality" validate:"gte=0,lte=100"`
}

// Scan controls traversal and concurrency.
type Scan struct {
	Recursive bool `yaml:"recursive"`
	Workers   int  `yaml:"workers" validate:"gte=0"`
}

// Logger controls diagnostic output. Level may be overridden by the
// IMGCHECK_LOG_LEVEL environment variable.
type Logger struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	JSONFormat bool   `yaml:"json_format"`
}

// Report controls human-facing rendering. Language selects the message
// catalog for console output only; machine exports are never localized.
type Report struct {
	Language  string `yaml:"language" validate:"omitempty,oneof=en zh"`
	WriteFile bool   `yaml:"write_file"`
}

// Default returns the configuration used when no file or flag says
// otherwise: a 1600x1600 resolution floor and a JPEG quality floor of 60,
// auto-sized workers, report file enabled.
func Default() *Config {
	return &Config{
		Thresholds: Thresholds{
			MinWidth:       1600,
			MinHeight:      1600,
			MinJPEGQuality: 60,
		},
		Logger: Logger{Level: "info"},
		Report: Report{WriteFile: true},
	}
}

// Load reads a YAML configuration file over the defaults, so a partial
// file only overrides what it names.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return cfg, nil
}

// LoadDefault searches the standard locations and loads the first config
// file found. Search order: ./imgcheck.yaml, ~/.imgcheck/config.yaml.
// Finding none is not an error; the defaults apply.
func LoadDefault() (*Config, error) {
	candidates := []string{"imgcheck.yaml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".imgcheck", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	return Default(), nil
}
