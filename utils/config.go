package utils

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sheikhrachel/go-gol-interactive/model"
)

// Config holds the configuration for the simulation
type Config struct {
	Rows         int           `yaml:"rows"`
	Cols         int           `yaml:"cols"`
	Interval     time.Duration `yaml:"interval"`
	SlowInterval time.Duration `yaml:"slow_interval"`
	FastInterval time.Duration `yaml:"fast_interval"`
	Density      float64       `yaml:"density"`
	Workers      int           `yaml:"workers"`
	Seed         uint64        `yaml:"seed"`
	HistorySize  int           `yaml:"history_size"`
	Presets      []string      `yaml:"presets"`
	LogLevel     string        `yaml:"log_level"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Rows:         30,
		Cols:         50,
		Interval:     100 * time.Millisecond,
		SlowInterval: 1000 * time.Millisecond,
		FastInterval: 100 * time.Millisecond,
		Density:      model.DefaultDensity,
		Workers:      0, // runtime.NumCPU()
		Seed:         0, // time based
		HistorySize:  5,
		Presets:      []string{"20x10", "50x30", "70x50"},
		LogLevel:     "info",
	}
}

// LoadConfig loads configuration from a YAML file. Keys missing from the file keep
// their default values.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = yaml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] invalid config in file: %+v", filename)
	}

	return config, nil
}

// Marshal renders the configuration as YAML
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "[Marshal] failed to marshal config")
	}
	return data, nil
}

// Validate checks that the configuration describes a runnable simulation
func (c Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return errors.Wrapf(model.ErrInvalidDimension, "[Validate] rows=%d cols=%d", c.Rows, c.Cols)
	}
	for name, d := range map[string]time.Duration{
		"interval":      c.Interval,
		"slow_interval": c.SlowInterval,
		"fast_interval": c.FastInterval,
	} {
		if d <= 0 {
			return errors.Errorf("[Validate] %s must be positive, got %s", name, d)
		}
	}
	if c.Density < 0 || c.Density > 1 {
		return errors.Errorf("[Validate] density must be within [0,1], got %v", c.Density)
	}
	if c.HistorySize < 0 {
		return errors.Errorf("[Validate] history_size must not be negative, got %d", c.HistorySize)
	}
	for _, preset := range c.Presets {
		if _, _, err := ParseGridSize(preset); err != nil {
			return errors.Wrap(err, "[Validate] bad preset")
		}
	}
	return nil
}

// ParseGridSize parses a "<rows>x<cols>" preset such as "50x30"
func ParseGridSize(s string) (rows, cols int, err error) {
	r, c, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, errors.Errorf("[ParseGridSize] expected <rows>x<cols>, got %q", s)
	}
	if rows, err = strconv.Atoi(strings.TrimSpace(r)); err != nil {
		return 0, 0, errors.Wrapf(err, "[ParseGridSize] bad row count in %q", s)
	}
	if cols, err = strconv.Atoi(strings.TrimSpace(c)); err != nil {
		return 0, 0, errors.Wrapf(err, "[ParseGridSize] bad column count in %q", s)
	}
	if rows <= 0 || cols <= 0 {
		return 0, 0, errors.Wrapf(model.ErrInvalidDimension, "[ParseGridSize] %q", s)
	}
	return rows, cols, nil
}
