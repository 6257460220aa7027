package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/lidar-scanbuffer/internal/monitoring"
	"github.com/banshee-data/lidar-scanbuffer/internal/scanbuffer"
)

// DefaultConfigPath is the path to the canonical bench defaults file.
const DefaultConfigPath = "config/bench.defaults.json"

// BenchConfig configures a scan-harness run. Every field is optional; the
// Get* accessors fall back to the documented defaults.
type BenchConfig struct {
	// Instrument
	Resolution *float64 `json:"resolution,omitempty"` // degrees per sample

	// Sweep simulation
	Sweeps      *int     `json:"sweeps,omitempty"`
	SweepPeriod *string  `json:"sweep_period,omitempty"` // duration string like "100ms"
	RampStep    *float64 `json:"ramp_step,omitempty"`

	// Scan shapes used to exercise width normalisation
	WideWidth  *int `json:"wide_width,omitempty"`
	ShortWidth *int `json:"short_width,omitempty"`

	// Wall scene
	WallDistance *float64 `json:"wall_distance,omitempty"`
	MaxRange     *float64 `json:"max_range,omitempty"`

	// Output
	PlotDir *string `json:"plot_dir,omitempty"` // empty disables plotting
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultBenchConfig returns a BenchConfig with every field populated.
func DefaultBenchConfig() *BenchConfig {
	return &BenchConfig{
		Resolution:   ptrFloat64(1.0),
		Sweeps:       ptrInt(scanbuffer.Capacity),
		SweepPeriod:  ptrString("100ms"),
		RampStep:     ptrFloat64(1000),
		WideWidth:    ptrInt(200),
		ShortWidth:   ptrInt(40),
		WallDistance: ptrFloat64(2.0),
		MaxRange:     ptrFloat64(10.0),
		PlotDir:      ptrString(""),
	}
}

// LoadBenchConfig loads a BenchConfig from a JSON file.
// The file must have a .json extension and be at most 1MB. Fields omitted
// from the file keep their defaults through the Get* accessors.
func LoadBenchConfig(path string) (*BenchConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &BenchConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ErrDefaultConfigNotFound is returned when no copy of DefaultConfigPath is
// reachable from the working directory.
var ErrDefaultConfigNotFound = errors.New("default config not found")

// LoadDefaultConfig loads DefaultConfigPath from the current directory or one
// of its ancestors and returns the config with the path it was read from.
func LoadDefaultConfig() (*BenchConfig, string, error) {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/ and cmd/scan-harness/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := LoadBenchConfig(path)
		if err != nil {
			return nil, path, err
		}
		monitoring.Logf("[config] loaded defaults from %s", path)
		return cfg, path, nil
	}
	return nil, "", fmt.Errorf("%w: %s", ErrDefaultConfigNotFound, DefaultConfigPath)
}

// MustLoadDefaultConfig is LoadDefaultConfig for test setup. It panics if no
// copy can be loaded.
func MustLoadDefaultConfig() *BenchConfig {
	cfg, _, err := LoadDefaultConfig()
	if err != nil {
		panic(fmt.Sprintf("cannot load %s: %v - run tests from repository root", DefaultConfigPath, err))
	}
	return cfg
}

// Validate checks that the set fields hold usable values.
func (c *BenchConfig) Validate() error {
	if c.Resolution != nil {
		r := *c.Resolution
		if math.IsNaN(r) || r < scanbuffer.MinResolution || r > scanbuffer.MaxResolution {
			return fmt.Errorf("resolution must be between %v and %v, got %v",
				scanbuffer.MinResolution, scanbuffer.MaxResolution, r)
		}
	}
	if c.Sweeps != nil && *c.Sweeps < 0 {
		return fmt.Errorf("sweeps must be non-negative, got %d", *c.Sweeps)
	}
	if c.SweepPeriod != nil && *c.SweepPeriod != "" {
		d, err := time.ParseDuration(*c.SweepPeriod)
		if err != nil {
			return fmt.Errorf("invalid sweep_period '%s': %w", *c.SweepPeriod, err)
		}
		if d <= 0 {
			return fmt.Errorf("sweep_period must be positive, got %s", *c.SweepPeriod)
		}
	}
	if c.WideWidth != nil && *c.WideWidth < 0 {
		return fmt.Errorf("wide_width must be non-negative, got %d", *c.WideWidth)
	}
	if c.ShortWidth != nil && *c.ShortWidth < 0 {
		return fmt.Errorf("short_width must be non-negative, got %d", *c.ShortWidth)
	}
	if c.WallDistance != nil && *c.WallDistance <= 0 {
		return fmt.Errorf("wall_distance must be positive, got %v", *c.WallDistance)
	}
	if c.MaxRange != nil && *c.MaxRange <= 0 {
		return fmt.Errorf("max_range must be positive, got %v", *c.MaxRange)
	}
	if c.GetWallDistance() > c.GetMaxRange() {
		return fmt.Errorf("wall_distance %v exceeds max_range %v", c.GetWallDistance(), c.GetMaxRange())
	}
	return nil
}

// GetResolution returns the resolution value or the default.
func (c *BenchConfig) GetResolution() float64 {
	if c.Resolution == nil {
		return 1.0
	}
	return *c.Resolution
}

// GetSweeps returns the sweeps value or the default.
func (c *BenchConfig) GetSweeps() int {
	if c.Sweeps == nil {
		return scanbuffer.Capacity
	}
	return *c.Sweeps
}

// GetSweepPeriod parses and returns SweepPeriod as a time.Duration.
func (c *BenchConfig) GetSweepPeriod() time.Duration {
	if c.SweepPeriod == nil || *c.SweepPeriod == "" {
		return 100 * time.Millisecond // default
	}
	d, err := time.ParseDuration(*c.SweepPeriod)
	if err != nil || d <= 0 {
		return 100 * time.Millisecond // default on parse error
	}
	return d
}

// GetRampStep returns the ramp_step value or the default.
func (c *BenchConfig) GetRampStep() float64 {
	if c.RampStep == nil {
		return 1000
	}
	return *c.RampStep
}

// GetWideWidth returns the wide_width value or the default.
func (c *BenchConfig) GetWideWidth() int {
	if c.WideWidth == nil {
		return 200
	}
	return *c.WideWidth
}

// GetShortWidth returns the short_width value or the default.
func (c *BenchConfig) GetShortWidth() int {
	if c.ShortWidth == nil {
		return 40
	}
	return *c.ShortWidth
}

// GetWallDistance returns the wall_distance value or the default.
func (c *BenchConfig) GetWallDistance() float64 {
	if c.WallDistance == nil {
		return 2.0
	}
	return *c.WallDistance
}

// GetMaxRange returns the max_range value or the default.
func (c *BenchConfig) GetMaxRange() float64 {
	if c.MaxRange == nil {
		return 10.0
	}
	return *c.MaxRange
}

// GetPlotDir returns the plot_dir value; empty means plotting is disabled.
func (c *BenchConfig) GetPlotDir() string {
	if c.PlotDir == nil {
		return ""
	}
	return *c.PlotDir
}
