package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/banshee-data/lidar-scanbuffer/internal/monitoring"
)

func TestDefaultBenchConfig(t *testing.T) {
	cfg := DefaultBenchConfig()

	if cfg.Resolution == nil || *cfg.Resolution != 1.0 {
		t.Errorf("Expected Resolution 1.0, got %v", cfg.Resolution)
	}
	if cfg.SweepPeriod == nil || *cfg.SweepPeriod != "100ms" {
		t.Errorf("Expected SweepPeriod '100ms', got %v", cfg.SweepPeriod)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	// Populated defaults and nil fallbacks must agree.
	empty := &BenchConfig{}
	if cfg.GetResolution() != empty.GetResolution() {
		t.Errorf("GetResolution() = %v, fallback %v", cfg.GetResolution(), empty.GetResolution())
	}
	if cfg.GetSweeps() != empty.GetSweeps() {
		t.Errorf("GetSweeps() = %d, fallback %d", cfg.GetSweeps(), empty.GetSweeps())
	}
	if cfg.GetSweepPeriod() != empty.GetSweepPeriod() {
		t.Errorf("GetSweepPeriod() = %v, fallback %v", cfg.GetSweepPeriod(), empty.GetSweepPeriod())
	}
	if cfg.GetRampStep() != empty.GetRampStep() {
		t.Errorf("GetRampStep() = %v, fallback %v", cfg.GetRampStep(), empty.GetRampStep())
	}
	if cfg.GetWideWidth() != empty.GetWideWidth() {
		t.Errorf("GetWideWidth() = %d, fallback %d", cfg.GetWideWidth(), empty.GetWideWidth())
	}
	if cfg.GetShortWidth() != empty.GetShortWidth() {
		t.Errorf("GetShortWidth() = %d, fallback %d", cfg.GetShortWidth(), empty.GetShortWidth())
	}
	if cfg.GetWallDistance() != empty.GetWallDistance() {
		t.Errorf("GetWallDistance() = %v, fallback %v", cfg.GetWallDistance(), empty.GetWallDistance())
	}
	if cfg.GetMaxRange() != empty.GetMaxRange() {
		t.Errorf("GetMaxRange() = %v, fallback %v", cfg.GetMaxRange(), empty.GetMaxRange())
	}
	if cfg.GetPlotDir() != "" || empty.GetPlotDir() != "" {
		t.Errorf("plotting should be disabled by default")
	}
}

func TestLoadBenchConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bench.json")

	testJSON := `{
  "resolution": 0.5,
  "sweeps": 25,
  "sweep_period": "20ms",
  "plot_dir": "plots"
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadBenchConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if got := cfg.GetResolution(); got != 0.5 {
		t.Errorf("GetResolution() = %v, want 0.5", got)
	}
	if got := cfg.GetSweeps(); got != 25 {
		t.Errorf("GetSweeps() = %d, want 25", got)
	}
	if got := cfg.GetSweepPeriod(); got != 20*time.Millisecond {
		t.Errorf("GetSweepPeriod() = %v, want 20ms", got)
	}
	if got := cfg.GetPlotDir(); got != "plots" {
		t.Errorf("GetPlotDir() = %q, want plots", got)
	}
	// Omitted fields fall back to defaults.
	if got := cfg.GetShortWidth(); got != 40 {
		t.Errorf("GetShortWidth() = %d, want 40", got)
	}
}

func TestLoadBenchConfigMissing(t *testing.T) {
	_, err := LoadBenchConfig("/nonexistent/path/to/config.json")
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadBenchConfigWrongExtension(t *testing.T) {
	_, err := LoadBenchConfig("config.yaml")
	if err == nil {
		t.Error("Expected error for non-.json file, got nil")
	}
}

func TestLoadBenchConfigInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	for name, body := range map[string]string{
		"malformed.json":  `{"resolution": "invalid"`,
		"outofrange.json": `{"resolution": 2.0}`,
	} {
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}
		if _, err := LoadBenchConfig(path); err == nil {
			t.Errorf("%s: expected error, got nil", name)
		}
	}
}

func TestLoadBenchConfigTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.json")
	if err := os.WriteFile(path, make([]byte, 1024*1024+1), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	if _, err := LoadBenchConfig(path); err == nil {
		t.Error("Expected error for oversized file, got nil")
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	original := monitoring.Logf
	defer func() { monitoring.Logf = original }()
	monitoring.SetLogger(nil)

	cfg := MustLoadDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults file does not validate: %v", err)
	}
	if got := cfg.GetResolution(); got != 1.0 {
		t.Errorf("GetResolution() = %v, want 1.0", got)
	}
	if got := cfg.GetSweeps(); got != 10 {
		t.Errorf("GetSweeps() = %d, want 10", got)
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	original := monitoring.Logf
	defer func() { monitoring.Logf = original }()
	monitoring.SetLogger(nil)

	cfg, path, err := LoadDefaultConfig()
	if err != nil {
		t.Fatalf("LoadDefaultConfig() error = %v", err)
	}
	if filepath.Base(path) != filepath.Base(DefaultConfigPath) {
		t.Errorf("path = %q, want a copy of %s", path, DefaultConfigPath)
	}
	if got, want := cfg.GetSweepPeriod(), 100*time.Millisecond; got != want {
		t.Errorf("GetSweepPeriod() = %v, want %v", got, want)
	}
}

func TestLoadDefaultConfigNotFound(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := LoadDefaultConfig()
	if !errors.Is(err, ErrDefaultConfigNotFound) {
		t.Errorf("LoadDefaultConfig() error = %v, want ErrDefaultConfigNotFound", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *BenchConfig
		wantErr bool
	}{
		{name: "defaults", cfg: DefaultBenchConfig()},
		{name: "empty config is valid", cfg: &BenchConfig{}},
		{name: "lowest resolution", cfg: &BenchConfig{Resolution: ptrFloat64(0.1)}},
		{name: "resolution too fine", cfg: &BenchConfig{Resolution: ptrFloat64(0.01)}, wantErr: true},
		{name: "resolution too coarse", cfg: &BenchConfig{Resolution: ptrFloat64(2)}, wantErr: true},
		{name: "NaN resolution", cfg: &BenchConfig{Resolution: ptrFloat64(math.NaN())}, wantErr: true},
		{name: "negative sweeps", cfg: &BenchConfig{Sweeps: ptrInt(-1)}, wantErr: true},
		{name: "invalid sweep period", cfg: &BenchConfig{SweepPeriod: ptrString("soon")}, wantErr: true},
		{name: "zero sweep period", cfg: &BenchConfig{SweepPeriod: ptrString("0s")}, wantErr: true},
		{name: "negative wide width", cfg: &BenchConfig{WideWidth: ptrInt(-5)}, wantErr: true},
		{name: "negative short width", cfg: &BenchConfig{ShortWidth: ptrInt(-5)}, wantErr: true},
		{name: "zero wall distance", cfg: &BenchConfig{WallDistance: ptrFloat64(0)}, wantErr: true},
		{name: "negative max range", cfg: &BenchConfig{MaxRange: ptrFloat64(-1)}, wantErr: true},
		{name: "wall beyond range", cfg: &BenchConfig{WallDistance: ptrFloat64(20)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetSweepPeriod(t *testing.T) {
	tests := []struct {
		name string
		cfg  *BenchConfig
		want time.Duration
	}{
		{"nil uses default", &BenchConfig{}, 100 * time.Millisecond},
		{"empty uses default", &BenchConfig{SweepPeriod: ptrString("")}, 100 * time.Millisecond},
		{"parsed", &BenchConfig{SweepPeriod: ptrString("250ms")}, 250 * time.Millisecond},
		{"invalid uses default", &BenchConfig{SweepPeriod: ptrString("bogus")}, 100 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.GetSweepPeriod(); got != tt.want {
				t.Errorf("GetSweepPeriod() = %v, want %v", got, tt.want)
			}
		})
	}
}
