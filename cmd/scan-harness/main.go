// Command scan-harness exercises a ScanBuffer end to end against simulated
// sweeps and reports each check as ok or FAIL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/banshee-data/lidar-scanbuffer/internal/config"
	"github.com/banshee-data/lidar-scanbuffer/internal/monitoring"
	"github.com/banshee-data/lidar-scanbuffer/internal/scanbuffer"
	"github.com/banshee-data/lidar-scanbuffer/internal/scanplot"
	"github.com/banshee-data/lidar-scanbuffer/internal/scanstats"
	"github.com/banshee-data/lidar-scanbuffer/internal/sweepsim"
	"github.com/banshee-data/lidar-scanbuffer/internal/timeutil"
	"github.com/banshee-data/lidar-scanbuffer/internal/version"
)

var (
	configFile  = flag.String("config", "", "Path to a bench config JSON file (searches for "+config.DefaultConfigPath+" when empty)")
	resolution  = flag.Float64("resolution", 0, "Angular resolution in degrees; overrides the config when non-zero")
	plotDir     = flag.String("plot-dir", "", "Write scan plots under this directory; overrides the config")
	quiet       = flag.Bool("quiet", false, "Only print failed checks")
	showVersion = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("scan-harness %s\n", version.String())
		return
	}

	if *quiet {
		monitoring.SetLogger(nil)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *resolution != 0 {
		cfg.Resolution = resolution
	}
	if *plotDir != "" {
		cfg.PlotDir = plotDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	h := &harness{out: os.Stdout, quiet: *quiet}
	if failed := h.run(context.Background(), cfg, timeutil.RealClock{}); failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d checks failed\n", failed, h.checks)
		os.Exit(1)
	}
	if !*quiet {
		fmt.Printf("all %d checks passed\n", h.checks)
	}
}

// loadConfig reads path, or the canonical defaults file when path is empty.
// Built-in defaults apply when no defaults file can be found.
func loadConfig(path string) (*config.BenchConfig, error) {
	if path != "" {
		return config.LoadBenchConfig(path)
	}
	cfg, _, err := config.LoadDefaultConfig()
	if errors.Is(err, config.ErrDefaultConfigNotFound) {
		monitoring.Logf("[config] %v, using built-in defaults", err)
		return config.DefaultBenchConfig(), nil
	}
	return cfg, err
}

// harness runs the check sequence and keeps the tally.
type harness struct {
	out    io.Writer
	quiet  bool
	runID  string
	checks int
	failed int
}

func (h *harness) check(name string, ok bool, format string, args ...interface{}) {
	h.checks++
	if ok {
		if !h.quiet {
			fmt.Fprintf(h.out, "ok   %s\n", name)
		}
		return
	}
	h.failed++
	fmt.Fprintf(h.out, "FAIL %s: %s\n", name, fmt.Sprintf(format, args...))
}

func (h *harness) logf(format string, args ...interface{}) {
	if !h.quiet {
		fmt.Fprintf(h.out, "     "+format+"\n", args...)
	}
}

func (h *harness) summary(label string, scan []float64) {
	s := scanstats.Summarize(scan)
	h.logf("%s: %d samples, first %.1f, last %.1f, min %.1f, max %.1f, mean %.2f",
		label, s.Samples, s.First, s.Last, s.Min, s.Max, s.Mean)
}

// run executes every check and returns the number that failed.
func (h *harness) run(ctx context.Context, cfg *config.BenchConfig, clock timeutil.Clock) int {
	if h.runID == "" {
		h.runID = uuid.New().String()
	}
	monitoring.Logf("[scan-harness] run %s", h.runID)
	h.checkResolutionBounds()

	res := cfg.GetResolution()
	buf, err := scanbuffer.New(res)
	if err != nil {
		h.check("construct", false, "resolution %v: %v", res, err)
		return h.failed
	}
	h.check("construct", buf.Len() == 0, "new buffer holds %d scans", buf.Len())
	h.logf("resolution %.2f°, %d samples per scan, %d slots", buf.Resolution(), buf.ScanWidth(), buf.Capacity())

	_, err = buf.PeekNewest()
	h.check("peek empty", errors.Is(err, scanbuffer.ErrEmptyBuffer), "got %v", err)
	h.check("render empty", buf.String() == "{ }", "got %q", buf.String())

	if !h.fill(ctx, cfg, clock, buf) {
		return h.failed
	}
	h.checkShortScan(cfg, buf)
	h.checkCopyAndMove(buf)
	h.checkDistances(res)
	h.checkWallScene(ctx, cfg, clock, res)

	return h.failed
}

func (h *harness) checkResolutionBounds() {
	for _, r := range []float64{2, 0.01} {
		_, err := scanbuffer.New(r)
		h.check(fmt.Sprintf("reject resolution %v", r),
			errors.Is(err, scanbuffer.ErrResolutionOutOfRange), "got %v", err)
	}
}

// fill runs the simulator with wide_width-sample sweeps, which are truncated
// at 1° resolution and padded at finer ones.
func (h *harness) fill(ctx context.Context, cfg *config.BenchConfig, clock timeutil.Clock, buf *scanbuffer.ScanBuffer) bool {
	wide := cfg.GetWideWidth()
	ramp := sweepsim.RampSource(cfg.GetRampStep())
	sim := &sweepsim.Simulator{
		Clock:  clock,
		Period: cfg.GetSweepPeriod(),
		Source: func(n, _ int, r float64) []float64 { return ramp(n, wide, r) },
	}

	sweeps := cfg.GetSweeps()
	if err := sim.Run(ctx, buf, sweeps); err != nil {
		h.check("simulate sweeps", false, "%v", err)
		return false
	}
	want := min(sweeps, buf.Capacity())
	h.check("occupancy after fill", buf.Len() == want, "holds %d scans, want %d", buf.Len(), want)
	if sweeps == 0 {
		return true
	}

	newest, err := buf.PeekNewest()
	if err != nil {
		h.check("peek newest", false, "%v", err)
		return false
	}
	if wide > 0 {
		wantFirst := float64(sweeps-1) * cfg.GetRampStep()
		h.check("newest is last sweep", newest[0] == wantFirst, "first sample %v, want %v", newest[0], wantFirst)
	}
	h.check("scan width normalised", len(newest) == buf.ScanWidth(), "stored %d samples, want %d", len(newest), buf.ScanWidth())
	h.summary("newest", newest)
	return true
}

func (h *harness) checkShortScan(cfg *config.BenchConfig, buf *scanbuffer.ScanBuffer) {
	short := cfg.GetShortWidth()
	scan := make([]float64, short)
	for i := range scan {
		scan[i] = 10000 + float64(i)
	}
	before := buf.Len()
	buf.Insert(scan)

	newest, err := buf.PeekNewest()
	if err != nil {
		h.check("short scan stored", false, "%v", err)
		return
	}
	kept := min(short, buf.ScanWidth())
	h.check("short scan zero padded",
		len(newest) == buf.ScanWidth() && scanstats.CountNonZero(newest) == kept,
		"stored %d samples with %d non-zero, want %d with %d", len(newest), scanstats.CountNonZero(newest), buf.ScanWidth(), kept)
	h.check("occupancy capped", buf.Len() == min(before+1, buf.Capacity()), "holds %d scans", buf.Len())
	h.logf("newest scan: %.60s...", buf.String())

	oldest := buf.Scans()[0]
	removed, err := buf.RemoveOldest()
	h.check("remove oldest", err == nil && scanstats.Equal(removed, oldest), "err %v", err)
	if err == nil {
		h.summary("removed", removed)
	}
}

func (h *harness) checkCopyAndMove(buf *scanbuffer.ScanBuffer) {
	dup := buf.Clone()
	held := buf.Len()

	var removeErr error
	if held > 0 {
		_, removeErr = buf.RemoveOldest()
	}
	h.check("clone independent", removeErr == nil && dup.Len() == held && buf.Len() == max(held-1, 0),
		"clone holds %d, source %d, started with %d (remove: %v)", dup.Len(), buf.Len(), held, removeErr)

	moved := dup.Take()
	h.check("move empties source", dup.Len() == 0 && dup.String() == "{ }", "source holds %d", dup.Len())
	h.check("move keeps scans", moved.Len() == held, "destination holds %d, want %d", moved.Len(), held)

	drained := 0
	for {
		if _, err := buf.RemoveOldest(); err != nil {
			h.check("drain ends empty", errors.Is(err, scanbuffer.ErrEmptyBuffer), "got %v", err)
			break
		}
		drained++
	}
	h.check("drain count", drained == max(held-1, 0), "drained %d", drained)

	moved.Clear()
	_, err := moved.PeekNewest()
	h.check("clear empties buffer", errors.Is(err, scanbuffer.ErrEmptyBuffer), "got %v", err)
}

func (h *harness) checkDistances(res float64) {
	buf, err := scanbuffer.New(res)
	if err != nil {
		h.check("distance buffer", false, "%v", err)
		return
	}
	width := buf.ScanWidth()
	want := make([]float64, width)
	for i := range want {
		want[i] = float64(i)
	}
	buf.Insert(want)

	exact := make([]float64, width)
	rounded := make([]float64, width)
	for i := 0; i < width; i++ {
		angle := math.Min(buf.AngleOf(i), scanbuffer.MaxAngle)
		exact[i], _ = buf.Distance(angle)

		nudge := 0.1 * res
		if i >= width/2 {
			nudge = -nudge
		}
		rounded[i], _ = buf.Distance(angle + nudge)
	}
	h.check("distance exact angles", scanstats.Equal(want, exact), "lookups differ from stored scan")
	h.check("distance rounded angles", scanstats.Equal(want, rounded), "lookups differ from stored scan")

	for _, a := range []float64{scanbuffer.MinAngle - 1, scanbuffer.MaxAngle + 2} {
		_, err := buf.Distance(a)
		h.check(fmt.Sprintf("reject angle %v", a), errors.Is(err, scanbuffer.ErrAngleOutOfRange), "got %v", err)
	}

	buf.Clear()
	_, err = buf.Distance(50)
	h.check("distance after clear", errors.Is(err, scanbuffer.ErrEmptyBuffer), "got %v", err)
}

func (h *harness) checkWallScene(ctx context.Context, cfg *config.BenchConfig, clock timeutil.Clock, res float64) {
	buf, err := scanbuffer.New(res)
	if err != nil {
		h.check("wall buffer", false, "%v", err)
		return
	}
	sim := &sweepsim.Simulator{
		Clock:  clock,
		Period: cfg.GetSweepPeriod(),
		Source: sweepsim.WallSource(cfg.GetWallDistance(), cfg.GetMaxRange()),
	}
	if err := sim.Run(ctx, buf, 1); err != nil {
		h.check("wall sweep", false, "%v", err)
		return
	}

	// The sample nearest 90° may sit slightly off broadside at coarse
	// resolutions, so compare against the range at that sample's angle.
	theta := buf.AngleOf(scanbuffer.AngleToIndex(90, res)) * math.Pi / 180
	want := cfg.GetWallDistance() / math.Sin(theta)
	d, err := buf.Distance(90)
	h.check("wall broadside range", err == nil && math.Abs(d-want) < 1e-9,
		"got %v (err %v), want %v", d, err, want)

	dir := cfg.GetPlotDir()
	if dir == "" {
		return
	}
	plotter, err := scanplot.NewPlotter(scanplot.MakeOutputDir(dir, filepath.Join("scan-harness", h.runID), clock))
	if err != nil {
		h.check("plot output dir", false, "%v", err)
		return
	}
	path, err := plotter.PlotBuffer(buf, "wall")
	h.check("plot wall scene", err == nil, "%v", err)
	if err == nil {
		monitoring.Logf("wrote %s", path)
	}
	path, err = plotter.ChartBuffer(buf, "wall")
	h.check("chart wall scene", err == nil, "%v", err)
	if err == nil {
		monitoring.Logf("wrote %s", path)
	}
}
