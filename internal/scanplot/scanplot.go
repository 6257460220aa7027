// Package scanplot renders the scans held in a ScanBuffer as PNG and HTML charts of
// distance against angle.
package scanplot

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/lidar-scanbuffer/internal/scanbuffer"
	"github.com/banshee-data/lidar-scanbuffer/internal/timeutil"
)

// ErrNothingToPlot is returned when the buffer holds no scans.
var ErrNothingToPlot = errors.New("scanplot: buffer is empty")

// Plotter writes charts into a single output directory.
type Plotter struct {
	outputDir string
}

// NewPlotter creates outputDir if needed and returns a Plotter writing there.
func NewPlotter(outputDir string) (*Plotter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &Plotter{outputDir: outputDir}, nil
}

// OutputDir returns the directory plots are written to.
func (p *Plotter) OutputDir() string { return p.outputDir }

// PlotBuffer draws every held scan, oldest first, as one line each and saves
// the chart as <name>.png. It returns the path written.
func (p *Plotter) PlotBuffer(b *scanbuffer.ScanBuffer, name string) (string, error) {
	scans := b.Scans()
	if len(scans) == 0 {
		return "", ErrNothingToPlot
	}

	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("%s - %d scans at %.2f°", name, len(scans), b.Resolution())
	pl.X.Label.Text = "Angle (°)"
	pl.Y.Label.Text = "Distance"
	pl.X.Min = scanbuffer.MinAngle
	pl.X.Max = scanbuffer.MaxAngle

	colors := generateColors(len(scans))
	for i, scan := range scans {
		pts := make(plotter.XYs, len(scan))
		for j, d := range scan {
			pts[j] = plotter.XY{X: b.AngleOf(j), Y: d}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return "", err
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		if i == len(scans)-1 {
			line.Width = vg.Points(2)
		}
		pl.Add(line)
		pl.Legend.Add(scanLabel(i, len(scans)), line)
	}

	pl.Legend.Top = true
	pl.Legend.Left = false
	pl.Legend.XOffs = -10
	pl.Legend.YOffs = -10

	path := filepath.Join(p.outputDir, name+".png")
	if err := pl.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save scan plot: %w", err)
	}
	return path, nil
}

func scanLabel(i, n int) string {
	switch {
	case i == n-1:
		return "newest"
	case i == 0:
		return "oldest"
	default:
		return fmt.Sprintf("-%d", n-1-i)
	}
}

// MakeOutputDir returns baseDir/<run>/<timestamp>, or baseDir/live_<timestamp>
// when run is empty.
func MakeOutputDir(baseDir, run string, clock timeutil.Clock) string {
	ts := clock.Now().Format("20060102_150405")
	if run != "" {
		return filepath.Join(baseDir, run, ts)
	}
	return filepath.Join(baseDir, "live_"+ts)
}

// generateColors creates a palette of n distinct colours.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		r, g, b := hslToRGB(float64(i)/float64(n), 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL in [0,1] to 8-bit RGB.
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	if s == 0 {
		v := uint8(l * 255)
		return v, v, v
	}

	q := l + s - l*s
	if l < 0.5 {
		q = l * (1 + s)
	}
	p := 2*l - q
	return uint8(hueToRGB(p, q, h+1.0/3.0) * 255),
		uint8(hueToRGB(p, q, h) * 255),
		uint8(hueToRGB(p, q, h-1.0/3.0) * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
