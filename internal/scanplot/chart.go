package scanplot

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/lidar-scanbuffer/internal/scanbuffer"
)

// ChartBuffer renders the same view as PlotBuffer as an interactive HTML line
// chart and saves it as <name>.html. It returns the path written.
func (p *Plotter) ChartBuffer(b *scanbuffer.ScanBuffer, name string) (string, error) {
	scans := b.Scans()
	if len(scans) == 0 {
		return "", ErrNothingToPlot
	}

	angles := make([]string, b.ScanWidth())
	for i := range angles {
		angles[i] = strconv.FormatFloat(b.AngleOf(i), 'f', -1, 64)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: name, Width: "1200px", Height: "520px"}),
		charts.WithTitleOpts(opts.Title{Title: name, Subtitle: fmt.Sprintf("%d scans at %.2f°", len(scans), b.Resolution())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Angle (°)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Distance", NameLocation: "middle", NameGap: 40}),
	)
	line.SetXAxis(angles)
	for i, scan := range scans {
		data := make([]opts.LineData, len(scan))
		for j, d := range scan {
			data[j] = opts.LineData{Value: d}
		}
		line.AddSeries(scanLabel(i, len(scans)), data)
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", fmt.Errorf("render scan chart: %w", err)
	}

	path := filepath.Join(p.outputDir, name+".html")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write scan chart: %w", err)
	}
	return path, nil
}
