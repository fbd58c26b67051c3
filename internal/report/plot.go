package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/camqa/internal/dynamics"
)

// SaveDynamicsPlot renders pan speed, zoom speed, and jerk over time as a
// single PNG at path, for visual inspection of one scenario's motion
// profile.
func SaveDynamicsPlot(samples []dynamics.Sample, scenarioID, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Camera Dynamics", scenarioID)
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Magnitude"

	panPts := make(plotter.XYs, len(samples))
	zoomPts := make(plotter.XYs, len(samples))
	jerkPts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		panPts[i] = plotter.XY{X: s.Time, Y: s.PanSpeed}
		zoomPts[i] = plotter.XY{X: s.Time, Y: s.ZoomSpeed}
		jerkPts[i] = plotter.XY{X: s.Time, Y: s.Jerk}
	}

	panLine, err := plotter.NewLine(panPts)
	if err != nil {
		return fmt.Errorf("failed to build pan-speed line: %w", err)
	}
	panLine.Width = vg.Points(1)
	p.Add(panLine)
	p.Legend.Add("pan speed", panLine)

	zoomLine, err := plotter.NewLine(zoomPts)
	if err != nil {
		return fmt.Errorf("failed to build zoom-speed line: %w", err)
	}
	zoomLine.Width = vg.Points(1)
	p.Add(zoomLine)
	p.Legend.Add("zoom speed", zoomLine)

	jerkLine, err := plotter.NewLine(jerkPts)
	if err != nil {
		return fmt.Errorf("failed to build jerk line: %w", err)
	}
	jerkLine.Width = vg.Points(1)
	p.Add(jerkLine)
	p.Legend.Add("jerk", jerkLine)

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot to %s: %w", path, err)
	}
	return nil
}
