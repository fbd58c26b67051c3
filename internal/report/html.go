package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/camqa/internal/dynamics"
)

// WriteDynamicsChart renders an interactive go-echarts line chart of pan
// speed, zoom speed, and jerk over time for one scenario, writing the
// self-contained HTML document to w.
func WriteDynamicsChart(w io.Writer, samples []dynamics.Sample, scenarioID string) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: fmt.Sprintf("%s - Camera Dynamics", scenarioID), Theme: "white"}),
		charts.WithTitleOpts(opts.Title{Title: "Camera Dynamics", Subtitle: scenarioID}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Magnitude"}),
	)

	times := make([]string, len(samples))
	pan := make([]opts.LineData, len(samples))
	zoom := make([]opts.LineData, len(samples))
	jerk := make([]opts.LineData, len(samples))
	for i, s := range samples {
		times[i] = fmt.Sprintf("%.2f", s.Time)
		pan[i] = opts.LineData{Value: s.PanSpeed}
		zoom[i] = opts.LineData{Value: s.ZoomSpeed}
		jerk[i] = opts.LineData{Value: s.Jerk}
	}

	line.SetXAxis(times).
		AddSeries("pan speed", pan).
		AddSeries("zoom speed", zoom).
		AddSeries("jerk", jerk).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))

	return line.Render(w)
}
