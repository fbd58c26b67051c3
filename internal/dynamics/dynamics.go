// Package dynamics derives per-sample pan speed, zoom speed, and jerk from
// a camera trajectory by successive numerical differentiation.
package dynamics

import (
	"math"

	"github.com/banshee-data/camqa/internal/camera"
)

// Sample is one derived dynamics point, aligned in time with the i-th
// camera sample (i >= 1).
type Sample struct {
	Time      float64
	PanSpeed  float64
	ZoomSpeed float64
	Jerk      float64
}

// minDt is the floor applied to consecutive sample deltas to avoid
// division blowups on degenerate (duplicate-time) input.
const minDt = 1e-6

// Compute returns the dynamics sequence for a trajectory. Fewer than four
// camera samples is insufficient data; Compute returns an empty sequence.
func Compute(samples []camera.CameraSample) []Sample {
	if len(samples) < 4 {
		return nil
	}

	m := len(samples) - 1
	out := make([]Sample, m)

	vx := make([]float64, m)
	vy := make([]float64, m)
	dt := make([]float64, m)

	for j := 0; j < m; j++ {
		prev, cur := samples[j], samples[j+1]
		d := cur.Time - prev.Time
		if d < minDt {
			d = minDt
		}
		dt[j] = d
		vx[j] = (cur.X - prev.X) / d
		vy[j] = (cur.Y - prev.Y) / d
		vz := math.Abs(cur.Zoom-prev.Zoom) / d

		out[j] = Sample{
			Time:      cur.Time,
			PanSpeed:  math.Hypot(vx[j], vy[j]),
			ZoomSpeed: vz,
		}
	}

	ax := make([]float64, m)
	ay := make([]float64, m)
	// a_0 = (0,0): no previous velocity to difference against.
	for j := 1; j < m; j++ {
		ax[j] = (vx[j] - vx[j-1]) / dt[j]
		ay[j] = (vy[j] - vy[j-1]) / dt[j]
	}

	// jerk[0] and jerk[1] are 0: ax[0] is a sentinel, not a real
	// acceleration, so the first real difference is ax[2]-ax[1].
	for j := 2; j < m; j++ {
		out[j].Jerk = math.Hypot(ax[j]-ax[j-1], ay[j]-ay[j-1]) / dt[j]
	}

	return out
}
