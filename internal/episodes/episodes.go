// Package episodes segments a camera trajectory into discrete movement
// episodes — a maximal moving run followed by an optional settle point —
// using hysteresis and look-ahead over the derived dynamics.
package episodes

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/camqa/internal/camera"
	"github.com/banshee-data/camqa/internal/dynamics"
)

const (
	panMovingThreshold  = 0.015
	zoomMovingThreshold = 0.08

	settleCenterTolerance = 0.01
	settleZoomTolerance   = 0.02
	settlePanThreshold    = 0.012
	settleZoomThreshold   = 0.05

	lookAheadSeconds  = 0.25
	settleHoldSeconds = 0.20
)

// Episode is a maximal moving run [StartIndex, EndIndex] together with the
// search window it settles against and, if found, the first qualifying
// settle sample. SettleIndex is -1 when the camera never settled within
// the search window.
type Episode struct {
	StartIndex     int
	EndIndex       int
	SettleIndex    int
	TargetEndIndex int
}

// Detect scans a trajectory's dynamics for moving runs and characterizes
// each one's settle behavior. rate is the sampling rate used to build the
// trajectory (Hz), needed to convert the look-ahead and settle-hold
// windows from seconds to sample counts.
func Detect(samples []camera.CameraSample, dyn []dynamics.Sample, rate float64) []Episode {
	n := len(samples)
	if n == 0 || len(dyn) == 0 {
		return nil
	}

	if rate < 1 {
		rate = 1
	}
	dt := 1 / rate

	moving := movingMask(n, dyn)

	var episodes []Episode
	i := 0
	for i < n {
		if !moving[i] {
			i++
			continue
		}
		start := i
		for i+1 < n && moving[i+1] {
			i++
		}
		end := i
		i++

		if ep, ok := buildEpisode(samples, dyn, start, end, dt); ok {
			episodes = append(episodes, ep)
		}
	}

	return episodes
}

// movingMask reports, for each camera sample index, whether it is
// "moving". Dynamics sample j aligns with camera sample index j+1; camera
// sample 0 has no associated dynamics and is never moving.
func movingMask(n int, dyn []dynamics.Sample) []bool {
	mask := make([]bool, n)
	for j, d := range dyn {
		i := j + 1
		if i >= n {
			break
		}
		mask[i] = d.PanSpeed > panMovingThreshold || d.ZoomSpeed > zoomMovingThreshold
	}
	return mask
}

func buildEpisode(samples []camera.CameraSample, dyn []dynamics.Sample, start, end int, dt float64) (Episode, bool) {
	n := len(samples)

	lookAhead := int(math.Round(lookAheadSeconds / dt))
	if lookAhead < 1 {
		lookAhead = 1
	}

	windowStart := end + 1
	windowEnd := min(n-1, end+1+lookAhead)
	if windowStart > windowEnd {
		return Episode{}, false
	}

	tx, ty, tz := windowMeans(samples[windowStart : windowEnd+1])

	settleIndex := findSettleIndex(samples, dyn, end, n, dt, tx, ty, tz)

	return Episode{
		StartIndex:     start,
		EndIndex:       end,
		SettleIndex:    settleIndex,
		TargetEndIndex: windowEnd,
	}, true
}

func windowMeans(window []camera.CameraSample) (tx, ty, tz float64) {
	xs := make([]float64, len(window))
	ys := make([]float64, len(window))
	zs := make([]float64, len(window))
	for i, s := range window {
		xs[i], ys[i], zs[i] = s.X, s.Y, s.Zoom
	}
	return stat.Mean(xs, nil), stat.Mean(ys, nil), stat.Mean(zs, nil)
}

func findSettleIndex(samples []camera.CameraSample, dyn []dynamics.Sample, end, n int, dt, tx, ty, tz float64) int {
	hold := int(math.Round(settleHoldSeconds / dt))
	if hold < 3 {
		hold = 3
	}

	cStart := min(end+1, n-1)
	cEnd := n - hold - 1

	qualifies := func(c int) bool {
		if c < 0 || c >= n {
			return false
		}
		dx := samples[c].X - tx
		dy := samples[c].Y - ty
		if math.Hypot(dx, dy) > settleCenterTolerance {
			return false
		}
		if math.Abs(samples[c].Zoom-tz) > settleZoomTolerance {
			return false
		}
		pan, zoomSpeed := dynamicsAt(dyn, c)
		return pan <= settlePanThreshold && zoomSpeed <= settleZoomThreshold
	}

	for c := cStart; c <= cEnd; c++ {
		if !qualifies(c) {
			continue
		}
		stable := true
		for offset := 1; offset < hold; offset++ {
			if !qualifies(c + offset) {
				stable = false
				break
			}
		}
		if stable {
			return c
		}
	}
	return -1
}

// dynamicsAt returns the pan/zoom speed at camera index c, or (0,0) if c
// has no associated dynamics sample (c == 0).
func dynamicsAt(dyn []dynamics.Sample, c int) (pan, zoomSpeed float64) {
	j := c - 1
	if j < 0 || j >= len(dyn) {
		return 0, 0
	}
	return dyn[j].PanSpeed, dyn[j].ZoomSpeed
}
