package metrics

import (
	"math"

	"github.com/banshee-data/camqa/internal/camera"
	"github.com/banshee-data/camqa/internal/dynamics"
	"github.com/banshee-data/camqa/internal/episodes"
)

// Aggregate computes all six headline metrics for a scenario.
func Aggregate(
	samples []camera.CameraSample,
	dyn []dynamics.Sample,
	eps []episodes.Episode,
	cursor []CursorSample,
	frames []FrameAnalysisItem,
	duration float64,
) Metrics {
	return Metrics{
		TransitionSettlingTimeP95Sec:  settlingTimeP95(samples, eps),
		OvershootRatioP95:             overshootRatioP95(samples, eps),
		CameraJerkP95:                 Percentile(jerkValues(dyn), 95),
		CameraJerkP99:                 Percentile(jerkValues(dyn), 99),
		CursorCameraAlignmentErrorP95: cursorAlignmentErrorP95(samples, cursor),
		TextReadabilityRetentionScore: readabilityRetentionScore(samples, dyn, frames, duration),
	}
}

func jerkValues(dyn []dynamics.Sample) []float64 {
	xs := make([]float64, 0, len(dyn))
	for _, d := range dyn {
		xs = append(xs, d.Jerk)
	}
	return positiveValues(xs)
}

func settlingTimeP95(samples []camera.CameraSample, eps []episodes.Episode) *float64 {
	var elapsed []float64
	for _, ep := range eps {
		if ep.SettleIndex < 0 {
			continue
		}
		e := samples[ep.SettleIndex].Time - samples[ep.StartIndex].Time
		if e < 0 {
			e = 0
		}
		if e > 0 {
			elapsed = append(elapsed, e)
		}
	}
	return Percentile(elapsed, 95)
}

func overshootRatioP95(samples []camera.CameraSample, eps []episodes.Episode) *float64 {
	var ratios []float64
	for _, ep := range eps {
		if ep.SettleIndex <= ep.StartIndex {
			continue
		}
		window := samples[ep.EndIndex+1 : ep.TargetEndIndex+1]
		if len(window) == 0 {
			continue
		}
		tx, ty, tz := windowMeans(window)
		ratios = append(ratios, episodeOvershootRatio(samples, ep, tx, ty, tz))
	}
	return Percentile(ratios, 95)
}

func windowMeans(window []camera.CameraSample) (tx, ty, tz float64) {
	var sx, sy, sz float64
	for _, s := range window {
		sx += s.X
		sy += s.Y
		sz += s.Zoom
	}
	n := float64(len(window))
	return sx / n, sy / n, sz / n
}

func episodeOvershootRatio(samples []camera.CameraSample, ep episodes.Episode, tx, ty, tz float64) float64 {
	start := samples[ep.StartIndex]

	centerRatio := 0.0
	ux, uy := tx-start.X, ty-start.Y
	d := math.Hypot(ux, uy)
	if d > 1e-5 {
		ux, uy = ux/d, uy/d
		maxProj := math.Inf(-1)
		for i := ep.StartIndex; i <= ep.SettleIndex; i++ {
			proj := (samples[i].X-start.X)*ux + (samples[i].Y-start.Y)*uy
			if proj > maxProj {
				maxProj = proj
			}
		}
		overshoot := maxProj - d
		if overshoot < 0 {
			overshoot = 0
		}
		centerRatio = overshoot / d
	}

	zoomRatio := 0.0
	delta := tz - start.Zoom
	if math.Abs(delta) > 1e-4 {
		maxZoom, minZoom := math.Inf(-1), math.Inf(1)
		for i := ep.StartIndex; i <= ep.SettleIndex; i++ {
			z := samples[i].Zoom
			if z > maxZoom {
				maxZoom = z
			}
			if z < minZoom {
				minZoom = z
			}
		}
		if delta > 0 {
			overshoot := maxZoom - tz
			if overshoot < 0 {
				overshoot = 0
			}
			zoomRatio = overshoot / math.Abs(delta)
		} else {
			overshoot := tz - minZoom
			if overshoot < 0 {
				overshoot = 0
			}
			zoomRatio = overshoot / math.Abs(delta)
		}
	}

	if centerRatio > zoomRatio {
		return centerRatio
	}
	return zoomRatio
}

func cursorAlignmentErrorP95(samples []camera.CameraSample, cursor []CursorSample) *float64 {
	if len(cursor) == 0 {
		return nil
	}
	errs := make([]float64, 0, len(samples))
	for _, s := range samples {
		cx, cy := interpolateCursor(cursor, s.Time)
		zoom := s.Zoom
		if zoom < 1.0 {
			zoom = 1.0
		}
		h := 0.5 / zoom
		ex := math.Abs(cx-s.X) / h
		ey := math.Abs(cy-s.Y) / h
		errs = append(errs, math.Hypot(ex, ey)/math.Sqrt2)
	}
	return Percentile(errs, 95)
}

func interpolateCursor(cursor []CursorSample, t float64) (nx, ny float64) {
	if t <= cursor[0].Time {
		return cursor[0].NX, cursor[0].NY
	}
	last := len(cursor) - 1
	if t >= cursor[last].Time {
		return cursor[last].NX, cursor[last].NY
	}
	for i := 0; i < last; i++ {
		if t >= cursor[i].Time && t <= cursor[i+1].Time {
			span := cursor[i+1].Time - cursor[i].Time
			if span <= 0 {
				return cursor[i].NX, cursor[i].NY
			}
			f := (t - cursor[i].Time) / span
			return lerp(cursor[i].NX, cursor[i+1].NX, f), lerp(cursor[i].NY, cursor[i+1].NY, f)
		}
	}
	return cursor[last].NX, cursor[last].NY
}

func lerp(a, b, f float64) float64 { return a + (b-a)*f }

// interpolateCamera linearly interpolates the sampled trajectory at an
// arbitrary time, saturating outside the trajectory's range.
func interpolateCamera(samples []camera.CameraSample, t float64) camera.CameraSample {
	if t <= samples[0].Time {
		return samples[0]
	}
	last := len(samples) - 1
	if t >= samples[last].Time {
		return samples[last]
	}
	for i := 0; i < last; i++ {
		if t >= samples[i].Time && t <= samples[i+1].Time {
			span := samples[i+1].Time - samples[i].Time
			if span <= 0 {
				return samples[i]
			}
			f := (t - samples[i].Time) / span
			return camera.CameraSample{
				Time: t,
				X:    lerp(samples[i].X, samples[i+1].X, f),
				Y:    lerp(samples[i].Y, samples[i+1].Y, f),
				Zoom: lerp(samples[i].Zoom, samples[i+1].Zoom, f),
			}
		}
	}
	return samples[last]
}

// nearestDynamics returns the dynamics sample whose time is closest to t,
// breaking ties toward the earlier sample, or (Sample{}, false) if dyn is
// empty.
func nearestDynamics(dyn []dynamics.Sample, t float64) (dynamics.Sample, bool) {
	if len(dyn) == 0 {
		return dynamics.Sample{}, false
	}
	best := 0
	bestDiff := math.Abs(dyn[0].Time - t)
	for i := 1; i < len(dyn); i++ {
		diff := math.Abs(dyn[i].Time - t)
		if diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return dyn[best], true
}

func readabilityRetentionScore(samples []camera.CameraSample, dyn []dynamics.Sample, frames []FrameAnalysisItem, duration float64) *float64 {
	if len(samples) == 0 {
		return nil
	}

	candidateTimes := readabilityCandidateTimes(frames, duration)
	if len(candidateTimes) == 0 {
		return nil
	}

	var sum float64
	for _, t := range candidateTimes {
		state := interpolateCamera(samples, t)
		d, _ := nearestDynamics(dyn, t)

		zoomC := clamp01((state.Zoom - 1.0) / 0.8)
		stabC := 1 - clamp01(d.PanSpeed/0.25)
		smoothC := 1 - clamp01(d.Jerk/20.0)
		score := clamp01(0.50*zoomC + 0.35*stabC + 0.15*smoothC)
		sum += score
	}
	mean := sum / float64(len(candidateTimes))
	return &mean
}

// readabilityCandidateTimes selects the frame times to score, per the
// two-tier fallback: strict filter, then relaxed filter, then uniform 1Hz
// sampling over the trajectory duration.
func readabilityCandidateTimes(frames []FrameAnalysisItem, duration float64) []float64 {
	var strict []float64
	for _, f := range frames {
		if !f.IsScrolling && f.ChangeAmount < 0.12 && f.Similarity > 0.85 {
			strict = append(strict, f.Time)
		}
	}
	if len(strict) > 0 {
		return strict
	}

	var relaxed []float64
	for _, f := range frames {
		if !f.IsScrolling && f.ChangeAmount < 0.18 {
			relaxed = append(relaxed, f.Time)
		}
	}
	if len(relaxed) > 0 {
		return relaxed
	}

	if duration <= 0 {
		return nil
	}
	count := int(math.Ceil(duration)) + 1
	times := make([]float64, count)
	for k := 0; k < count; k++ {
		t := float64(k)
		if t > duration {
			t = duration
		}
		times[k] = t
	}
	return times
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
