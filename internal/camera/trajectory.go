package camera

import (
	"math"
	"sort"
)

// Build reconstructs the camera trajectory for a timeline given a
// sampling rate (Hz). duration is the resolved timeline duration in
// seconds (the caller applies the timeline.duration -> media.duration
// fallback before calling Build).
func Build(tl Timeline, duration, rate float64) BuildResult {
	if duration <= 0 {
		return BuildResult{Notes: []string{"Timeline duration is missing or zero"}}
	}

	times := sampleTimes(duration, rate)

	if len(tl.ContinuousTransforms) >= 2 {
		samples := buildFromContinuous(tl.ContinuousTransforms, times)
		return BuildResult{
			Samples: samples,
			Source:  SourceContinuous,
			Notes:   []string{"Camera sampled from timeline.continuousTransforms"},
		}
	}

	segments, ok := findTransformTrack(tl)
	if !ok {
		return BuildResult{Notes: []string{"No camera track data available"}}
	}

	samples := buildFromSegments(segments, times)
	return BuildResult{
		Samples: samples,
		Source:  SourceSegments,
		Notes:   []string{"Camera sampled from timeline transform track"},
	}
}

// sampleTimes returns the output sample times k/rate for k = 0..ceil(D*R),
// each saturated to duration.
func sampleTimes(duration, rate float64) []float64 {
	count := int(math.Ceil(duration*rate)) + 1
	times := make([]float64, count)
	for k := 0; k < count; k++ {
		t := float64(k) / rate
		if t > duration {
			t = duration
		}
		times[k] = t
	}
	return times
}

// findTransformTrack locates the segment list to animate from: a track of
// kind "transform" with a non-empty segment list, or — as a legacy
// fallback — the first track whose segment list is non-empty and whose
// first element carries both a start- and end-transform.
func findTransformTrack(tl Timeline) ([]Segment, bool) {
	for _, tr := range tl.Tracks {
		if tr.Type == "transform" && len(tr.Data.Segments) > 0 {
			return sortedSegments(tr.Data.Segments), true
		}
	}
	for _, tr := range tl.Tracks {
		segs := tr.Data.Segments
		if len(segs) > 0 && segs[0].StartTransform != nil && segs[0].EndTransform != nil {
			return sortedSegments(segs), true
		}
	}
	return nil, false
}

func sortedSegments(segs []Segment) []Segment {
	out := make([]Segment, len(segs))
	copy(out, segs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}

func buildFromContinuous(points []ContinuousTransformPoint, times []float64) []CameraSample {
	pts := make([]ContinuousTransformPoint, len(points))
	copy(pts, points)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Time < pts[j].Time })

	samples := make([]CameraSample, len(times))
	for i, t := range times {
		x, y, zoom := interpolateContinuous(pts, t)
		x, y = clampCenter(x, y, zoom)
		samples[i] = CameraSample{Time: t, X: x, Y: y, Zoom: zoom}
	}
	return samples
}

func interpolateContinuous(pts []ContinuousTransformPoint, t float64) (x, y, zoom float64) {
	if t <= pts[0].Time {
		return pts[0].resolve()
	}
	last := len(pts) - 1
	if t >= pts[last].Time {
		return pts[last].resolve()
	}
	for i := 0; i < last; i++ {
		if t >= pts[i].Time && t <= pts[i+1].Time {
			x0, y0, z0 := pts[i].resolve()
			x1, y1, z1 := pts[i+1].resolve()
			span := pts[i+1].Time - pts[i].Time
			if span <= 0 {
				return x0, y0, z0
			}
			f := (t - pts[i].Time) / span
			return lerp(x0, x1, f), lerp(y0, y1, f), lerp(z0, z1, f)
		}
	}
	return pts[last].resolve()
}

func buildFromSegments(segments []Segment, times []float64) []CameraSample {
	samples := make([]CameraSample, len(times))

	i := 0
	n := len(segments)
	prevX, prevY, prevZoom := 0.5, 0.5, 1.0

	for k, t := range times {
		for i+1 < n && t >= segments[i].EndTime {
			i++
		}

		seg := segments[i]
		isLast := i == n-1
		active := seg.StartTime <= t && (t < seg.EndTime || (isLast && t <= seg.EndTime))

		var x, y, zoom float64
		if active {
			segDuration := seg.EndTime - seg.StartTime
			if segDuration < 1e-3 {
				segDuration = 1e-3
			}
			p := (t - seg.StartTime) / segDuration
			e := applyEasing(seg.Interpolation, p, seg.EndTime-seg.StartTime)

			x0, y0, z0 := seg.StartTransform.Resolve()
			x1, y1, z1 := seg.EndTransform.Resolve()
			x = lerp(x0, x1, e)
			y = lerp(y0, y1, e)
			zoom = lerp(z0, z1, e)

			x, y = clampCenter(x, y, zoom)
			prevX, prevY, prevZoom = x, y, zoom
		} else {
			x, y, zoom = prevX, prevY, prevZoom
		}

		samples[k] = CameraSample{Time: t, X: x, Y: y, Zoom: zoom}
	}

	return samples
}

func lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}

// clampCenter enforces that the visible window at the given zoom lies
// within [0,1]^2 once zoom magnifies past 1.0.
func clampCenter(x, y, zoom float64) (float64, float64) {
	if zoom <= 1.0 {
		return x, y
	}
	half := 0.5 / zoom
	return clamp(x, half, 1-half), clamp(y, half, 1-half)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
