package dynamics

import (
	"math"
	"testing"

	"github.com/banshee-data/camqa/internal/camera"
)

func TestCompute_FewerThanFourSamplesIsInsufficientData(t *testing.T) {
	samples := []camera.CameraSample{
		{Time: 0, X: 0.5, Y: 0.5, Zoom: 1.0},
		{Time: 1, X: 0.5, Y: 0.5, Zoom: 1.0},
	}
	if got := Compute(samples); got != nil {
		t.Errorf("Compute() = %v, want nil", got)
	}
}

func TestCompute_ConstantPositionYieldsZeroSpeeds(t *testing.T) {
	samples := make([]camera.CameraSample, 5)
	for i := range samples {
		samples[i] = camera.CameraSample{Time: float64(i), X: 0.5, Y: 0.5, Zoom: 1.0}
	}
	out := Compute(samples)
	if len(out) != 4 {
		t.Fatalf("len(out) = %d, want 4", len(out))
	}
	for _, s := range out {
		if s.PanSpeed != 0 || s.ZoomSpeed != 0 || s.Jerk != 0 {
			t.Errorf("sample = %+v, want all zero", s)
		}
	}
}

func TestCompute_ConstantVelocityYieldsZeroJerk(t *testing.T) {
	samples := make([]camera.CameraSample, 6)
	for i := range samples {
		samples[i] = camera.CameraSample{Time: float64(i), X: 0.1 * float64(i), Y: 0.5, Zoom: 1.0}
	}
	out := Compute(samples)
	for i, s := range out {
		if math.Abs(s.PanSpeed-0.1) > 1e-9 {
			t.Errorf("out[%d].PanSpeed = %v, want 0.1", i, s.PanSpeed)
		}
	}
	for i := 1; i < len(out); i++ {
		if math.Abs(out[i].Jerk) > 1e-9 {
			t.Errorf("out[%d].Jerk = %v, want 0 under constant velocity", i, out[i].Jerk)
		}
	}
}

func TestCompute_ConstantAccelerationYieldsZeroJerk(t *testing.T) {
	// x = 0, 0, 1, 3, 6 at t = 0..4: velocities 0,1,2,3, a constant
	// acceleration of 1 per step, so jerk is zero throughout.
	xs := []float64{0, 0, 1, 3, 6}
	samples := make([]camera.CameraSample, len(xs))
	for i, x := range xs {
		samples[i] = camera.CameraSample{Time: float64(i), X: x, Y: 0.5, Zoom: 1.0}
	}
	out := Compute(samples)
	for i, s := range out {
		if math.Abs(s.Jerk) > 1e-9 {
			t.Errorf("out[%d].Jerk = %v, want 0 under constant acceleration", i, s.Jerk)
		}
	}
}

func TestCompute_ZoomSpeedIsAbsoluteRate(t *testing.T) {
	samples := []camera.CameraSample{
		{Time: 0, X: 0.5, Y: 0.5, Zoom: 1.0},
		{Time: 1, X: 0.5, Y: 0.5, Zoom: 2.0},
		{Time: 2, X: 0.5, Y: 0.5, Zoom: 1.0},
		{Time: 3, X: 0.5, Y: 0.5, Zoom: 2.0},
	}
	out := Compute(samples)
	for _, s := range out {
		if s.ZoomSpeed != 1.0 {
			t.Errorf("ZoomSpeed = %v, want 1.0", s.ZoomSpeed)
		}
	}
}
