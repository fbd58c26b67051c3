package camera

import "math"

// applyEasing maps raw progress p in [0,1] to eased progress in [0,1]
// according to the segment's interpolation descriptor. segDuration is the
// segment's wall-clock duration (EndTime - StartTime), needed by spring.
func applyEasing(e *Easing, p, segDuration float64) float64 {
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}

	switch e.kind() {
	case "easeIn":
		return p * p
	case "easeOut":
		return p * (2 - p)
	case "easeInOut":
		if p < 0.5 {
			return 2 * p * p
		}
		return -1 + (4-2*p)*p
	case "cubicBezier":
		return cubicBezierEase(e, p)
	case "spring":
		return springEase(e, p, segDuration)
	default: // "linear" and any unrecognized tag
		return p
	}
}

// cubicBezierEase inverts the Bezier x(u) for the given progress p via
// Newton iteration, then evaluates y(u).
func cubicBezierEase(e *Easing, p float64) float64 {
	p1x, p1y, p2x, p2y := e.bezierControlPoints()

	bezierX := func(u float64) float64 {
		mu := 1 - u
		return 3*mu*mu*u*p1x + 3*mu*u*u*p2x + u*u*u
	}
	bezierXDeriv := func(u float64) float64 {
		mu := 1 - u
		return 3*mu*mu*p1x + 6*mu*u*(p2x-p1x) + 3*u*u*(1-p2x)
	}
	bezierY := func(u float64) float64 {
		mu := 1 - u
		return 3*mu*mu*u*p1y + 3*mu*u*u*p2y + u*u*u
	}

	u := p
	for i := 0; i < 10; i++ {
		fx := bezierX(u) - p
		if math.Abs(fx) < 1e-4 {
			break
		}
		deriv := bezierXDeriv(u)
		if math.Abs(deriv) < 1e-4 {
			break
		}
		u -= fx / deriv
	}

	e2 := bezierY(u)
	if e2 < 0 {
		e2 = 0
	} else if e2 > 1 {
		e2 = 1
	}
	return e2
}

// springEase evaluates a damped-harmonic spring response, normalized so
// that it reaches 1.0 at the end of the segment.
func springEase(e *Easing, p, segDuration float64) float64 {
	dampingRatio, response := e.springParams()
	if response < 0.01 {
		response = 0.01
	}
	omega := 2 * math.Pi / response

	dSeg := segDuration
	if dSeg < 1e-3 {
		dSeg = 1e-3
	}
	tau := p * dSeg

	f := func(t float64) float64 {
		return springResponse(dampingRatio, omega, t)
	}

	numerator := f(tau)
	denominator := f(dSeg)
	if math.Abs(denominator) < 1e-6 {
		return p
	}
	return numerator / denominator
}

func springResponse(dampingRatio, omega, t float64) float64 {
	if dampingRatio >= 1 {
		zot := dampingRatio * omega * t
		return 1 - (1+zot)*math.Exp(-zot)
	}
	underDamp := 1 - dampingRatio*dampingRatio
	if underDamp < 1e-8 {
		underDamp = 1e-8
	}
	omegaD := omega * math.Sqrt(underDamp)
	decay := math.Exp(-dampingRatio * omega * t)
	return 1 - decay*(math.Cos(omegaD*t)+(dampingRatio*omega/omegaD)*math.Sin(omegaD*t))
}
