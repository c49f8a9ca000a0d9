package carousel

import (
	"fmt"
	"math"
)

// Curve maps linear progress t in [0, 1] to eased progress.
type Curve func(t float64) float64

// Linear returns t unchanged.
func Linear(t float64) float64 {
	return clampUnit(t)
}

// Swing accelerates then decelerates along a half cosine.
func Swing(t float64) float64 {
	return 0.5 - math.Cos(clampUnit(t)*math.Pi)/2
}

// CurveByName resolves an easing name. The empty name selects Swing.
func CurveByName(name string) (Curve, error) {
	switch name {
	case "", "swing":
		return Swing, nil
	case "linear":
		return Linear, nil
	default:
		return nil, fmt.Errorf("%w: unknown easing %q", ErrConfig, name)
	}
}

func clampUnit(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
