package anim

import (
	"errors"
	"fmt"
)

// ErrInvalidDomain is returned when the input domain is empty or inverted.
var ErrInvalidDomain = errors.New("invalid interpolation domain")

// Mode selects what happens to an input that falls outside the domain on one side.
type Mode int

const (
	// Clamp pins the output to the nearest range endpoint.
	Clamp Mode = iota
	// Extend continues the line past the endpoint.
	Extend
)

// Domain is the input span [Low, High]. Low must be strictly less than High.
type Domain struct {
	Low, High float64
}

// Range is the output span mapped from Domain. Low may exceed High (descending ramp).
type Range struct {
	Low, High float64
}

// Extrapolation holds the out-of-domain policy for each side independently.
type Extrapolation struct {
	Left, Right Mode
}

// ClampBoth is the policy used by every reveal and entrance ramp.
var ClampBoth = Extrapolation{Left: Clamp, Right: Clamp}

// Interpolate maps x from d onto r along a straight line.
// The output is exactly r.Low at d.Low and r.High at d.High.
func Interpolate(x float64, d Domain, r Range, ex Extrapolation) (float64, error) {
	if !(d.Low < d.High) {
		return 0, fmt.Errorf("%w: [%v, %v]", ErrInvalidDomain, d.Low, d.High)
	}

	if x <= d.Low {
		if x == d.Low || ex.Left == Clamp {
			return r.Low, nil
		}
	}
	if x >= d.High {
		if x == d.High || ex.Right == Clamp {
			return r.High, nil
		}
	}

	t := (x - d.Low) / (d.High - d.Low)
	return Lerp(r.Low, r.High, t), nil
}

// Progress is Interpolate onto [0, 1] with both sides clamped.
func Progress(x float64, d Domain) (float64, error) {
	return Interpolate(x, d, Range{Low: 0, High: 1}, ClampBoth)
}
