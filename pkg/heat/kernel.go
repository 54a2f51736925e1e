package heat

import "math"

// DefaultSmoothingFactor is the ratio of smoothing length to point spacing.
const DefaultSmoothingFactor = 1.0

// kernel is the cubic-spline (M4) smoothing kernel in three dimensions with
// support 2h.
type kernel struct {
	h     float64
	scale float64 // σ/h⁴ with σ = 1/π
}

func newKernel(h float64) kernel {
	return kernel{h: h, scale: 1 / (math.Pi * h * h * h * h)}
}

// support returns the interaction radius.
func (k kernel) support() float64 { return 2 * k.h }

// slope returns -dW/dr at distance d. It is positive inside the support and
// zero outside.
func (k kernel) slope(d float64) float64 {
	q := d / k.h
	switch {
	case q < 1:
		return k.scale * (3*q - 2.25*q*q)
	case q < 2:
		u := 2 - q
		return k.scale * 0.75 * u * u
	default:
		return 0
	}
}

// laplacianWeight returns the Brookshaw pair weight 2·V_j·F(d)/d for a
// neighbour of volume vj at distance d.
func (k kernel) laplacianWeight(vj, d float64) float64 {
	if d <= 0 {
		return 0
	}
	return 2 * vj * k.slope(d) / d
}
