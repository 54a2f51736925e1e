package heat

import (
	"fmt"

	"cupheat/pkg/material"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary is a consistent view of the field's aggregates at one instant. The
// average of a material without points is NaN.
type Summary struct {
	Time    float64
	Steps   uint64
	Average [material.Count]float64
	Min     float64
	Max     float64
	Energy  float64
}

// AverageTemperature returns the arithmetic mean temperature of the points
// carrying material k.
func (s *Solver) AverageTemperature(k material.Kind) (float64, error) {
	if !k.Valid() || s.cloud.Count(k) == 0 {
		return 0, fmt.Errorf("%w: %d", ErrNoSuchMaterial, k)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.average(k, false), nil
}

// VolumeAverageTemperature returns the cell-volume weighted mean temperature
// of material k, the quantity a calorimeter would measure.
func (s *Solver) VolumeAverageTemperature(k material.Kind) (float64, error) {
	if !k.Valid() || s.cloud.Count(k) == 0 {
		return 0, fmt.Errorf("%w: %d", ErrNoSuchMaterial, k)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.average(k, true), nil
}

func (s *Solver) average(k material.Kind, weighted bool) float64 {
	field := s.cloud.Field()
	mats := s.cloud.Materials()
	vols := s.cloud.Volumes()
	values := make([]float64, 0, s.cloud.Count(k))
	var weights []float64
	if weighted {
		weights = make([]float64, 0, cap(values))
	}
	for i, m := range mats {
		if m != k {
			continue
		}
		values = append(values, field[i])
		if weighted {
			weights = append(weights, vols[i])
		}
	}
	return stat.Mean(values, weights)
}

// MaxTemperature returns the highest temperature in the cloud.
func (s *Solver) MaxTemperature() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return floats.Max(s.cloud.Field())
}

// MinTemperature returns the lowest temperature in the cloud.
func (s *Solver) MinTemperature() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return floats.Min(s.cloud.Field())
}

// Energy returns Σ ρ c V T over all points in joules relative to 0 K. It
// changes only by rounding from step to step.
func (s *Solver) Energy() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return floats.Dot(s.disc.stencil.capacity, s.cloud.Field())
}

// Summary returns every aggregate under a single read lock.
func (s *Solver) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	field := s.cloud.Field()
	sum := Summary{
		Time:   s.currentTime(),
		Steps:  s.steps,
		Min:    floats.Min(field),
		Max:    floats.Max(field),
		Energy: floats.Dot(s.disc.stencil.capacity, field),
	}
	for _, k := range material.Kinds {
		sum.Average[k] = s.average(k, false)
	}
	return sum
}
