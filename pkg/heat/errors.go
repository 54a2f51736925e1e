package heat

import (
	"errors"

	"cupheat/pkg/cup"
	"cupheat/pkg/geometry"
	"cupheat/pkg/material"
	"cupheat/pkg/neighbor"
)

var (
	// ErrEmptyCloud is returned when a solver is built over a nil or empty cloud.
	ErrEmptyCloud = errors.New("point cloud is empty")
	// ErrInvalidTimeStep is returned for a non-positive or non-finite dt.
	ErrInvalidTimeStep = errors.New("invalid time step")
	// ErrUnstableTimeStep is returned when dt exceeds the explicit stability bound.
	ErrUnstableTimeStep = errors.New("time step exceeds stability bound")
	// ErrIsolatedPoint is returned when a point has no neighbour within the
	// interaction radius and so cannot exchange heat.
	ErrIsolatedPoint = errors.New("point has no neighbours")
	// ErrUncoupledRegion is returned when a material region has no neighbour
	// of another material, typically because the spacing is too coarse for
	// the geometry.
	ErrUncoupledRegion = errors.New("material region is not coupled to the rest of the cloud")
	// ErrNoSuchMaterial is returned by aggregate queries for an unknown material.
	ErrNoSuchMaterial = errors.New("no such material")
	// ErrNegativeSteps is returned by Run for a negative step count.
	ErrNegativeSteps = errors.New("negative step count")
	// ErrDivergence reports an internal defect: a step produced a value that
	// is not finite or escapes the previous field's range. The field is left
	// unchanged when it is returned.
	ErrDivergence = errors.New("numerical divergence")
)

var configErrors = []error{
	ErrEmptyCloud,
	ErrInvalidTimeStep,
	ErrUnstableTimeStep,
	ErrIsolatedPoint,
	ErrUncoupledRegion,
	neighbor.ErrInvalidRadius,
	material.ErrInvalidMaterial,
	material.ErrTableSize,
	geometry.ErrInvalidParameters,
	cup.ErrSparseRegion,
	cup.ErrTooManyPoints,
}

// IsConfigurationError reports whether err stems from invalid inputs, as
// opposed to a numerical defect detected while stepping.
func IsConfigurationError(err error) bool {
	for _, target := range configErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
