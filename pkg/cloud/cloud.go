// Package cloud holds the fixed-topology point cloud: positions, cell
// volumes and material tags are set once at generation time and only the
// temperature field changes afterwards.
package cloud

import (
	"errors"
	"fmt"

	"cupheat/pkg/geometry"
	"cupheat/pkg/material"
)

// ErrFieldSize is returned when a replacement temperature field does not
// match the number of points.
var ErrFieldSize = errors.New("temperature field size mismatch")

// Point is a read-only view of one sample.
type Point struct {
	Position    geometry.Vec3
	Temperature float64
	Material    material.Kind
	// Volume is the cell volume represented by the sample, in m³.
	Volume float64
}

// PointCloud stores samples as parallel arrays in generation order. Indices
// are stable for the cloud's lifetime.
type PointCloud struct {
	positions []geometry.Vec3
	volumes   []float64
	materials []material.Kind
	temps     []float64
	counts    [material.Count]int
	spacing   float64
}

// New returns an empty cloud sampled at the given spacing, with room for
// capacity points.
func New(spacing float64, capacity int) *PointCloud {
	if capacity < 0 {
		capacity = 0
	}
	return &PointCloud{
		positions: make([]geometry.Vec3, 0, capacity),
		volumes:   make([]float64, 0, capacity),
		materials: make([]material.Kind, 0, capacity),
		temps:     make([]float64, 0, capacity),
		spacing:   spacing,
	}
}

// Add appends a point and returns its index. Only generators call Add; the
// topology is treated as frozen once the cloud is handed to a solver.
func (c *PointCloud) Add(p Point) int {
	c.positions = append(c.positions, p.Position)
	c.volumes = append(c.volumes, p.Volume)
	c.materials = append(c.materials, p.Material)
	c.temps = append(c.temps, p.Temperature)
	if p.Material.Valid() {
		c.counts[p.Material]++
	}
	return len(c.positions) - 1
}

// Len returns the number of points.
func (c *PointCloud) Len() int { return len(c.positions) }

// Spacing returns the nominal sampling resolution in metres.
func (c *PointCloud) Spacing() float64 { return c.spacing }

// Point returns a copy of point i.
func (c *PointCloud) Point(i int) Point {
	return Point{
		Position:    c.positions[i],
		Temperature: c.temps[i],
		Material:    c.materials[i],
		Volume:      c.volumes[i],
	}
}

// Position returns the position of point i.
func (c *PointCloud) Position(i int) geometry.Vec3 { return c.positions[i] }

// Temperature returns the temperature of point i in kelvin.
func (c *PointCloud) Temperature(i int) float64 { return c.temps[i] }

// Material returns the material tag of point i.
func (c *PointCloud) Material(i int) material.Kind { return c.materials[i] }

// Volume returns the cell volume of point i.
func (c *PointCloud) Volume(i int) float64 { return c.volumes[i] }

// Count returns how many points carry material k.
func (c *PointCloud) Count(k material.Kind) int {
	if !k.Valid() {
		return 0
	}
	return c.counts[k]
}

// Positions returns the position array. Callers must not modify it.
func (c *PointCloud) Positions() []geometry.Vec3 { return c.positions }

// Volumes returns the volume array. Callers must not modify it.
func (c *PointCloud) Volumes() []float64 { return c.volumes }

// Materials returns the material array. Callers must not modify it.
func (c *PointCloud) Materials() []material.Kind { return c.materials }

// Field returns the live temperature array. It is only valid until the next
// SwapField and must not be modified.
func (c *PointCloud) Field() []float64 { return c.temps }

// Temperatures returns a copy of the temperature field.
func (c *PointCloud) Temperatures() []float64 {
	return append([]float64(nil), c.temps...)
}

// SwapField installs next as the temperature field and returns the previous
// array so the caller can reuse it as scratch space. This is the commit hook
// of the solver's double buffer.
func (c *PointCloud) SwapField(next []float64) ([]float64, error) {
	if len(next) != len(c.temps) {
		return nil, fmt.Errorf("%w: got %d values for %d points", ErrFieldSize, len(next), len(c.temps))
	}
	prev := c.temps
	c.temps = next
	return prev, nil
}

// Clone returns a deep copy of the cloud.
func (c *PointCloud) Clone() *PointCloud {
	return &PointCloud{
		positions: append([]geometry.Vec3(nil), c.positions...),
		volumes:   append([]float64(nil), c.volumes...),
		materials: append([]material.Kind(nil), c.materials...),
		temps:     append([]float64(nil), c.temps...),
		counts:    c.counts,
		spacing:   c.spacing,
	}
}
