// Package neighbor builds the radius adjacency of a point cloud with a
// uniform bucket grid, avoiding the quadratic all-pairs scan.
package neighbor

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"cupheat/internal/core"
	"cupheat/pkg/geometry"
)

// ErrInvalidRadius is returned for a non-positive or non-finite radius.
var ErrInvalidRadius = errors.New("invalid interaction radius")

// Neighbor is one entry of a point's adjacency list.
type Neighbor struct {
	Index    int
	Distance float64
}

// Index maps each point to the other points strictly closer than Radius.
// The relation is symmetric and immutable once built.
type Index struct {
	radius  float64
	offsets []int
	entries []Neighbor
}

// Stats summarises the degree distribution of an index.
type Stats struct {
	Points    int
	Edges     int
	MinDegree int
	MaxDegree int
	Mean      float64
	Isolated  int
}

// Build returns the radius adjacency of positions. Pairs at exactly radius
// are excluded (half-open interval), so the relation is symmetric.
func Build(positions []geometry.Vec3, radius float64) (*Index, error) {
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidRadius, radius)
	}
	coords := make([][3]float64, len(positions))
	for i, p := range positions {
		coords[i] = p.Array()
	}
	grid := core.NewBucketGrid(coords, radius)

	idx := &Index{radius: radius, offsets: make([]int, len(positions)+1)}
	var scratch []Neighbor
	for i, p := range positions {
		scratch = scratch[:0]
		cx, cy, cz := grid.Coords(coords[i])
		for dz := -1; dz <= 1; dz++ {
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					for _, j := range grid.Bucket(cx+dx, cy+dy, cz+dz) {
						if j == i {
							continue
						}
						if d := p.Dist(positions[j]); d < radius {
							scratch = append(scratch, Neighbor{Index: j, Distance: d})
						}
					}
				}
			}
		}
		sort.Slice(scratch, func(a, b int) bool { return scratch[a].Index < scratch[b].Index })
		idx.entries = append(idx.entries, scratch...)
		idx.offsets[i+1] = len(idx.entries)
	}
	return idx, nil
}

// Radius returns the interaction radius.
func (x *Index) Radius() float64 { return x.radius }

// Len returns the number of indexed points.
func (x *Index) Len() int { return len(x.offsets) - 1 }

// Neighbors returns the adjacency of point i sorted by neighbour index. The
// slice is shared and must not be modified.
func (x *Index) Neighbors(i int) []Neighbor {
	return x.entries[x.offsets[i]:x.offsets[i+1]]
}

// Degree returns the number of neighbours of point i.
func (x *Index) Degree(i int) int { return x.offsets[i+1] - x.offsets[i] }

// Stats returns the degree distribution.
func (x *Index) Stats() Stats {
	s := Stats{Points: x.Len(), Edges: len(x.entries) / 2}
	if s.Points == 0 {
		return s
	}
	s.MinDegree = math.MaxInt
	for i := 0; i < s.Points; i++ {
		d := x.Degree(i)
		s.MinDegree = min(s.MinDegree, d)
		s.MaxDegree = max(s.MaxDegree, d)
		if d == 0 {
			s.Isolated++
		}
	}
	s.Mean = float64(len(x.entries)) / float64(s.Points)
	return s
}
