package core

import "math"

// BucketGrid partitions 3D space into cubic cells of a fixed edge length and
// records which item indices fall into each cell. Items are stored in
// row-major cell order (x fastest, then y, then z).
type BucketGrid struct {
	W, H, D int
	Cell    float64
	Origin  [3]float64

	start []int
	items []int
}

// NewBucketGrid buckets the provided positions into cells of edge length
// cell. A non-positive or non-finite cell yields a single cell.
func NewBucketGrid(positions [][3]float64, cell float64) *BucketGrid {
	if cell <= 0 || math.IsNaN(cell) || math.IsInf(cell, 0) {
		cell = math.Inf(1)
	}
	g := &BucketGrid{W: 1, H: 1, D: 1, Cell: cell}
	if len(positions) == 0 {
		g.start = make([]int, 2)
		return g
	}

	lo := positions[0]
	hi := positions[0]
	for _, p := range positions[1:] {
		for a := 0; a < 3; a++ {
			lo[a] = math.Min(lo[a], p[a])
			hi[a] = math.Max(hi[a], p[a])
		}
	}
	g.Origin = lo
	if !math.IsInf(cell, 1) {
		// Sparse inputs would allocate mostly empty cells; coarsen until the
		// grid is proportional to the item count. Cells never shrink below
		// the requested edge, so neighbourhood scans stay correct.
		limit := float64(max(1<<16, 8*len(positions)))
		for {
			w := math.Floor((hi[0]-lo[0])/g.Cell) + 1
			h := math.Floor((hi[1]-lo[1])/g.Cell) + 1
			d := math.Floor((hi[2]-lo[2])/g.Cell) + 1
			if w*h*d <= limit {
				g.W, g.H, g.D = int(w), int(h), int(d)
				break
			}
			g.Cell *= 2
		}
	}

	// Counting sort: one pass to size the buckets, one to fill them.
	cells := make([]int, len(positions))
	g.start = make([]int, g.W*g.H*g.D+1)
	for i, p := range positions {
		x, y, z := g.Coords(p)
		c := g.Index(x, y, z)
		cells[i] = c
		g.start[c+1]++
	}
	for c := 1; c < len(g.start); c++ {
		g.start[c] += g.start[c-1]
	}
	fill := append([]int(nil), g.start[:len(g.start)-1]...)
	g.items = make([]int, len(positions))
	for i, c := range cells {
		g.items[fill[c]] = i
		fill[c]++
	}
	return g
}

// Index returns the linear cell index for cell coordinates (x, y, z).
func (g *BucketGrid) Index(x, y, z int) int { return (z*g.H+y)*g.W + x }

// Coords returns the clamped cell coordinates containing p.
func (g *BucketGrid) Coords(p [3]float64) (int, int, int) {
	return g.axis(p[0]-g.Origin[0], g.W), g.axis(p[1]-g.Origin[1], g.H), g.axis(p[2]-g.Origin[2], g.D)
}

func (g *BucketGrid) axis(offset float64, n int) int {
	if math.IsInf(g.Cell, 1) {
		return 0
	}
	c := int(math.Floor(offset / g.Cell))
	if c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}

// Bucket returns the item indices stored in cell (x, y, z), or nil when the
// coordinates fall outside the grid. The slice must not be modified.
func (g *BucketGrid) Bucket(x, y, z int) []int {
	if x < 0 || y < 0 || z < 0 || x >= g.W || y >= g.H || z >= g.D {
		return nil
	}
	c := g.Index(x, y, z)
	return g.items[g.start[c]:g.start[c+1]]
}

// Len returns the number of bucketed items.
func (g *BucketGrid) Len() int { return len(g.items) }
