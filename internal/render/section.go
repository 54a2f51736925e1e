// Package render rasterises the vertical cross-section of a cup for the
// viewer and for PNG export.
package render

import (
	"math"

	"cupheat/pkg/geometry"
)

// Layout is the read-only point geometry a section is cut from. Both
// *cloud.PointCloud and *heat.Solver satisfy it.
type Layout interface {
	Len() int
	Spacing() float64
	Position(i int) geometry.Vec3
}

// SectionOptions controls how temperatures are coloured.
type SectionOptions struct {
	// Width is the raster width in pixels; the height follows the cloud's
	// aspect ratio.
	Width int
	// Min and Max fix the colour range in kelvin. When Max <= Min the range
	// of the sectioned samples is used.
	Min, Max float64
	// Levels is the number of palette colours.
	Levels int
}

// DefaultSectionOptions returns a 240 pixel wide, 64 level raster.
func DefaultSectionOptions() SectionOptions {
	return SectionOptions{Width: 240, Levels: 64}
}

// Raster holds palette indices row-major with row 0 at the top.
type Raster struct {
	W, H  int
	Cells []uint8
	// Min and Max are the temperatures mapped to the first and last level.
	Min, Max float64
}

// SectionMap assigns every pixel of the x-z plane through the cup axis to
// the nearest sample in (radius, height) among the points lying within half
// a spacing of the plane, provided one is closer than a spacing. The cloud
// topology is fixed, so a map is built once and rendered many times.
type SectionMap struct {
	W, H  int
	pixel []int32
	// used lists the distinct sample indices that own at least one pixel.
	used []int
}

// NewSectionMap builds the pixel map of c for a raster width pixels wide.
func NewSectionMap(c Layout, width int) *SectionMap {
	width = max(width, 2)
	spacing := c.Spacing()
	half := spacing / 2

	var slice []int
	rMax, zMax := 0.0, 0.0
	for i := 0; i < c.Len(); i++ {
		p := c.Position(i)
		rMax = math.Max(rMax, p.Radial())
		zMax = math.Max(zMax, p.Z)
		if math.Abs(p.Y) <= half {
			slice = append(slice, i)
		}
	}
	rMax += half
	zMax += half

	h := max(1, int(math.Round(float64(width)*zMax/(2*rMax))))
	m := &SectionMap{W: width, H: h, pixel: make([]int32, width*h)}
	for i := range m.pixel {
		m.pixel[i] = -1
	}
	if len(slice) == 0 || rMax == 0 {
		return m
	}

	px := 2 * rMax / float64(width)
	owned := make(map[int]bool)
	for y := 0; y < h; y++ {
		z := zMax - (float64(y)+0.5)*px
		for x := 0; x < width; x++ {
			r := math.Abs(float64(2*x+1-width)) * px / 2
			best, bestD := -1, spacing*spacing
			for _, i := range slice {
				p := c.Position(i)
				dr, dz := p.Radial()-r, p.Z-z
				if d := dr*dr + dz*dz; d < bestD {
					best, bestD = i, d
				}
			}
			if best >= 0 {
				m.pixel[y*width+x] = int32(best)
				if !owned[best] {
					owned[best] = true
					m.used = append(m.used, best)
				}
			}
		}
	}
	return m
}

// Covered returns how many pixels show a sample.
func (m *SectionMap) Covered() int {
	n := 0
	for _, p := range m.pixel {
		if p >= 0 {
			n++
		}
	}
	return n
}

// Render colours the map with temps, which must be indexed like the cloud
// the map was built from.
func (m *SectionMap) Render(temps []float64, opts SectionOptions) Raster {
	if opts.Levels < 1 {
		opts.Levels = 64
	}
	lo, hi := opts.Min, opts.Max
	if hi <= lo && len(m.used) > 0 {
		lo, hi = temps[m.used[0]], temps[m.used[0]]
		for _, i := range m.used {
			lo = math.Min(lo, temps[i])
			hi = math.Max(hi, temps[i])
		}
	}
	ras := Raster{W: m.W, H: m.H, Cells: make([]uint8, len(m.pixel)), Min: lo, Max: hi}
	for i, p := range m.pixel {
		if p >= 0 {
			ras.Cells[i] = Quantize(temps[p], lo, hi, opts.Levels)
		}
	}
	return ras
}

// Section builds a map for c and renders temps in one call.
func Section(c Layout, temps []float64, opts SectionOptions) Raster {
	return NewSectionMap(c, opts.Width).Render(temps, opts)
}
