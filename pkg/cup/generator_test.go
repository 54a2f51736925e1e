package cup

import (
	"math"
	"testing"

	"cupheat/pkg/geometry"
	"cupheat/pkg/material"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenario() geometry.Parameters {
	p := geometry.DefaultParameters()
	p.PointSpacing = 0.01
	p.CoffeeTemperature = 363.15
	p.CupTemperature = 293.15
	p.AirTemperature = 293.15
	return p
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := Generate(scenario())
	require.NoError(t, err)
	b, err := Generate(scenario())
	require.NoError(t, err)
	require.Equal(t, a.Len(), b.Len())
	assert.Equal(t, a.Positions(), b.Positions())
	assert.Equal(t, a.Materials(), b.Materials())
	assert.Equal(t, a.Volumes(), b.Volumes())
}

func TestGenerateScenarioCounts(t *testing.T) {
	c, err := Generate(scenario())
	require.NoError(t, err)
	assert.Equal(t, 1125, c.Len())
	assert.Equal(t, 336, c.Count(material.Coffee))
	assert.Equal(t, 207, c.Count(material.CupMaterial))
	assert.Equal(t, 582, c.Count(material.Air))
}

func TestGenerateClassifiesAndInitialises(t *testing.T) {
	p := scenario()
	c, err := Generate(p)
	require.NoError(t, err)
	for i := 0; i < c.Len(); i++ {
		pt := c.Point(i)
		require.True(t, p.Contains(pt.Position), "point %d outside bounding cylinder", i)
		assert.Equal(t, p.Classify(pt.Position.Radial(), pt.Position.Z), pt.Material, "point %d", i)
		assert.Equal(t, p.Temperature(pt.Material), pt.Temperature)
		assert.Greater(t, pt.Volume, 0.0)
	}
}

func TestGenerateVolumesTileBoundingCylinder(t *testing.T) {
	p := scenario()
	c, err := Generate(p)
	require.NoError(t, err)

	var total float64
	var perKind [material.Count]float64
	for i := 0; i < c.Len(); i++ {
		total += c.Volume(i)
		perKind[c.Material(i)] += c.Volume(i)
	}
	r := p.BoundingRadius()
	assert.InEpsilon(t, math.Pi*r*r*p.Height, total, 1e-9)
	assert.InEpsilon(t, math.Pi*p.InnerRadius*p.InnerRadius*p.CoffeeHeight, perKind[material.Coffee], 1e-9)
	ro := p.OuterRadius()
	wall := math.Pi * (ro*ro - p.InnerRadius*p.InnerRadius) * p.Height
	assert.InEpsilon(t, wall, perKind[material.CupMaterial], 1e-9)
}

func TestGeneratePositionsAreUnique(t *testing.T) {
	c, err := Generate(geometry.DefaultParameters())
	require.NoError(t, err)
	seen := make(map[geometry.Vec3]int, c.Len())
	for i, pos := range c.Positions() {
		j, dup := seen[pos]
		require.False(t, dup, "points %d and %d share %v", j, i, pos)
		seen[pos] = i
	}
}

func TestGenerateOrdersByHeightThenRadius(t *testing.T) {
	c, err := Generate(scenario())
	require.NoError(t, err)
	pos := c.Positions()
	for i := 1; i < len(pos); i++ {
		prev, cur := pos[i-1], pos[i]
		if cur.Z == prev.Z {
			assert.GreaterOrEqual(t, cur.Radial(), prev.Radial()-1e-12, "point %d", i)
		} else {
			assert.Greater(t, cur.Z, prev.Z, "point %d", i)
		}
	}
	assert.Equal(t, geometry.Vec3{Z: pos[0].Z}, pos[0], "first sample lies on the axis")
}

func TestGenerateFullCupHasNoHeadspace(t *testing.T) {
	p := scenario()
	p.CoffeeHeight = p.Height
	c, err := Generate(p)
	require.NoError(t, err)
	for i := 0; i < c.Len(); i++ {
		if c.Position(i).Radial() < p.InnerRadius {
			assert.Equal(t, material.Coffee, c.Material(i))
		}
	}
}

func TestGenerateRejectsDegenerateGeometry(t *testing.T) {
	cases := map[string]func(*geometry.Parameters){
		"zero wall":          func(p *geometry.Parameters) { p.WallThickness = 0 },
		"zero spacing":       func(p *geometry.Parameters) { p.PointSpacing = 0 },
		"negative radius":    func(p *geometry.Parameters) { p.InnerRadius = -0.01 },
		"overfilled":         func(p *geometry.Parameters) { p.CoffeeHeight = p.Height * 2 },
		"unresolvable wall":  func(p *geometry.Parameters) { p.PointSpacing = p.WallThickness * 20 },
		"non-finite spacing": func(p *geometry.Parameters) { p.PointSpacing = math.NaN() },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := scenario()
			mutate(&p)
			c, err := Generate(p)
			assert.ErrorIs(t, err, geometry.ErrInvalidParameters)
			assert.Nil(t, c)
		})
	}
}

func TestGenerateRejectsHugeClouds(t *testing.T) {
	p := scenario()
	p.PointSpacing = 0.0004
	_, err := Generate(p)
	assert.ErrorIs(t, err, ErrTooManyPoints)
}

func TestStratify(t *testing.T) {
	layers := stratify(0, 0.003, 0.01)
	require.Len(t, layers, 1)
	assert.Equal(t, layer{centre: 0.0015, lo: 0, hi: 0.003}, layers[0])

	layers = stratify(1, 2, 0.25)
	require.Len(t, layers, 4)
	assert.InDelta(t, 1.125, layers[0].centre, 1e-15)
	assert.Equal(t, 2.0, layers[3].hi)

	assert.Equal(t, 1, ringSize(0, 0.01))
	assert.Equal(t, 1, ringSize(0.001, 0.01))
	assert.Equal(t, 22, ringSize(0.035, 0.01))
}
