package render

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"testing"

	"cupheat/pkg/cloud"
	"cupheat/pkg/cup"
	"cupheat/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioCloud(t *testing.T) *cloud.PointCloud {
	t.Helper()
	p := geometry.DefaultParameters()
	p.PointSpacing = 0.01
	c, err := cup.Generate(p)
	require.NoError(t, err)
	return c
}

func TestHeatPaletteRunsBlueToRed(t *testing.T) {
	pal := HeatPalette(4)
	require.Len(t, pal, 5)
	assert.Equal(t, Background, pal[0])
	cold, hot := pal[1], pal[4]
	assert.Greater(t, cold.B, cold.R)
	assert.Greater(t, hot.R, hot.B)
	for _, c := range pal {
		assert.Equal(t, uint8(255), c.A)
	}
	assert.Len(t, HeatPalette(0), 3)
}

func TestQuantize(t *testing.T) {
	assert.Equal(t, uint8(1), Quantize(290, 290, 370, 8))
	assert.Equal(t, uint8(8), Quantize(370, 290, 370, 8))
	assert.Equal(t, uint8(1), Quantize(200, 290, 370, 8))
	assert.Equal(t, uint8(8), Quantize(400, 290, 370, 8))
	assert.Equal(t, uint8(1), Quantize(math.NaN(), 290, 370, 8))
	assert.Equal(t, uint8(1), Quantize(300, 300, 300, 8))
	assert.Equal(t, uint8(0), Quantize(300, 290, 370, 0))
	assert.Equal(t, uint8(255), Quantize(1, 0, 1, 1000))
}

func TestSectionShowsHotCoffeeAndColdAir(t *testing.T) {
	c := scenarioCloud(t)
	const levels = 16
	ras := Section(c, c.Temperatures(), SectionOptions{Width: 120, Levels: levels})
	require.Equal(t, 120, ras.W)
	require.Equal(t, 93, ras.H)
	require.Len(t, ras.Cells, ras.W*ras.H)
	assert.Equal(t, 293.15, ras.Min)
	assert.Equal(t, 363.15, ras.Max)

	bottomCentre := ras.Cells[(ras.H-1)*ras.W+ras.W/2]
	topCorner := ras.Cells[0]
	assert.Equal(t, uint8(levels), bottomCentre)
	assert.Equal(t, uint8(1), topCorner)

	for y := 0; y < ras.H; y++ {
		for x := 0; x < ras.W/2; x++ {
			assert.Equal(t, ras.Cells[y*ras.W+x], ras.Cells[y*ras.W+ras.W-1-x], "mirror symmetry at %d,%d", x, y)
		}
	}
}

func TestSectionMapRendersFixedRange(t *testing.T) {
	c := scenarioCloud(t)
	m := NewSectionMap(c, 60)
	assert.Greater(t, m.Covered(), m.W*m.H/2)

	temps := c.Temperatures()
	ras := m.Render(temps, SectionOptions{Min: 200, Max: 400, Levels: 3})
	assert.Equal(t, 200.0, ras.Min)
	for _, v := range ras.Cells {
		assert.LessOrEqual(t, v, uint8(3))
	}
}

func TestImageAndPNG(t *testing.T) {
	ras := Raster{W: 2, H: 1, Cells: []uint8{0, 2}}
	pal := []color.RGBA{{A: 0}, {R: 1, A: 255}, {R: 200, G: 10, B: 20, A: 255}}
	img := ras.Image(pal)
	assert.Equal(t, color.RGBA{R: 200, G: 10, B: 20, A: 255}, img.RGBAAt(1, 0))

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, ras, pal, 3))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 6, decoded.Bounds().Dx())
	assert.Equal(t, 3, decoded.Bounds().Dy())
	r, _, _, _ := decoded.At(5, 2).RGBA()
	assert.Equal(t, uint32(200), r>>8)
}

func TestFillPaletteRGBA(t *testing.T) {
	buf := []byte{9, 9, 9, 9, 9, 9, 9, 9}
	fillPaletteRGBA(buf, []uint8{0, 1}, nil)
	assert.Equal(t, make([]byte, 8), buf)

	pal := []color.RGBA{{R: 1, G: 2, B: 3, A: 4}, {R: 5, G: 6, B: 7, A: 8}}
	fillPaletteRGBA(buf, []uint8{7, 0}, pal)
	assert.Equal(t, []byte{5, 6, 7, 8, 1, 2, 3, 4}, buf)
}
