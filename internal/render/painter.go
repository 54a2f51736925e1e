//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// SectionPainter uploads rasters into a single ebiten image.
type SectionPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewSectionPainter allocates a painter for w*h rasters.
func NewSectionPainter(w, h int) *SectionPainter {
	return &SectionPainter{w: w, h: h, img: ebiten.NewImage(w, h), buf: make([]byte, 4*w*h)}
}

// Blit uploads r and draws it scaled at the origin of dst.
func (sp *SectionPainter) Blit(dst *ebiten.Image, r Raster, palette []color.RGBA, scale int) {
	if r.W != sp.w || r.H != sp.h {
		return
	}
	fillPaletteRGBA(sp.buf, r.Cells, palette)
	sp.img.WritePixels(sp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(sp.img, op)
}

// Size returns the dimensions of the underlying image.
func (sp *SectionPainter) Size() (int, int) { return sp.w, sp.h }
