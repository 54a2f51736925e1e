package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
)

// Image converts r to RGBA using palette.
func (r Raster) Image(palette []color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.W, r.H))
	fillPaletteRGBA(img.Pix, r.Cells, palette)
	return img
}

// WritePNG encodes r as a PNG scaled up by an integer factor.
func WritePNG(w io.Writer, r Raster, palette []color.RGBA, scale int) error {
	img := r.Image(palette)
	if scale > 1 {
		img = upscale(img, scale)
	}
	return png.Encode(w, img)
}

func upscale(src *image.RGBA, scale int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	for y := 0; y < dst.Bounds().Dy(); y++ {
		for x := 0; x < dst.Bounds().Dx(); x++ {
			dst.SetRGBA(x, y, src.RGBAAt(x/scale, y/scale))
		}
	}
	return dst
}
