package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// All primitives clip against the image bounds, so callers may pass
// coordinates that are partly or fully off-canvas.

func drawRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA, stroke int) {
	// past half the short side the stroke covers the whole rectangle
	if half := (min(r.Dx(), r.Dy()) + 1) / 2; stroke > half {
		stroke = half
	}
	for s := 0; s < stroke; s++ {
		drawHLine(img, r.Min.Y+s, r.Min.X, r.Max.X, c)
		drawHLine(img, r.Max.Y-1-s, r.Min.X, r.Max.X, c)
		drawVLine(img, r.Min.X+s, r.Min.Y, r.Max.Y, c)
		drawVLine(img, r.Max.X-1-s, r.Min.Y, r.Max.Y, c)
	}
}

// fillCircle paints a disc of the given radius; the outer rim of width
// outlineWidth uses outline, the rest uses fill.
func fillCircle(img *image.NRGBA, cx, cy, radius int, fill, outline color.NRGBA, outlineWidth int) {
	if radius <= 0 {
		setPixel(img, cx, cy, fill)
		return
	}
	outer := radius * radius
	inner := -1
	if ri := radius - outlineWidth; ri >= 0 {
		inner = ri * ri
	}
	if outlineWidth <= 0 {
		inner = outer
	}

	b := img.Bounds().Intersect(image.Rect(cx-radius, cy-radius, cx+radius+1, cy+radius+1))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx, dy := x-cx, y-cy
			d := dx*dx + dy*dy
			if d > outer {
				continue
			}
			if d > inner {
				setPixel(img, x, y, outline)
			} else {
				setPixel(img, x, y, fill)
			}
		}
	}
}

// drawText writes s with its top-left corner at (x, y)
func drawText(img *image.NRGBA, face font.Face, x, y int, s string, c color.NRGBA) {
	if s == "" {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

func setPixel(img *image.NRGBA, x, y int, c color.NRGBA) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	i := img.PixOffset(x, y)
	img.Pix[i+0] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
	img.Pix[i+3] = c.A
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	b := img.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= b.Min.X || x0 >= b.Max.X {
		return
	}
	if x0 < b.Min.X {
		x0 = b.Min.X
	}
	if x1 > b.Max.X {
		x1 = b.Max.X
	}
	i := img.PixOffset(x0, y)
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= b.Min.Y || y0 >= b.Max.Y {
		return
	}
	if y0 < b.Min.Y {
		y0 = b.Min.Y
	}
	if y1 > b.Max.Y {
		y1 = b.Max.Y
	}
	i := img.PixOffset(x, y0)
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
