// Package render draws point and box detections onto a canvas.
//
// Coordinates arrive in the normalized 0-1000 space and are projected onto
// the canvas with round(v / 1000 * dimension). Points become filled discs,
// boxes become outlines drawn inward from their edges, and labels are written
// with a fixed bitmap face. Nothing here touches the filesystem.
package render

import (
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/menta2k/spatial-annotator/pkg/canvas"
	"github.com/menta2k/spatial-annotator/pkg/types"
)

// maxCoord bounds projected coordinates so wild model output cannot overflow
// pixel or fixed-point arithmetic.
const maxCoord = 1 << 22

// Renderer draws detections with a fixed style
type Renderer struct {
	style types.Style
	face  font.Face
}

// Result counts what a render pass drew
type Result struct {
	Drawn  int `json:"drawn"`
	Points int `json:"points"`
	Boxes  int `json:"boxes"`
	Labels int `json:"labels"`
}

// New creates a Renderer with the default style
func New() *Renderer {
	return NewWithStyle(types.DefaultStyle())
}

// NewWithStyle creates a Renderer with a custom style
func NewWithStyle(style types.Style) *Renderer {
	return &Renderer{style: style, face: basicfont.Face7x13}
}

// Style returns the renderer's style
func (r *Renderer) Style() types.Style {
	return r.style
}

// Render draws every detection in set onto c, in order. Later detections
// paint over earlier ones.
func (r *Renderer) Render(c *canvas.Canvas, set types.DetectionSet) Result {
	var res Result
	for i := 0; i < set.Len(); i++ {
		switch d := set.At(i).(type) {
		case types.Point:
			if r.drawPoint(c, d) {
				res.Labels++
			}
			res.Points++
		case types.Box:
			if r.drawBox(c, d) {
				res.Labels++
			}
			res.Boxes++
		default:
			continue
		}
		res.Drawn++
	}
	return res
}

func (r *Renderer) drawPoint(c *canvas.Canvas, p types.Point) bool {
	s := r.style
	center := PointCenter(p, c.Width, c.Height)
	fillCircle(c.Image, center.X, center.Y, s.PointRadius, s.PointFill, s.PointOutline, s.PointOutlineWidth)

	if p.HasLabel && p.Label != "" {
		drawText(c.Image, r.face, center.X+s.PointLabelDX, center.Y+s.PointLabelDY, p.Label, s.PointLabel)
		return true
	}
	return false
}

func (r *Renderer) drawBox(c *canvas.Canvas, b types.Box) bool {
	s := r.style
	rect := BoxRect(b, c.Width, c.Height)
	drawRect(c.Image, rect, s.BoxStroke, s.BoxStrokeWidth)

	if b.HasLabel && b.Label != "" {
		drawText(c.Image, r.face, rect.Min.X+s.BoxLabelDX, rect.Min.Y+s.BoxLabelDY, b.Label, s.BoxLabel)
		return true
	}
	return false
}

// ToPixel maps a normalized coordinate onto a dimension of dim pixels
func ToPixel(v float64, dim int) int {
	p := math.Round(v / types.NormalizedScale * float64(dim))
	if math.IsNaN(p) {
		return 0
	}
	if p > maxCoord {
		return maxCoord
	}
	if p < -maxCoord {
		return -maxCoord
	}
	return int(p)
}

// PointCenter returns the pixel center of p on a w x h canvas
func PointCenter(p types.Point, w, h int) image.Point {
	return image.Pt(ToPixel(p.X, w), ToPixel(p.Y, h))
}

// BoxRect returns the pixel rectangle of b on a w x h canvas. Swapped
// corners are put back in order and a zero-width or zero-height box still
// covers one pixel row or column.
//
// The rectangle is half-open like any image.Rectangle: the box
// [100, 100, 200, 200] on a 1000x1000 canvas covers pixels 100 through 199,
// not 200. The stroke is drawn inward from these edges.
func BoxRect(b types.Box, w, h int) image.Rectangle {
	rect := image.Rect(ToPixel(b.XMin, w), ToPixel(b.YMin, h), ToPixel(b.XMax, w), ToPixel(b.YMax, h))
	if rect.Dx() == 0 {
		rect.Max.X++
	}
	if rect.Dy() == 0 {
		rect.Max.Y++
	}
	return rect
}
