package types

import "image/color"

// NormalizedScale is the fixed coordinate range used by model responses.
// Values are in [0, NormalizedScale] regardless of image resolution.
const NormalizedScale = 1000.0

// Detection is either a Point or a Box.
type Detection interface {
	// Text returns the label and whether one was present.
	Text() (string, bool)
	detection()
}

// Point is a single location given as (y, x) in normalized coordinates
type Point struct {
	Y        float64 `json:"y"`
	X        float64 `json:"x"`
	Label    string  `json:"label,omitempty"`
	HasLabel bool    `json:"-"`
}

// Box is a bounding box given as (ymin, xmin, ymax, xmax) in normalized coordinates
type Box struct {
	YMin     float64 `json:"ymin"`
	XMin     float64 `json:"xmin"`
	YMax     float64 `json:"ymax"`
	XMax     float64 `json:"xmax"`
	Label    string  `json:"label,omitempty"`
	HasLabel bool    `json:"-"`
}

func (p Point) Text() (string, bool) { return p.Label, p.HasLabel }
func (b Box) Text() (string, bool)   { return b.Label, b.HasLabel }

func (Point) detection() {}
func (Box) detection()   {}

// DetectionSet is an ordered, read-only sequence of detections parsed from one response.
type DetectionSet struct {
	items []Detection
}

// NewDetectionSet copies items into a new set.
func NewDetectionSet(items []Detection) DetectionSet {
	cp := make([]Detection, len(items))
	copy(cp, items)
	return DetectionSet{items: cp}
}

// Len returns the number of detections
func (s DetectionSet) Len() int { return len(s.items) }

// At returns the i-th detection in source order
func (s DetectionSet) At(i int) Detection { return s.items[i] }

// All returns a copy of the detections in source order
func (s DetectionSet) All() []Detection {
	cp := make([]Detection, len(s.items))
	copy(cp, s.items)
	return cp
}

// Points returns the number of point detections
func (s DetectionSet) Points() int {
	n := 0
	for _, d := range s.items {
		if _, ok := d.(Point); ok {
			n++
		}
	}
	return n
}

// Boxes returns the number of box detections
func (s DetectionSet) Boxes() int {
	n := 0
	for _, d := range s.items {
		if _, ok := d.(Box); ok {
			n++
		}
	}
	return n
}

// Style controls how detections are drawn
type Style struct {
	PointRadius       int
	PointFill         color.NRGBA
	PointOutline      color.NRGBA
	PointOutlineWidth int
	PointLabel        color.NRGBA
	// Label offset from the point center, top-left of the text
	PointLabelDX int
	PointLabelDY int

	BoxStroke      color.NRGBA
	BoxStrokeWidth int
	BoxLabel       color.NRGBA
	// Label offset from the box top-left corner, top-left of the text
	BoxLabelDX int
	BoxLabelDY int
}

// DefaultStyle returns the stock marker style: red dots with a white rim, red boxes.
func DefaultStyle() Style {
	return Style{
		PointRadius:       10,
		PointFill:         color.NRGBA{255, 0, 0, 255},
		PointOutline:      color.NRGBA{255, 255, 255, 255},
		PointOutlineWidth: 2,
		PointLabel:        color.NRGBA{255, 255, 255, 255},
		PointLabelDX:      15,
		PointLabelDY:      -10,

		BoxStroke:      color.NRGBA{255, 0, 0, 255},
		BoxStrokeWidth: 3,
		BoxLabel:       color.NRGBA{255, 0, 0, 255},
		BoxLabelDX:     0,
		BoxLabelDY:     -15,
	}
}
