// Package annotator turns the spatial answers of vision models into annotated
// images.
//
// Robotics-oriented vision models answer "where is X?" questions with a JSON
// list of points or boxes in a normalized 0-1000 coordinate space, usually
// wrapped in prose and a ```json fence:
//
//	[{"point": [y, x], "label": "cup"}]
//	[{"box_2d": [ymin, xmin, ymax, xmax], "label": "robot arm"}]
//
// Basic usage:
//
//	package main
//
//	import (
//		"errors"
//		"log"
//
//		annotator "github.com/menta2k/spatial-annotator"
//		"github.com/menta2k/spatial-annotator/pkg/output"
//	)
//
//	func main() {
//		a := annotator.New()
//
//		res, err := a.AnnotateFile(modelAnswer, "robot_view.jpg",
//			output.FileSink{Path: "output_perception.jpg"})
//		if errors.Is(err, annotator.ErrCanvasLoad) {
//			log.Fatal(err)
//		}
//		if res.Skipped {
//			log.Printf("nothing to draw: %v", res.Reason)
//		}
//	}
//
// The work is split into three stages that can also be used on their own:
//
// 1. Extract (pkg/extract): finds the JSON array in the response text
// 2. Detection (pkg/detection): classifies records into points and boxes
// 3. Render (pkg/render): projects coordinates and draws markers and labels
//
// Canvases are loaded by pkg/canvas and persisted through the sinks in
// pkg/output. A response without a usable array is not an error: the result
// is marked Skipped and nothing is drawn.
package annotator

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/menta2k/spatial-annotator/pkg/canvas"
	"github.com/menta2k/spatial-annotator/pkg/detection"
	"github.com/menta2k/spatial-annotator/pkg/extract"
	"github.com/menta2k/spatial-annotator/pkg/output"
	"github.com/menta2k/spatial-annotator/pkg/render"
	"github.com/menta2k/spatial-annotator/pkg/types"
)

// Version of the annotator library
const Version = "1.0.0"

var (
	// ErrParse matches responses that carry no JSON array
	ErrParse = extract.ErrParse
	// ErrCanvasLoad matches source images that could not be opened
	ErrCanvasLoad = canvas.ErrLoad
)

// Annotator provides a high-level interface for parsing responses and drawing them
type Annotator struct {
	loader   *canvas.Loader
	renderer *render.Renderer
	logger   *zap.Logger
}

// Result describes one annotation pass
type Result struct {
	Detections types.DetectionSet `json:"-"`
	Stats      detection.Stats    `json:"stats"`
	Render     render.Result      `json:"render"`
	// Canvas is the annotated image, nil when the pass was skipped
	Canvas *canvas.Canvas `json:"-"`
	// Skipped is set when the response held nothing to draw; Reason says why
	Skipped bool  `json:"skipped"`
	Reason  error `json:"-"`
}

// New creates a new Annotator with default configuration
func New() *Annotator {
	return &Annotator{
		loader:   canvas.New(),
		renderer: render.New(),
		logger:   zap.NewNop(),
	}
}

// NewWithConfig creates a new Annotator with custom configuration
func NewWithConfig(canvasConfig canvas.Config, style types.Style) *Annotator {
	return &Annotator{
		loader:   canvas.NewWithConfig(canvasConfig),
		renderer: render.NewWithStyle(style),
		logger:   zap.NewNop(),
	}
}

// WithLogger sets the logger used for progress messages
func (a *Annotator) WithLogger(logger *zap.Logger) *Annotator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a.logger = logger
	return a
}

// Parse extracts and classifies the detections in a model response
func (a *Annotator) Parse(text string) (types.DetectionSet, detection.Stats, error) {
	set, stats, err := detection.Parse(text)
	if err != nil {
		return set, stats, err
	}
	a.logger.Debug("response parsed",
		zap.Int("records", stats.Records),
		zap.Int("recognized", stats.Recognized),
		zap.Int("skipped", stats.Skipped))
	return set, stats, nil
}

// LoadCanvas loads an image from file
func (a *Annotator) LoadCanvas(path string) (*canvas.Canvas, error) {
	return a.loader.Load(path)
}

// LoadCanvasFromReader loads an image from an io.Reader
func (a *Annotator) LoadCanvasFromReader(r io.Reader) (*canvas.Canvas, error) {
	return a.loader.LoadFromReader(r)
}

// Render draws a detection set onto a canvas
func (a *Annotator) Render(c *canvas.Canvas, set types.DetectionSet) render.Result {
	return a.renderer.Render(c, set)
}

// Annotate parses text and draws the result onto c
func (a *Annotator) Annotate(text string, c *canvas.Canvas) Result {
	set, stats, err := a.Parse(text)
	if err != nil {
		a.logger.Info("visualization skipped", zap.Error(err))
		return Result{Skipped: true, Reason: err}
	}

	res := a.Render(c, set)
	a.logger.Debug("annotations drawn",
		zap.Int("drawn", res.Drawn),
		zap.Int("points", res.Points),
		zap.Int("boxes", res.Boxes),
		zap.Int("labels", res.Labels))

	return Result{Detections: set, Stats: stats, Render: res, Canvas: c}
}

// AnnotateFile parses text, draws it onto the image at imagePath and hands
// the result to sink. The image is not opened when text holds nothing to
// draw. A nil sink leaves persistence to the caller via Result.Canvas.
func (a *Annotator) AnnotateFile(text, imagePath string, sink output.Sink) (Result, error) {
	return a.annotateWith(text, sink, func() (*canvas.Canvas, error) {
		return a.loader.Load(imagePath)
	})
}

// AnnotateReader is AnnotateFile for images read from r
func (a *Annotator) AnnotateReader(text string, r io.Reader, sink output.Sink) (Result, error) {
	return a.annotateWith(text, sink, func() (*canvas.Canvas, error) {
		return a.loader.LoadFromReader(r)
	})
}

func (a *Annotator) annotateWith(text string, sink output.Sink, load func() (*canvas.Canvas, error)) (Result, error) {
	set, stats, err := a.Parse(text)
	if err != nil {
		a.logger.Info("visualization skipped", zap.Error(err))
		return Result{Skipped: true, Reason: err}, nil
	}

	c, err := load()
	if err != nil {
		return Result{Detections: set, Stats: stats}, err
	}

	res := a.Render(c, set)
	a.logger.Debug("annotations drawn",
		zap.Int("drawn", res.Drawn),
		zap.Int("width", c.Width),
		zap.Int("height", c.Height))

	result := Result{Detections: set, Stats: stats, Render: res, Canvas: c}
	if sink == nil {
		return result, nil
	}

	if err := sink.Save(c.Image); err != nil {
		return result, fmt.Errorf("failed to save annotated image: %w", err)
	}
	a.logger.Info("annotated image saved", zap.Int("drawn", res.Drawn))

	return result, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
