package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrLoad is matched by every error returned while opening a canvas.
var ErrLoad = errors.New("canvas could not be loaded")

// LoadError reports a canvas that could not be opened or decoded
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load canvas: %v", e.Err)
	}
	return fmt.Sprintf("load canvas %s: %v", e.Path, e.Err)
}

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

func (e *LoadError) Unwrap() error { return e.Err }

// Canvas is a writable pixel buffer that detections are drawn onto.
// It is owned by a single annotation pass.
type Canvas struct {
	Image  *image.NRGBA
	Width  int
	Height int
	// Format is the name of the decoder that produced the image, empty for in-memory sources
	Format string
}

// Info contains basic canvas metadata
type Info struct {
	Width       int
	Height      int
	AspectRatio float64
	Area        int
	Format      string
}

// Loader opens images from disk or readers and turns them into canvases
type Loader struct {
	config Config
}

// Config holds configuration for the loader
type Config struct {
	SupportedFormats []string
	MinImageSize     int
	// AutoOrient applies the EXIF orientation tag of JPEG sources
	AutoOrient bool
}

// New creates a Loader with default configuration
func New() *Loader {
	return &Loader{
		config: Config{
			SupportedFormats: []string{"jpeg", "png", "gif", "webp"},
			MinImageSize:     1,
			AutoOrient:       true,
		},
	}
}

// NewWithConfig creates a Loader with custom configuration
func NewWithConfig(config Config) *Loader {
	return &Loader{config: config}
}

// FromImage copies img into a new canvas with its origin at (0, 0).
func FromImage(img image.Image) *Canvas {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	return &Canvas{Image: nrgba, Width: b.Dx(), Height: b.Dy()}
}

// Load opens and decodes the image at path
func (l *Loader) Load(path string) (*Canvas, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer file.Close()

	c, err := l.decode(file)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return c, nil
}

// LoadFromReader decodes an image read from r
func (l *Loader) LoadFromReader(r io.Reader) (*Canvas, error) {
	c, err := l.decode(r)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return c, nil
}

func (l *Loader) decode(r io.Reader) (*Canvas, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := l.decodeBytes(data)
	if err != nil {
		return nil, err
	}

	if !l.isFormatSupported(format) {
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}

	c := FromImage(img)
	c.Format = format

	if err := l.Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (l *Loader) decodeBytes(data []byte) (image.Image, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(l.config.AutoOrient))
		if err == nil {
			return img, format, nil
		}
	}

	// Fallback: explicit WebP decode
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, "webp", nil
	}

	return nil, "", fmt.Errorf("failed to decode image: unknown or unsupported format")
}

func (l *Loader) isFormatSupported(format string) bool {
	for _, supported := range l.config.SupportedFormats {
		if strings.EqualFold(format, supported) {
			return true
		}
		if strings.EqualFold(supported, "jpg") && strings.EqualFold(format, "jpeg") {
			return true
		}
	}
	return false
}

// Validate checks that a canvas meets the minimum size
func (l *Loader) Validate(c *Canvas) error {
	if c.Width < l.config.MinImageSize || c.Height < l.config.MinImageSize {
		return fmt.Errorf("image too small: %dx%d (minimum: %d)",
			c.Width, c.Height, l.config.MinImageSize)
	}
	return nil
}

// Info returns basic information about the canvas
func (c *Canvas) Info() Info {
	info := Info{
		Width:  c.Width,
		Height: c.Height,
		Area:   c.Width * c.Height,
		Format: c.Format,
	}
	if c.Height > 0 {
		info.AspectRatio = float64(c.Width) / float64(c.Height)
	}
	return info
}

// Bounds returns the drawable rectangle
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.Width, c.Height)
}
