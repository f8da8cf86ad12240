package output

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Sink persists an annotated image
type Sink interface {
	Save(img image.Image) error
}

// Supported output formats
const (
	FormatJPEG = "jpg"
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// FormatFromPath returns the output format implied by a file extension
func FormatFromPath(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return NormalizeFormat(ext)
}

// NormalizeFormat maps format aliases onto a supported format
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q", format)
	}
}

// FileSink writes images to a path on disk. The image is encoded into a
// temporary file next to Path and renamed into place, so a failed save
// leaves any existing file untouched.
type FileSink struct {
	Path string
	// Format overrides the format implied by Path
	Format   string
	Quality  int
	Lossless bool
	// MakeDirs creates missing parent directories on save
	MakeDirs bool
}

// Save writes img to s.Path
func (s FileSink) Save(img image.Image) error {
	format, err := s.format()
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	if s.MakeDirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	ws := WriterSink{W: f, Format: format, Quality: s.Quality, Lossless: s.Lossless}
	if err := ws.Save(img); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		return fmt.Errorf("failed to set permissions on %s: %w", s.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", s.Path, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.Path, err)
	}
	return nil
}

func (s FileSink) format() (string, error) {
	if s.Format != "" {
		return NormalizeFormat(s.Format)
	}
	return FormatFromPath(s.Path)
}

// WriterSink encodes images onto an io.Writer
type WriterSink struct {
	W        io.Writer
	Format   string
	Quality  int
	Lossless bool
}

// Save encodes img onto s.W
func (s WriterSink) Save(img image.Image) error {
	format, err := NormalizeFormat(s.Format)
	if err != nil {
		return err
	}

	switch format {
	case FormatWebP:
		opts := &webp.Options{Lossless: s.Lossless, Quality: float32(quality(s.Quality))}
		if err := webp.Encode(s.W, img, opts); err != nil {
			return fmt.Errorf("failed to encode webp: %w", err)
		}
	case FormatPNG:
		if err := imaging.Encode(s.W, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
	default:
		if err := imaging.Encode(s.W, img, imaging.JPEG, imaging.JPEGQuality(quality(s.Quality))); err != nil {
			return fmt.Errorf("failed to encode jpeg: %w", err)
		}
	}
	return nil
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(img image.Image) error

// Save calls f(img)
func (f SinkFunc) Save(img image.Image) error { return f(img) }

func quality(q int) int {
	if q <= 0 || q > 100 {
		return 90
	}
	return q
}
