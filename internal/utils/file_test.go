package utils

import (
	"path/filepath"
	"testing"

	"github.com/menta2k/spatial-annotator/internal/config"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in     string
		out    config.OutputConfig
		format string
		want   string
	}{
		{"robot_view.jpg", config.OutputConfig{OutputDir: "out", Suffix: "_annotated"}, "png", filepath.Join("out", "robot_view_annotated.png")},
		{"/tmp/scene.webp", config.OutputConfig{OutputDir: ".", Prefix: "pre_"}, "webp", "pre_scene.webp"},
		{"noext", config.OutputConfig{OutputDir: "out", Suffix: "_x"}, "jpg", filepath.Join("out", "noext_x.jpg")},
		{"a.b.png", config.Default().Output, "jpg", "a.b_annotated.jpg"},
	}

	for _, tt := range tests {
		if got := OutputPath(tt.in, tt.out, tt.format); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHasImageExtension(t *testing.T) {
	formats := config.Default().Canvas.SupportedFormats

	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.webp", "e.gif"} {
		if !HasImageExtension(name, formats) {
			t.Errorf("%s should be an image file", name)
		}
	}
	for _, name := range []string{"a.txt", "b", "c.mp4", "png"} {
		if HasImageExtension(name, formats) {
			t.Errorf("%s should not be an image file", name)
		}
	}

	if HasImageExtension("a.gif", []string{"jpg", "png"}) {
		t.Error("gif is not among the configured formats")
	}
	if !HasImageExtension("a.jpeg", []string{"jpg"}) {
		t.Error("jpg and jpeg should be interchangeable")
	}
}
