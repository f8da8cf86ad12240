package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/spatial-annotator/pkg/types"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}

	if cfg.ToStyle() != types.DefaultStyle() {
		t.Errorf("Default config should produce the default style, got %+v", cfg.ToStyle())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative radius", func(c *Config) { c.Style.PointRadius = -1 }},
		{"negative outline", func(c *Config) { c.Style.PointOutlineWidth = -1 }},
		{"zero stroke", func(c *Config) { c.Style.BoxStrokeWidth = 0 }},
		{"huge radius", func(c *Config) { c.Style.PointRadius = 100000 }},
		{"huge outline", func(c *Config) { c.Style.PointOutlineWidth = MaxStrokeWidth + 1 }},
		{"huge stroke", func(c *Config) { c.Style.BoxStrokeWidth = MaxStrokeWidth + 1 }},
		{"bad color", func(c *Config) { c.Style.BoxStroke = "red" }},
		{"bad hex", func(c *Config) { c.Style.PointFill = "#zzzzzz" }},
		{"no formats", func(c *Config) { c.Canvas.SupportedFormats = nil }},
		{"min size", func(c *Config) { c.Canvas.MinImageSize = 0 }},
		{"bad output format", func(c *Config) { c.Output.DefaultFormat = "bmp" }},
		{"quality too high", func(c *Config) { c.Output.Quality = 101 }},
		{"quality too low", func(c *Config) { c.Output.Quality = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.Style.BoxStroke = "#00ff00"
	cfg.Style.PointRadius = 6
	cfg.Output.DefaultFormat = "png"

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if loaded.Style.BoxStroke != "#00ff00" || loaded.Style.PointRadius != 6 {
		t.Errorf("Style not preserved: %+v", loaded.Style)
	}
	if loaded.Output.DefaultFormat != "png" {
		t.Errorf("Expected png output, got %s", loaded.Output.DefaultFormat)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"style": {"box_stroke_width": 5}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Style.BoxStrokeWidth != 5 {
		t.Errorf("Expected stroke 5, got %d", cfg.Style.BoxStrokeWidth)
	}
	if cfg.Style.PointRadius != 10 || cfg.Output.Quality != 90 {
		t.Error("Fields missing from the file should keep their defaults")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Partial config should be valid: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFromFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected missing file to fail")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(bad); err == nil {
		t.Error("Expected malformed file to fail")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#ff0000", color.NRGBA{255, 0, 0, 255}, true},
		{"00ff00", color.NRGBA{0, 255, 0, 255}, true},
		{"#0000ff80", color.NRGBA{0, 0, 255, 128}, true},
		{" #FFFFFF ", color.NRGBA{255, 255, 255, 255}, true},
		{"#fff", color.NRGBA{}, false},
		{"", color.NRGBA{}, false},
		{"#gg0000", color.NRGBA{}, false},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseColor(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToStyle(t *testing.T) {
	cfg := Default()
	cfg.Style.BoxStroke = "#00ff00"
	cfg.Style.BoxLabelOffset = [2]int{2, -20}
	cfg.Style.PointRadius = 4

	s := cfg.ToStyle()
	if s.BoxStroke != (color.NRGBA{0, 255, 0, 255}) {
		t.Errorf("Unexpected box stroke %v", s.BoxStroke)
	}
	if s.BoxLabelDX != 2 || s.BoxLabelDY != -20 {
		t.Errorf("Unexpected box label offset (%d,%d)", s.BoxLabelDX, s.BoxLabelDY)
	}
	if s.PointRadius != 4 {
		t.Errorf("Expected radius 4, got %d", s.PointRadius)
	}
}
