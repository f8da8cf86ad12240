package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/menta2k/spatial-annotator/pkg/output"
	"github.com/menta2k/spatial-annotator/pkg/types"
)

// Upper bounds for marker sizes in pixels
const (
	MaxPointRadius = 256
	MaxStrokeWidth = 64
)

// Config holds the application configuration
type Config struct {
	Style  StyleConfig  `json:"style"`
	Canvas CanvasConfig `json:"canvas"`
	Output OutputConfig `json:"output"`
}

// StyleConfig holds marker and label appearance. Colors are #rrggbb or #rrggbbaa.
type StyleConfig struct {
	PointRadius       int    `json:"point_radius"`
	PointFill         string `json:"point_fill"`
	PointOutline      string `json:"point_outline"`
	PointOutlineWidth int    `json:"point_outline_width"`
	PointLabel        string `json:"point_label"`
	PointLabelOffset  [2]int `json:"point_label_offset"`

	BoxStroke      string `json:"box_stroke"`
	BoxStrokeWidth int    `json:"box_stroke_width"`
	BoxLabel       string `json:"box_label"`
	BoxLabelOffset [2]int `json:"box_label_offset"`
}

// CanvasConfig holds configuration for loading source images
type CanvasConfig struct {
	SupportedFormats []string `json:"supported_formats"`
	MinImageSize     int      `json:"min_image_size"`
	AutoOrient       bool     `json:"auto_orient"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	DefaultFormat string `json:"default_format"`
	Quality       int    `json:"quality"`
	Lossless      bool   `json:"lossless"`
	OutputDir     string `json:"output_dir"`
	Prefix        string `json:"prefix"`
	Suffix        string `json:"suffix"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Style: StyleConfig{
			PointRadius:       10,
			PointFill:         "#ff0000",
			PointOutline:      "#ffffff",
			PointOutlineWidth: 2,
			PointLabel:        "#ffffff",
			PointLabelOffset:  [2]int{15, -10},

			BoxStroke:      "#ff0000",
			BoxStrokeWidth: 3,
			BoxLabel:       "#ff0000",
			BoxLabelOffset: [2]int{0, -15},
		},
		Canvas: CanvasConfig{
			SupportedFormats: []string{"jpeg", "png", "gif", "webp"},
			MinImageSize:     1,
			AutoOrient:       true,
		},
		Output: OutputConfig{
			DefaultFormat: "jpg",
			Quality:       90,
			Lossless:      false,
			OutputDir:     ".",
			Prefix:        "",
			Suffix:        "_annotated",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Missing fields keep
// their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Style.PointRadius < 0 || c.Style.PointRadius > MaxPointRadius {
		return fmt.Errorf("style.point_radius must be between 0 and %d", MaxPointRadius)
	}

	if c.Style.PointOutlineWidth < 0 || c.Style.PointOutlineWidth > MaxStrokeWidth {
		return fmt.Errorf("style.point_outline_width must be between 0 and %d", MaxStrokeWidth)
	}

	if c.Style.BoxStrokeWidth < 1 || c.Style.BoxStrokeWidth > MaxStrokeWidth {
		return fmt.Errorf("style.box_stroke_width must be between 1 and %d", MaxStrokeWidth)
	}

	colors := map[string]string{
		"style.point_fill":    c.Style.PointFill,
		"style.point_outline": c.Style.PointOutline,
		"style.point_label":   c.Style.PointLabel,
		"style.box_stroke":    c.Style.BoxStroke,
		"style.box_label":     c.Style.BoxLabel,
	}
	for name, value := range colors {
		if _, err := ParseColor(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if len(c.Canvas.SupportedFormats) == 0 {
		return fmt.Errorf("canvas.supported_formats cannot be empty")
	}

	if c.Canvas.MinImageSize < 1 {
		return fmt.Errorf("canvas.min_image_size must be positive")
	}

	if _, err := output.NormalizeFormat(c.Output.DefaultFormat); err != nil {
		return fmt.Errorf("output.default_format: %w", err)
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// ToStyle converts the style section into a render style. It assumes the
// configuration has been validated; unparsable colors fall back to defaults.
func (c *Config) ToStyle() types.Style {
	s := types.DefaultStyle()
	st := c.Style

	s.PointRadius = st.PointRadius
	s.PointOutlineWidth = st.PointOutlineWidth
	s.PointLabelDX, s.PointLabelDY = st.PointLabelOffset[0], st.PointLabelOffset[1]
	s.BoxStrokeWidth = st.BoxStrokeWidth
	s.BoxLabelDX, s.BoxLabelDY = st.BoxLabelOffset[0], st.BoxLabelOffset[1]

	setColor(&s.PointFill, st.PointFill)
	setColor(&s.PointOutline, st.PointOutline)
	setColor(&s.PointLabel, st.PointLabel)
	setColor(&s.BoxStroke, st.BoxStroke)
	setColor(&s.BoxLabel, st.BoxLabel)

	return s
}

func setColor(dst *color.NRGBA, value string) {
	if c, err := ParseColor(value); err == nil {
		*dst = c
	}
}

// ParseColor parses #rrggbb or #rrggbbaa
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}

	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "spatial-annotator", "config.json")
}
