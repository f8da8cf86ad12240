package main

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	annotator "github.com/menta2k/spatial-annotator"
	"github.com/menta2k/spatial-annotator/internal/config"
)

func writeImage(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "robot_view.png")
	if err := imaging.Save(imaging.New(640, 480, color.NRGBA{128, 128, 128, 255}), path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir)
	out := filepath.Join(dir, "out", "annotated.webp")

	opts := options{
		in:   in,
		text: "Sure:\n```json\n[{\"point\": [500, 500], \"label\": \"center\"}]\n```",
		out:  out,
	}
	if err := run(opts, zap.NewNop()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("output not readable: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 480 {
		t.Errorf("Expected 640x480 output, got %v", b)
	}
}

func TestRunSkipsWithoutJSON(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir)
	outDir := filepath.Join(dir, "results")
	out := filepath.Join(outDir, "annotated.png")

	if err := run(options{in: in, text: "no json here", out: out}, zap.NewNop()); err != nil {
		t.Fatalf("parse failure should not fail the command: %v", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Error("No output should be written for skipped responses")
	}
	if _, err := os.Stat(outDir); !errors.Is(err, os.ErrNotExist) {
		t.Error("No output directory should be created for skipped responses")
	}
}

func TestRunMissingImage(t *testing.T) {
	dir := t.TempDir()
	err := run(options{
		in:   filepath.Join(dir, "missing.jpg"),
		text: `[{"box_2d": [0, 0, 10, 10]}]`,
		out:  filepath.Join(dir, "out.jpg"),
	}, zap.NewNop())
	if !errors.Is(err, annotator.ErrCanvasLoad) {
		t.Errorf("Expected ErrCanvasLoad, got %v", err)
	}
}

func TestReadResponse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answer.txt")
	if err := os.WriteFile(path, []byte(`[{"point": [1, 2]}]`), 0644); err != nil {
		t.Fatal(err)
	}

	text, err := readResponse(options{response: path})
	if err != nil || text != `[{"point": [1, 2]}]` {
		t.Errorf("Unexpected response %q (err %v)", text, err)
	}

	text, err = readResponse(options{text: "inline", response: path})
	if err != nil || text != "inline" {
		t.Errorf("Inline text should win, got %q", text)
	}

	if _, err := readResponse(options{response: filepath.Join(t.TempDir(), "missing.txt")}); err == nil {
		t.Error("Expected missing response file to fail")
	}
}

func TestBuildSink(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Output.OutputDir = filepath.Join(dir, "results")

	sink, err := buildSink(options{in: "scene.jpg"}, cfg)
	if err != nil {
		t.Fatalf("buildSink failed: %v", err)
	}
	if want := filepath.Join(dir, "results", "scene_annotated.jpg"); sink.Path != want {
		t.Errorf("Expected %s, got %s", want, sink.Path)
	}
	if sink.Quality != 90 || sink.Format != "jpg" || !sink.MakeDirs {
		t.Errorf("Expected config defaults, got %+v", sink)
	}
	if _, err := os.Stat(cfg.Output.OutputDir); !errors.Is(err, os.ErrNotExist) {
		t.Error("buildSink should leave directory creation to the sink")
	}

	sink, err = buildSink(options{in: "scene.jpg", out: filepath.Join(dir, "x.png"), quality: 50}, cfg)
	if err != nil {
		t.Fatalf("buildSink failed: %v", err)
	}
	if sink.Format != "png" || sink.Quality != 50 {
		t.Errorf("Expected format from -out and explicit quality, got %+v", sink)
	}

	if _, err := buildSink(options{in: "scene.jpg", format: "bmp"}, cfg); err == nil {
		t.Error("Expected unsupported format to fail")
	}
}
