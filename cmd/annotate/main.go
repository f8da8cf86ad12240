package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	annotator "github.com/menta2k/spatial-annotator"
	"github.com/menta2k/spatial-annotator/internal/config"
	"github.com/menta2k/spatial-annotator/internal/utils"
	"github.com/menta2k/spatial-annotator/pkg/canvas"
	"github.com/menta2k/spatial-annotator/pkg/output"
)

type options struct {
	in       string
	response string
	text     string
	out      string
	format   string
	quality  int
	lossless bool
	config   string
	printRaw bool
	verbose  bool
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not read .env: %v\n", err)
	}

	var opts options
	flag.StringVar(&opts.in, "in", "", "image to annotate (jpg/png/gif/webp)")
	flag.StringVar(&opts.response, "response", "", "file holding the model response, - for stdin")
	flag.StringVar(&opts.text, "text", "", "model response given inline")
	flag.StringVar(&opts.out, "out", "", "output path (default: <out dir>/<name>_annotated.<format>)")
	flag.StringVar(&opts.format, "format", "", "output format: jpg|png|webp (default: from -out or config)")
	flag.IntVar(&opts.quality, "quality", 0, "JPEG/WebP output quality (1-100, default from config)")
	flag.BoolVar(&opts.lossless, "lossless", false, "WebP output lossless mode")
	flag.StringVar(&opts.config, "config", os.Getenv("ANNOTATE_CONFIG"), "JSON config file")
	flag.BoolVar(&opts.printRaw, "print-raw", false, "print the raw response text")
	flag.BoolVar(&opts.verbose, "v", false, "verbose logging")
	flag.Parse()

	if opts.in == "" || (opts.response == "" && opts.text == "") {
		fmt.Fprintf(os.Stderr, "usage: %s -in image.jpg (-response answer.txt | -text '...') [-out annotated.jpg] [-format jpg|png|webp] [-config config.json]\n",
			filepath.Base(os.Args[0]))
		os.Exit(2)
	}

	logger, err := newLogger(opts.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(opts, logger); err != nil {
		logger.Error("annotation failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(opts options, logger *zap.Logger) error {
	cfg := config.Default()
	if opts.config != "" {
		loaded, err := config.LoadFromFile(opts.config)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if !utils.HasImageExtension(opts.in, cfg.Canvas.SupportedFormats) {
		logger.Warn("input does not have a known image extension", zap.String("in", opts.in))
	}

	text, err := readResponse(opts)
	if err != nil {
		return err
	}
	if opts.printRaw {
		fmt.Println(text)
	}

	sink, err := buildSink(opts, cfg)
	if err != nil {
		return err
	}

	a := annotator.NewWithConfig(canvas.Config{
		SupportedFormats: cfg.Canvas.SupportedFormats,
		MinImageSize:     cfg.Canvas.MinImageSize,
		AutoOrient:       cfg.Canvas.AutoOrient,
	}, cfg.ToStyle()).WithLogger(logger)

	res, err := a.AnnotateFile(text, opts.in, sink)
	if err != nil {
		return err
	}

	if res.Skipped {
		logger.Warn("no detections to draw, showing raw response", zap.Error(res.Reason))
		if !opts.printRaw {
			fmt.Println(text)
		}
		return nil
	}

	logger.Info("annotated",
		zap.String("in", opts.in),
		zap.String("out", sink.Path),
		zap.Int("records", res.Stats.Records),
		zap.Int("recognized", res.Stats.Recognized),
		zap.Int("points", res.Render.Points),
		zap.Int("boxes", res.Render.Boxes))
	return nil
}

func readResponse(opts options) (string, error) {
	if opts.text != "" {
		return opts.text, nil
	}

	var (
		data []byte
		err  error
	)
	if opts.response == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(opts.response)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(data), nil
}

func buildSink(opts options, cfg *config.Config) (output.FileSink, error) {
	format := opts.format
	if format == "" && opts.out != "" {
		if f, err := output.FormatFromPath(opts.out); err == nil {
			format = f
		}
	}
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	format, err := output.NormalizeFormat(format)
	if err != nil {
		return output.FileSink{}, err
	}

	path := opts.out
	if path == "" {
		path = utils.OutputPath(opts.in, cfg.Output, format)
	}

	quality := opts.quality
	if quality == 0 {
		quality = cfg.Output.Quality
	}

	return output.FileSink{
		Path:     path,
		Format:   format,
		Quality:  quality,
		Lossless: opts.lossless || cfg.Output.Lossless,
		MakeDirs: true,
	}, nil
}
