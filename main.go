// Command glint renders a scene progressively and writes the final pass to
// disk as PNG or PPM.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/ppm"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/glintrender/glint/pkg/bvh"
	"github.com/glintrender/glint/pkg/renderer"
	"github.com/glintrender/glint/pkg/scene"
)

type options struct {
	scene   string
	width   int
	samples int
	passes  int
	workers int
	output  string
	format  string
}

func main() {
	defaults := renderer.DefaultProgressiveConfig()

	var opts options
	flag.StringVar(&opts.scene, "scene", "default", "scene: built-in name or path to a .toml scene file")
	flag.IntVar(&opts.width, "width", 0, "image width in pixels; 0 keeps the scene default")
	flag.IntVar(&opts.samples, "samples", 0, "samples per pixel budget; 0 keeps the scene default")
	flag.IntVar(&opts.passes, "passes", defaults.MaxPasses, "number of progressive passes")
	flag.IntVar(&opts.workers, "workers", 0, "render workers; 0 uses all CPUs")
	flag.StringVar(&opts.output, "output", "", "output file; empty derives output/<scene>/render_<timestamp>.<format>")
	flag.StringVar(&opts.format, "format", "png", "output format: png or ppm")
	debug := flag.Bool("debug", false, "verbose development logging")
	list := flag.Bool("list", false, "list built-in scenes and exit")
	flag.Parse()

	if *list {
		for _, info := range scene.Builtins() {
			fmt.Printf("%-10s %s\n", info.Name, info.Description)
		}
		return
	}

	logger := newLogger(*debug)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Fatal("render failed", zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	if debug {
		return zap.Must(zap.NewDevelopment())
	}
	return zap.Must(zap.NewProduction())
}

func run(ctx context.Context, opts options, logger *zap.Logger) error {
	if opts.format != "png" && opts.format != "ppm" {
		return errors.Errorf("unknown format %q (png or ppm)", opts.format)
	}

	var overrides []renderer.CameraConfig
	if opts.width > 0 {
		overrides = append(overrides, renderer.CameraConfig{Width: opts.width})
	}

	sc, err := createScene(opts.scene, overrides...)
	if err != nil {
		return err
	}

	width, height := sc.GetCamera().ImageSize()
	logger.Info("scene ready",
		zap.String("scene", opts.scene),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("objects", len(sc.Objects)),
	)
	if world, ok := sc.GetWorld().(*bvh.BVH); ok {
		stats := world.Stats()
		logger.Info("bvh built",
			zap.Int("nodes", stats.Nodes),
			zap.Int("leaves", stats.Leaves),
			zap.Int("maxDepth", stats.MaxDepth),
			zap.Float64("avgLeafDepth", stats.AvgLeafDepth),
		)
	}

	config := renderer.DefaultProgressiveConfig()
	config.MaxSamplesPerPixel = sc.Sampling.SamplesPerPixel
	config.MaxDepth = sc.Sampling.MaxDepth
	config.MaxPasses = opts.passes
	config.NumWorkers = opts.workers
	if opts.samples > 0 {
		config.MaxSamplesPerPixel = opts.samples
	}

	pr := renderer.NewProgressiveRaytracer(sc, width, height, config, zap.NewStdLog(logger))

	start := time.Now()
	passCh, _, errCh := pr.RenderProgressive(ctx, renderer.RenderOptions{})

	var final *image.RGBA
	for pass := range passCh {
		logger.Info("pass complete",
			zap.Int("pass", pass.PassNumber),
			zap.Float64("avgSamples", pass.Stats.AverageSamples),
			zap.Duration("tileTotal", pass.Timing.Total),
			zap.Duration("tileP95", pass.Timing.P95),
		)
		final = pass.Image
	}
	if err, ok := <-errCh; ok {
		return errors.Wrap(err, "progressive render")
	}
	if final == nil {
		return errors.New("render produced no passes")
	}

	outPath := opts.output
	if outPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outPath = filepath.Join(outputDirFor(opts.scene),
			fmt.Sprintf("render_%s.%s", timestamp, opts.format))
	}
	if err := saveImage(final, outPath, opts.format); err != nil {
		return err
	}

	logger.Info("render saved",
		zap.String("path", outPath),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// createScene builds a scene from a built-in name or a .toml scene path.
func createScene(name string, cameraOverrides ...renderer.CameraConfig) (*scene.Scene, error) {
	if name == "" {
		return nil, errors.New("no scene given")
	}
	return scene.Build(name, cameraOverrides...)
}

// outputDirFor picks output/<scene-base> so renders of different scenes
// land in different directories.
func outputDirFor(sceneName string) string {
	base := filepath.Base(sceneName)
	base = strings.TrimSuffix(base, ".toml")
	if base == "" || base == "." {
		base = "scene"
	}
	return filepath.Join("output", base)
}

// saveImage writes the image in the given format, creating directories as
// needed.
func saveImage(img image.Image, path, format string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating output directory %s", dir)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}

	switch format {
	case "png":
		err = png.Encode(file, img)
	case "ppm":
		err = ppm.Encode(file, img)
	default:
		err = errors.Errorf("unknown format %q", format)
	}
	if err != nil {
		file.Close()
		return errors.Wrapf(err, "encoding %s", path)
	}

	return errors.Wrapf(file.Close(), "flushing %s", path)
}
