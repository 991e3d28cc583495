package renderer

import (
	"context"
	"image"
	"io"
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/glintrender/glint/pkg/core"
)

// ProgressiveConfig controls progressive rendering.
type ProgressiveConfig struct {
	TileSize           int // Tile edge in pixels
	InitialSamples     int // Samples for the quick first pass
	MaxSamplesPerPixel int // Total samples per pixel across all passes
	MaxPasses          int // Number of passes
	MaxDepth           int // Ray bounce limit
	NumWorkers         int // 0 means runtime.NumCPU()
}

// DefaultProgressiveConfig returns sensible default values.
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7,
		MaxDepth:           50,
		NumWorkers:         0,
	}
}

// ProgressiveRaytracer renders a scene in passes of increasing quality,
// reusing every sample taken in earlier passes.
type ProgressiveRaytracer struct {
	scene         Scene
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile
	pixelStats    [][]PixelStats
	raytracer     *Raytracer
	workerPool    *WorkerPool
	logger        core.Logger
}

// NewProgressiveRaytracer sets up tiles, shared pixel accumulators and the
// worker pool. A nil logger silences progress output.
func NewProgressiveRaytracer(scene Scene, width, height int, config ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	raytracer := NewRaytracer(scene, width, height)

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	workerPool := NewWorkerPool(scene, width, height, config.NumWorkers)

	sampling := SamplingConfig{SamplesPerPixel: config.MaxSamplesPerPixel, MaxDepth: config.MaxDepth}
	raytracer.SetSamplingConfig(sampling)
	for _, w := range workerPool.workers {
		w.raytracer.SetSamplingConfig(sampling)
	}

	return &ProgressiveRaytracer{
		scene:      scene,
		width:      width,
		height:     height,
		config:     config,
		tiles:      NewTileGrid(width, height, config.TileSize),
		pixelStats: pixelStats,
		raytracer:  raytracer,
		workerPool: workerPool,
		logger:     logger,
	}
}

// getSamplesForPass returns the cumulative per-pixel sample target after the
// given pass: a one-sample preview first, then the remaining budget spread
// evenly, with the final pass absorbing the remainder.
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	targetSamples := pr.config.InitialSamples + (passNumber-1)*samplesPerPass
	if passNumber == pr.config.MaxPasses {
		targetSamples = pr.config.MaxSamplesPerPixel
	}

	return targetSamples
}

// RenderPass runs one progressive pass across all tiles in parallel and
// assembles the image accumulated so far. The tile callback, when non-nil,
// is invoked from this goroutine as each tile finishes.
func (pr *ProgressiveRaytracer) RenderPass(passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, TimingSummary, error) {
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: target %d samples per pixel on %d workers\n",
		passNumber, targetSamples, pr.workerPool.NumWorkers())

	if passNumber == 1 {
		pr.workerPool.Start()
	}

	for taskID, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        taskID,
			PixelStats:    pr.pixelStats,
		})
	}

	durations := make([]time.Duration, 0, len(pr.tiles))
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, TimingSummary{}, errors.New("worker pool closed before the pass finished")
		}

		durations = append(durations, result.Duration)

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:   pr.extractTileImage(tile),
				PassNumber:  passNumber,
				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}

	img, stats := pr.assembleCurrentImage(targetSamples)
	return img, stats, SummarizeTileTimes(durations), nil
}

// extractTileImage copies one tile's pixels out of the shared accumulator.
func (pr *ProgressiveRaytracer) extractTileImage(tile *Tile) *image.RGBA {
	bounds := tile.Bounds
	tileImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &pr.pixelStats[y][x]
			if ps.SampleCount == 0 {
				continue
			}
			tileImage.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, pr.raytracer.colorToRGBA(ps.GetColor()))
		}
	}

	return tileImage
}

// PassResult is one completed progressive pass.
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	Timing     TimingSummary
	IsLast     bool
}

// TileCompletionResult reports one finished tile for live previews.
type TileCompletionResult struct {
	TileX      int // Tile grid coordinates, not pixels
	TileY      int
	TileImage  *image.RGBA
	PassNumber int

	TileNumber  int // 1-based position within this pass
	TotalTiles  int
	TotalPasses int
}

// RenderOptions configures progressive rendering behavior.
type RenderOptions struct {
	TileUpdates bool // Emit per-tile events on the tile channel
}

// RenderProgressive runs all passes on a background goroutine and streams
// results over channels. The pass channel delivers each completed pass; the
// tile channel delivers per-tile updates when enabled, and is closed
// immediately otherwise. Cancelling the context stops the render after the
// tile in flight.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.workerPool.Stop()

		pr.logger.Printf("Starting progressive render: %d passes\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Printf("Render cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Channel full; the preview skips this tile.
					}
				}
			}

			img, stats, timing, err := pr.RenderPass(pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			actualSamples := int(stats.AverageSamples)
			pr.logger.Printf("Pass %d done in %v (tiles median %v, p95 %v, %d samples/pixel)\n",
				pass, timing.Total, timing.Median, timing.P95, actualSamples)

			isLast := pass == pr.config.MaxPasses || actualSamples >= pr.config.MaxSamplesPerPixel
			select {
			case passChan <- PassResult{
				PassNumber: pass,
				Image:      img,
				Stats:      stats,
				Timing:     timing,
				IsLast:     isLast,
			}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if actualSamples >= pr.config.MaxSamplesPerPixel {
				pr.logger.Printf("Reached %d samples per pixel, stopping\n", pr.config.MaxSamplesPerPixel)
				break
			}
		}
	}()

	return passChan, tileChan, errChan
}

// assembleCurrentImage builds the full image from the accumulated pixel
// stats and computes pass statistics in the same sweep.
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))

	stats := RenderStats{
		TotalPixels: pr.width * pr.height,
		MaxSamples:  targetSamples,
		MinSamples:  pr.config.MaxSamplesPerPixel,
	}

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			pixel := &pr.pixelStats[y][x]
			img.SetRGBA(x, y, pr.raytracer.colorToRGBA(pixel.GetColor()))

			stats.TotalSamples += pixel.SampleCount
			stats.MinSamples = min(stats.MinSamples, pixel.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, pixel.SampleCount)
		}
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return img, stats
}
