package renderer

import (
	"runtime"
	"sync"
	"time"
)

// TileTask is one tile-for-one-pass unit of work.
type TileTask struct {
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	TaskID        int
	PixelStats    [][]PixelStats // Shared accumulator, disjoint per tile
}

// TileResult reports a finished tile.
type TileResult struct {
	TaskID   int
	Stats    RenderStats
	Duration time.Duration
}

// WorkerPool renders tiles in parallel.
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*worker
	numWorkers  int
	wg          sync.WaitGroup
}

type worker struct {
	id          int
	raytracer   *Raytracer
	taskQueue   chan TileTask
	resultQueue chan TileResult
}

// NewWorkerPool creates a pool with numWorkers workers, defaulting to the
// CPU count. Each worker gets its own raytracer; they share nothing but the
// channels and the disjoint pixel regions.
func NewWorkerPool(scene Scene, width, height, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	// Buffer enough for every tile at the smallest tile size so submission
	// never blocks.
	maxTiles := ((width + 7) / 8) * ((height + 7) / 8)

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, maxTiles),
		resultQueue: make(chan TileResult, maxTiles),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &worker{
			id:          i,
			raytracer:   NewRaytracer(scene, width, height),
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start launches all workers.
func (wp *WorkerPool) Start() {
	for _, w := range wp.workers {
		wp.wg.Add(1)
		go w.run(&wp.wg)
	}
}

// Stop drains the pool: no more tasks are accepted, and Stop returns once
// every worker has exited.
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask queues a tile task.
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult blocks for the next finished tile.
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// NumWorkers reports the pool size.
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

func (w *worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		start := time.Now()
		stats := w.raytracer.RenderBounds(task.Tile.Bounds, task.PixelStats, task.Tile.Random, task.TargetSamples)

		w.resultQueue <- TileResult{
			TaskID:   task.TaskID,
			Stats:    stats,
			Duration: time.Since(start),
		}
	}
}
