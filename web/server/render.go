package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/glintrender/glint/pkg/core"
	"github.com/glintrender/glint/pkg/renderer"
	"github.com/glintrender/glint/pkg/scene"
)

// SSEEvent is one event on the wire. All writes go through a single
// goroutine so concurrent producers cannot interleave frames.
type SSEEvent struct {
	Type string // "console", "tile", "passComplete", "error", "complete"
	Data string
}

// PassUpdate is the payload of a passComplete event.
type PassUpdate struct {
	PassNumber     int     `json:"passNumber"`
	TotalPasses    int     `json:"totalPasses"`
	IsLast         bool    `json:"isLast"`
	ElapsedMs      int64   `json:"elapsedMs"`
	ImageData      string  `json:"imageData"` // Base64 PNG of the full frame so far
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamplesUsed int     `json:"maxSamplesUsed"`
	ObjectCount    int     `json:"objectCount"`
	MedianTileMs   int64   `json:"medianTileMs"`
	P95TileMs      int64   `json:"p95TileMs"`
}

// TileUpdate is the payload of a tile event. Tile coordinates are in grid
// units; multiply by TileSize for the pixel origin.
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	TileSize    int    `json:"tileSize"`
	ImageData   string `json:"imageData"` // Base64 PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`
	TotalTiles  int    `json:"totalTiles"`
	TotalPasses int    `json:"totalPasses"`
}

// renderPipeline is a scene plus the raytracer configured for it.
type renderPipeline struct {
	scene     *scene.Scene
	raytracer *renderer.ProgressiveRaytracer
	config    renderer.ProgressiveConfig
}

// handleRender renders a scene and streams progress over SSE. The stream
// carries console, tile and passComplete events, then a single error or
// complete event. Client disconnection cancels the render.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		http.Error(w, "render rate limit exceeded, retry later", http.StatusTooManyRequests)
		return
	}

	s.setSSEHeaders(w)
	ctx := r.Context()

	// Single writer goroutine; everything else enqueues onto events. The
	// deferred close makes the handler wait until queued events reach the
	// client before returning.
	events := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, events)
	}()
	defer func() {
		close(events)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendError(ctx, events, fmt.Sprintf("invalid request: %v", err))
		return
	}

	jobID := uuid.New().String()
	logger := s.logger.With(zap.String("job", jobID))
	logger.Info("render requested",
		zap.String("scene", req.Scene),
		zap.Int("width", req.Width),
		zap.Int("maxSamples", req.MaxSamples),
		zap.Int("maxPasses", req.MaxPasses),
		zap.Bool("tiles", req.Tiles),
	)

	consoleChan := make(chan ConsoleMessage, 50)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, events)
	}()

	pipeline, err := s.setupRenderingPipeline(req, NewWebLogger(jobID, consoleChan, logger))
	if err != nil {
		close(consoleChan)
		<-consoleDone
		s.sendError(ctx, events, err.Error())
		return
	}

	start := time.Now()
	passChan, tileChan, errChan := pipeline.raytracer.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: req.Tiles})
	renderErr := s.streamRenderEvents(ctx, events, passChan, tileChan, errChan, req, pipeline, start)

	// The raytracer has resolved its error channel by now, so nothing
	// writes to the console channel anymore.
	close(consoleChan)
	<-consoleDone

	if renderErr != nil {
		logger.Warn("render stopped", zap.Error(renderErr))
		s.sendError(ctx, events, fmt.Sprintf("rendering failed: %v", renderErr))
		return
	}

	logger.Info("render finished", zap.Duration("elapsed", time.Since(start)))
	s.sendEvent(ctx, events, SSEEvent{Type: "complete", Data: "rendering complete"})
}

// setSSEHeaders sets the required headers for Server-Sent Events.
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents drains the event channel onto the wire. It is the only
// writer once streaming starts, and returns when the channel closes or the
// client goes away.
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, events <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)

	for event := range events {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards render console lines to the SSE stream.
// It drains the console channel until it closes so the logger never blocks.
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, events chan<- SSEEvent) {
	for msg := range consoleChan {
		data, err := json.Marshal(msg)
		if err != nil {
			s.logger.Warn("marshaling console message", zap.Error(err))
			continue
		}

		select {
		case events <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		}
	}
}

// setupRenderingPipeline builds the scene and a raytracer sized to it.
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*renderPipeline, error) {
	sceneObj, err := scene.Build(req.Scene, renderer.CameraConfig{Width: req.Width})
	if err != nil {
		return nil, err
	}

	width, height := sceneObj.GetCamera().ImageSize()

	config := renderer.DefaultProgressiveConfig()
	config.InitialSamples = 1
	config.MaxSamplesPerPixel = req.MaxSamples
	config.MaxPasses = req.MaxPasses
	config.MaxDepth = sceneObj.Sampling.MaxDepth

	return &renderPipeline{
		scene:     sceneObj,
		raytracer: renderer.NewProgressiveRaytracer(sceneObj, width, height, config, logger),
		config:    config,
	}, nil
}

// streamRenderEvents pumps raytracer results into the SSE stream until all
// three channels resolve, and returns the render error, if any. The
// raytracer reacts to cancellation itself, so the loop always terminates.
func (s *Server) streamRenderEvents(ctx context.Context, events chan<- SSEEvent,
	passChan <-chan renderer.PassResult, tileChan <-chan renderer.TileCompletionResult, errChan <-chan error,
	req *RenderRequest, pipeline *renderPipeline, start time.Time) error {

	var renderErr error
	for passChan != nil || tileChan != nil || errChan != nil {
		select {
		case pass, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			s.sendPassEvent(ctx, events, pass, req, len(pipeline.scene.Objects), start)

		case tile, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			s.sendTileEvent(ctx, events, tile, pipeline.config.TileSize)

		case err, ok := <-errChan:
			errChan = nil
			if ok {
				renderErr = err
			}
		}
	}
	return renderErr
}

// sendPassEvent encodes a completed pass and queues it for the client.
func (s *Server) sendPassEvent(ctx context.Context, events chan<- SSEEvent,
	pass renderer.PassResult, req *RenderRequest, objectCount int, start time.Time) {

	imageData, err := imageToBase64PNG(pass.Image)
	if err != nil {
		s.logger.Warn("encoding pass image", zap.Int("pass", pass.PassNumber), zap.Error(err))
		return
	}

	update := PassUpdate{
		PassNumber:     pass.PassNumber,
		TotalPasses:    req.MaxPasses,
		IsLast:         pass.IsLast,
		ElapsedMs:      time.Since(start).Milliseconds(),
		ImageData:      imageData,
		TotalPixels:    pass.Stats.TotalPixels,
		TotalSamples:   pass.Stats.TotalSamples,
		AverageSamples: pass.Stats.AverageSamples,
		MinSamples:     pass.Stats.MinSamples,
		MaxSamplesUsed: pass.Stats.MaxSamplesUsed,
		ObjectCount:    objectCount,
		MedianTileMs:   pass.Timing.Median.Milliseconds(),
		P95TileMs:      pass.Timing.P95.Milliseconds(),
	}

	data, err := json.Marshal(update)
	if err != nil {
		s.logger.Warn("marshaling pass update", zap.Error(err))
		return
	}
	s.sendEvent(ctx, events, SSEEvent{Type: "passComplete", Data: string(data)})
}

// sendTileEvent encodes a finished tile and queues it for the client.
func (s *Server) sendTileEvent(ctx context.Context, events chan<- SSEEvent, tile renderer.TileCompletionResult, tileSize int) {
	tileData, err := imageToBase64PNG(tile.TileImage)
	if err != nil {
		s.logger.Warn("encoding tile image",
			zap.Int("tileX", tile.TileX), zap.Int("tileY", tile.TileY), zap.Error(err))
		return
	}

	update := TileUpdate{
		TileX:       tile.TileX,
		TileY:       tile.TileY,
		TileSize:    tileSize,
		ImageData:   tileData,
		PassNumber:  tile.PassNumber,
		TileNumber:  tile.TileNumber,
		TotalTiles:  tile.TotalTiles,
		TotalPasses: tile.TotalPasses,
	}

	data, err := json.Marshal(update)
	if err != nil {
		s.logger.Warn("marshaling tile update", zap.Error(err))
		return
	}
	s.sendEvent(ctx, events, SSEEvent{Type: "tile", Data: string(data)})
}

// sendEvent enqueues an event, giving up if the client disconnects.
func (s *Server) sendEvent(ctx context.Context, events chan<- SSEEvent, event SSEEvent) {
	select {
	case events <- event:
	case <-ctx.Done():
	}
}

// sendError queues an error event for the client.
func (s *Server) sendError(ctx context.Context, events chan<- SSEEvent, message string) {
	s.sendEvent(ctx, events, SSEEvent{Type: "error", Data: message})
}

// imageToBase64PNG encodes an image as PNG and base64s it for embedding in
// an SSE payload.
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
