// Package server is the HTTP preview server. It renders scenes on demand
// and streams progressive results to the browser over Server-Sent Events.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/glintrender/glint/pkg/renderer"
	"github.com/glintrender/glint/pkg/scene"
)

// Server handles web requests for the progressive raytracer.
type Server struct {
	config  Config
	logger  *zap.Logger
	limiter *rate.Limiter
}

// NewServer creates a web server. A nil logger disables server logging.
func NewServer(config Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		config:  config,
		logger:  logger,
		limiter: config.RenderLimiter.Limiter(),
	}
}

// Handler returns the routing handler, split out from Start so tests can
// drive the server through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// Start serves until the context is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.config.ListenAddress, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("web server listening", zap.String("address", s.config.ListenAddress))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// handleHealth provides a simple health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// scenesResponse lists the scenes a client can request plus the parameter
// caps this server enforces.
type scenesResponse struct {
	Scenes []scene.Info `json:"scenes"`
	Limits renderLimits `json:"limits"`
}

type renderLimits struct {
	MaxWidth   int `json:"maxWidth"`
	MaxSamples int `json:"maxSamples"`
	MaxPasses  int `json:"maxPasses"`
}

// handleScenes returns the built-in scene list and render limits.
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(scenesResponse{
		Scenes: scene.Builtins(),
		Limits: renderLimits{
			MaxWidth:   s.config.MaxWidth,
			MaxSamples: s.config.MaxSamples,
			MaxPasses:  s.config.MaxPasses,
		},
	})
}

// RenderRequest is a render job as requested by the client.
type RenderRequest struct {
	Scene      string // Built-in scene name or a .toml scene path
	Width      int    // Image width; height follows the scene's aspect ratio
	MaxSamples int    // Samples per pixel budget
	MaxPasses  int    // Number of progressive passes
	Tiles      bool   // Stream per-tile updates in addition to passes
}

// parseRenderRequest parses and validates render parameters from the URL
// query, applying defaults and the configured caps.
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	defaults := renderer.DefaultProgressiveConfig()
	req := &RenderRequest{Scene: "default"}

	if name := r.URL.Query().Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(r.URL.Query(), "width", 400, 64, s.config.MaxWidth); err != nil {
		return nil, err
	}
	if req.MaxSamples, err = parseIntParam(r.URL.Query(), "maxSamples", defaults.MaxSamplesPerPixel, 1, s.config.MaxSamples); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(r.URL.Query(), "maxPasses", defaults.MaxPasses, 1, s.config.MaxPasses); err != nil {
		return nil, err
	}
	if req.Tiles, err = parseBoolParam(r.URL.Query(), "tiles", true); err != nil {
		return nil, err
	}
	return req, nil
}

// parseIntParam parses an integer parameter from a URL query with validation.
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	if parsed < min || parsed > max {
		return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
	}
	return parsed, nil
}

// parseBoolParam parses a boolean parameter from a URL query.
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", key, value)
	}
	return parsed, nil
}
