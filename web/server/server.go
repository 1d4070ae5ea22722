// Package server exposes the renderer over HTTP: a small embedded
// viewer page, a websocket endpoint that streams progressive render
// events, and JSON APIs for scene metadata and render history.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/prism-rt/prism/pkg/scene"
)

//go:embed index.html
var indexHTML []byte

// Request parameter limits. The scene-config endpoint reports these so
// the viewer can validate before submitting.
const (
	minWidth, maxWidth          = 16, 2000
	minSamples, maxSamplesCap   = 1, 10000
	minPasses, maxPassesCap     = 1, 64
	minDepth, maxDepthCap       = 1, 200
	minTileSize, maxTileSizeCap = 8, 256
)

// Config holds the server settings.
type Config struct {
	Port        int
	HistoryPath string // SQLite file for render history; empty disables it
	Logger      zerolog.Logger
}

// Server handles web requests for the raytracer.
type Server struct {
	cfg        Config
	mux        *http.ServeMux
	history    *HistoryStore
	log        zerolog.Logger
	httpServer *http.Server
}

// NewServer creates a web server, opening the history store when one is
// configured.
func NewServer(cfg Config) (*Server, error) {
	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
		log: cfg.Logger,
	}

	if cfg.HistoryPath != "" {
		history, err := OpenHistory(cfg.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("opening history store: %w", err)
		}
		s.history = history
	}

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/ws/render", s.handleRenderWS)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	s.mux.HandleFunc("/api/history", s.handleHistory)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	return s, nil
}

// ServeHTTP dispatches to the server's routes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Start listens on the configured port and serves until the listener
// fails or Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.log.Info().Str("addr", addr).Msg("starting web server")

	s.httpServer = &http.Server{Addr: addr, Handler: s}
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server and closes the history store.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.history != nil {
		if closeErr := s.history.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scene names.
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scenes": scene.BuiltinNames(),
	})
}

// handleSceneConfig returns a scene's default settings together with
// the request parameter limits.
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := scene.NewBuiltin(sceneName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sampling := sceneObj.GetSamplingConfig()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":           sampling.Width,
			"height":          sampling.Height,
			"samplesPerPixel": sampling.SamplesPerPixel,
			"maxDepth":        sampling.MaxDepth,
			"seed":            sampling.Seed,
		},
		"limits": map[string]interface{}{
			"width":      map[string]int{"min": minWidth, "max": maxWidth},
			"maxSamples": map[string]int{"min": minSamples, "max": maxSamplesCap},
			"maxPasses":  map[string]int{"min": minPasses, "max": maxPassesCap},
			"maxDepth":   map[string]int{"min": minDepth, "max": maxDepthCap},
			"tileSize":   map[string]int{"min": minTileSize, "max": maxTileSizeCap},
		},
	})
}

// handleHistory lists recent renders from the history store.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "render history is not enabled"})
		return
	}

	limit, err := parseIntParam(r.URL.Query(), "limit", 20, 1, 500)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	records, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("history query failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history query failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"renders": records})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// RenderRequest holds the validated parameters of a render request.
type RenderRequest struct {
	Scene       string
	Width       int
	MaxSamples  int
	MaxPasses   int
	MaxDepth    int   // 0 keeps the scene's depth
	Seed        int64 // Applied only when HasSeed is set
	HasSeed     bool
	TileSize    int
	TileUpdates bool
}

// parseRenderRequest parses and validates render parameters from the
// request query.
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: "default"}

	if name := query.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.MaxSamples, err = parseIntParam(query, "maxSamples", 50, minSamples, maxSamplesCap); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(query, "maxPasses", 7, minPasses, maxPassesCap); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", 0, minDepth, maxDepthCap); err != nil {
		return nil, err
	}
	if req.TileSize, err = parseIntParam(query, "tileSize", 64, minTileSize, maxTileSizeCap); err != nil {
		return nil, err
	}
	if req.TileUpdates, err = parseBoolParam(query, "tiles", true); err != nil {
		return nil, err
	}

	// A seed of zero is meaningful, so absence is tracked separately.
	if value := query.Get("seed"); value != "" {
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
		req.Seed = seed
		req.HasSeed = true
	}

	if req.Width > 800 && req.MaxSamples > 100 {
		s.log.Warn().Int("width", req.Width).Int("maxSamples", req.MaxSamples).
			Msg("large image with high samples may render slowly")
	}

	return req, nil
}

// buildScene constructs and preprocesses the scene for a render request.
func (s *Server) buildScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.NewBuiltin(req.Scene)
	if err != nil {
		return nil, err
	}

	sceneObj.CameraConfig.Width = req.Width
	sceneObj.SamplingConfig.SamplesPerPixel = req.MaxSamples
	if req.MaxDepth > 0 {
		sceneObj.SamplingConfig.MaxDepth = req.MaxDepth
	}
	if req.HasSeed {
		sceneObj.SamplingConfig.Seed = req.Seed
	}

	if err := sceneObj.Preprocess(); err != nil {
		return nil, err
	}
	return sceneObj, nil
}

// parseIntParam parses an integer query parameter, enforcing its range
// when present and falling back to the default when absent.
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
