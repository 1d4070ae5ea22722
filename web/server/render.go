package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/prism-rt/prism/pkg/renderer"
	"github.com/prism-rt/prism/pkg/scene"
)

const (
	writeWait     = 10 * time.Second
	consoleBuffer = 50
)

// Event is the envelope for every websocket message sent to the viewer.
type Event struct {
	Type string          `json:"type"` // "console", "tile", "passComplete", "complete", "error"
	Data json.RawMessage `json:"data"`
}

// TilePayload carries one finished tile within a pass.
type TilePayload struct {
	PassNumber int    `json:"passNumber"`
	TileID     int    `json:"tileId"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ImageData  string `json:"imageData"` // Base64 encoded PNG of just this tile
}

// PassPayload carries the full image state after a completed pass.
type PassPayload struct {
	PassNumber     int    `json:"passNumber"`
	TotalPasses    int    `json:"totalPasses"`
	SamplesSoFar   int    `json:"samplesSoFar"`
	IsLast         bool   `json:"isLast"`
	ElapsedMs      int64  `json:"elapsedMs"`
	PrimitiveCount int    `json:"primitiveCount"`
	ImageData      string `json:"imageData"` // Base64 encoded PNG
	Stats          Stats  `json:"stats"`
}

// Stats mirrors the renderer statistics in the wire format.
type Stats struct {
	TotalPixels     int     `json:"totalPixels"`
	TotalSamples    int     `json:"totalSamples"`
	AverageSamples  float64 `json:"averageSamples"`
	MinSamples      int     `json:"minSamples"`
	MaxSamples      int     `json:"maxSamples"`
	MaxSamplesUsed  int     `json:"maxSamplesUsed"`
	AverageVariance float64 `json:"averageVariance"`
}

// CompletePayload closes out a successful render.
type CompletePayload struct {
	TotalPasses int   `json:"totalPasses"`
	ElapsedMs   int64 `json:"elapsedMs"`
}

// ErrorPayload reports a failed render.
type ErrorPayload struct {
	Message string `json:"message"`
}

// handleRenderWS upgrades the connection to a websocket and streams a
// progressive render over it.
func (s *Server) handleRenderWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.log.Error().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "render aborted")

	err = s.streamRender(r.Context(), conn, r)
	if errors.Is(err, context.Canceled) {
		return
	}
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
		websocket.CloseStatus(err) == websocket.StatusGoingAway {
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("render stream failed")
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

// streamRender runs one render and forwards its events to the client.
// The event loop is the only websocket writer, so console messages
// arriving from worker goroutines go through a channel first.
func (s *Server) streamRender(ctx context.Context, conn *websocket.Conn, r *http.Request) error {
	// The client never sends messages. CloseRead keeps control frames
	// flowing and cancels the context when the client disconnects, which
	// in turn cancels the render.
	ctx = conn.CloseRead(ctx)

	req, err := s.parseRenderRequest(r)
	if err != nil {
		return sendError(ctx, conn, fmt.Sprintf("invalid request: %v", err))
	}

	sceneObj, err := s.buildScene(req)
	if err != nil {
		return sendError(ctx, conn, err.Error())
	}

	consoleChan := make(chan ConsoleMessage, consoleBuffer)
	logger := NewConsoleLogger(s.log, consoleChan)

	config := renderer.ProgressiveConfig{
		TileSize:           req.TileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: req.MaxSamples,
		MaxPasses:          req.MaxPasses,
		NumWorkers:         0, // Auto-detect
	}
	raytracer := renderer.NewProgressiveRaytracer(sceneObj, config, logger)

	s.log.Info().Str("scene", req.Scene).
		Int("width", sceneObj.SamplingConfig.Width).
		Int("height", sceneObj.SamplingConfig.Height).
		Int("maxSamples", req.MaxSamples).
		Msg("render started")

	startTime := time.Now()
	options := renderer.RenderOptions{EnableTileUpdates: req.TileUpdates}
	passChan, tileChan, errChan := raytracer.RenderProgressive(ctx, options)

	var lastPass renderer.PassResult
	for passChan != nil || tileChan != nil || errChan != nil {
		select {
		case msg := <-consoleChan:
			if err := sendEvent(ctx, conn, "console", msg); err != nil {
				return err
			}

		case passResult, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			lastPass = passResult
			if err := s.sendPassComplete(ctx, conn, passResult, req, sceneObj, startTime); err != nil {
				return err
			}

		case tileResult, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			if err := sendTileUpdate(ctx, conn, tileResult); err != nil {
				return err
			}

		case renderErr, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			if renderErr != nil {
				return sendError(ctx, conn, fmt.Sprintf("rendering failed: %v", renderErr))
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// Flush console messages still queued behind the final pass.
drain:
	for {
		select {
		case msg := <-consoleChan:
			if err := sendEvent(ctx, conn, "console", msg); err != nil {
				return err
			}
		default:
			break drain
		}
	}

	elapsed := time.Since(startTime)
	s.recordHistory(ctx, req, sceneObj, lastPass, elapsed)

	return sendEvent(ctx, conn, "complete", CompletePayload{
		TotalPasses: lastPass.PassNumber,
		ElapsedMs:   elapsed.Milliseconds(),
	})
}

func (s *Server) sendPassComplete(ctx context.Context, conn *websocket.Conn,
	passResult renderer.PassResult, req *RenderRequest, sceneObj *scene.Scene, startTime time.Time) error {

	imageData, err := imageToBase64PNG(passResult.Image)
	if err != nil {
		return fmt.Errorf("encoding pass %d image: %w", passResult.PassNumber, err)
	}

	return sendEvent(ctx, conn, "passComplete", PassPayload{
		PassNumber:     passResult.PassNumber,
		TotalPasses:    req.MaxPasses,
		SamplesSoFar:   passResult.SamplesSoFar,
		IsLast:         passResult.IsLast,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		PrimitiveCount: sceneObj.GetPrimitiveCount(),
		ImageData:      imageData,
		Stats: Stats{
			TotalPixels:     passResult.Stats.TotalPixels,
			TotalSamples:    passResult.Stats.TotalSamples,
			AverageSamples:  passResult.Stats.AverageSamples,
			MinSamples:      passResult.Stats.MinSamples,
			MaxSamples:      passResult.Stats.MaxSamples,
			MaxSamplesUsed:  passResult.Stats.MaxSamplesUsed,
			AverageVariance: passResult.Stats.AverageVariance,
		},
	})
}

func sendTileUpdate(ctx context.Context, conn *websocket.Conn, tileResult renderer.TileCompletionResult) error {
	imageData, err := imageToBase64PNG(tileResult.Image)
	if err != nil {
		return fmt.Errorf("encoding tile %d image: %w", tileResult.TileID, err)
	}

	return sendEvent(ctx, conn, "tile", TilePayload{
		PassNumber: tileResult.PassNumber,
		TileID:     tileResult.TileID,
		X:          tileResult.Bounds.Min.X,
		Y:          tileResult.Bounds.Min.Y,
		Width:      tileResult.Bounds.Dx(),
		Height:     tileResult.Bounds.Dy(),
		ImageData:  imageData,
	})
}

// recordHistory stores a completed render, if history is enabled.
func (s *Server) recordHistory(ctx context.Context, req *RenderRequest, sceneObj *scene.Scene,
	lastPass renderer.PassResult, elapsed time.Duration) {

	if s.history == nil {
		return
	}
	record := RenderRecord{
		Scene:     req.Scene,
		Width:     sceneObj.SamplingConfig.Width,
		Height:    sceneObj.SamplingConfig.Height,
		Samples:   lastPass.SamplesSoFar,
		Passes:    lastPass.PassNumber,
		Seed:      sceneObj.SamplingConfig.Seed,
		ElapsedMs: elapsed.Milliseconds(),
	}
	if err := s.history.Record(ctx, record); err != nil {
		s.log.Error().Err(err).Msg("recording render history failed")
	}
}

// sendEvent marshals a payload into the event envelope and writes it.
func sendEvent(ctx context.Context, conn *websocket.Conn, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling %s event: %w", eventType, err)
	}
	msg, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		return err
	}
	return writeTimeout(ctx, writeWait, conn, msg)
}

// sendError reports a handled failure to the client. The connection
// still closes normally so the viewer can show the message.
func sendError(ctx context.Context, conn *websocket.Conn, message string) error {
	return sendEvent(ctx, conn, "error", ErrorPayload{Message: message})
}

func writeTimeout(ctx context.Context, timeout time.Duration, conn *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, msg)
}

// imageToBase64PNG converts an image to a base64-encoded PNG.
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
