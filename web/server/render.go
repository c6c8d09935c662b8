package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// BandUpdate represents one finished band of scanlines sent via SSE
type BandUpdate struct {
	StartLine  int    `json:"startLine"`
	EndLine    int    `json:"endLine"`
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this band
	BandNumber int    `json:"bandNumber"` // Bands finished so far, including this one
	TotalBands int    `json:"totalBands"`
	LinesDone  int    `json:"linesDone"`
	TotalLines int    `json:"totalLines"`
	ElapsedMs  int64  `json:"elapsedMs"`
}

// CompleteUpdate summarizes a finished frame
type CompleteUpdate struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Lines          int     `json:"lines"`
	Bands          int     `json:"bands"`
	Workers        int     `json:"workers"`
	ElapsedMs      int64   `json:"elapsedMs"`
	LinesPerSecond float64 `json:"linesPerSecond"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// handleRenderStream renders one frame and streams every finished band via SSE
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()
	var consoleWG sync.WaitGroup
	consoleWG.Add(1)
	go func() {
		defer consoleWG.Done()
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	config := renderer.Config{Width: req.Width, Height: req.Height, NumWorkers: req.Workers}
	raytracer, err := renderer.NewRaytracer(config, webLogger)
	if err != nil {
		close(consoleChan)
		consoleWG.Wait()
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	startTime := time.Now()
	totalBands := len(renderer.NewBands(req.Height, raytracer.Config().BandSize))
	bandsDone, linesDone := 0, 0

	_, stats, err := raytracer.RenderFrame(ctx, sceneObj, func(band renderer.BandResult) error {
		bandsDone++
		linesDone += band.EndLine - band.StartLine
		return s.sendBandUpdate(ctx, sseEventChan, band, BandUpdate{
			BandNumber: bandsDone,
			TotalBands: totalBands,
			LinesDone:  linesDone,
			TotalLines: req.Height,
			ElapsedMs:  time.Since(startTime).Milliseconds(),
		})
	})

	// Console messages logged during the frame go out before the final event
	close(consoleChan)
	consoleWG.Wait()

	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	complete := CompleteUpdate{
		Width:          req.Width,
		Height:         req.Height,
		Lines:          stats.Lines,
		Bands:          stats.Bands,
		Workers:        stats.Workers,
		ElapsedMs:      stats.Duration.Milliseconds(),
		LinesPerSecond: stats.LinesPerSecond(),
	}
	data, err := json.Marshal(complete)
	if err != nil {
		log.Printf("Error marshaling completion: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents writes every event from sseEventChan until it is closed.
// It is the only goroutine that touches w.
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for event := range sseEventChan {
		// Keep draining after a disconnect so senders never block
		if ctx.Err() != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			continue
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		}
	}
}

// sendBandUpdate encodes a finished band and queues it as a progress event
func (s *Server) sendBandUpdate(ctx context.Context, sseEventChan chan<- SSEEvent, band renderer.BandResult, update BandUpdate) error {
	imageData, err := imageToBase64PNG(band.Image)
	if err != nil {
		return fmt.Errorf("failed to encode band %d-%d: %w", band.StartLine, band.EndLine, err)
	}
	update.StartLine = band.StartLine
	update.EndLine = band.EndLine
	update.ImageData = imageData

	data, err := json.Marshal(update)
	if err != nil {
		return err
	}

	select {
	case sseEventChan <- SSEEvent{Type: "progress", Data: string(data)}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
