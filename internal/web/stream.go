package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"recap/internal/logging"
	"recap/internal/progress"
	"recap/internal/services"
	"recap/internal/story"
)

// sseWriter frames server-sent events. Writes are serialized because
// progress arrives from preload goroutines.
type sseWriter struct {
	mu  sync.Mutex
	w   http.ResponseWriter
	rc  *http.ResponseController
	err error
}

func newSSEWriter(w http.ResponseWriter) *sseWriter {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	return &sseWriter{w: w, rc: http.NewResponseController(w)}
}

func (s *sseWriter) send(event string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		s.err = err
		return err
	}
	if err := s.rc.Flush(); err != nil {
		s.err = err
	}
	return s.err
}

type readyEvent struct {
	HTML   string `json:"html"`
	Slides int    `json:"slides"`
	Failed int    `json:"failed"`
}

type errorEvent struct {
	Message string `json:"message"`
}

// handleStream runs the pipeline for this visitor and streams its progress.
// The stream ends with exactly one ready or error event.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithContext(ctx, s.logger)
	sse := newSSEWriter(w)

	tracker := progress.NewTracker(s.catalog, func(snap progress.Snapshot) {
		if err := sse.send("progress", snap); err != nil {
			logger.Debug("progress event dropped", logging.Error(err))
		}
	}, logger)

	st, err := s.pipeline.Run(ctx, tracker)
	if err != nil {
		_ = sse.send("error", errorEvent{Message: story.Notification(err, s.catalog)})
		return
	}

	fragment, err := st.Fragment(s.catalog)
	if err != nil {
		logger.Error("render fragment failed", logging.Error(err))
		_ = sse.send("error", errorEvent{Message: s.catalog.Notification()})
		return
	}
	if id, ok := services.SessionIDFromContext(ctx); ok {
		s.rememberStory(id, st)
	}
	_ = sse.send("ready", readyEvent{HTML: fragment, Slides: len(st.Units), Failed: st.Summary.Failed})
}
