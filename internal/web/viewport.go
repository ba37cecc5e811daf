package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"recap/internal/logging"
	"recap/internal/services"
	"recap/internal/viewport"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 64
)

var errSendBufferFull = errors.New("viewport send buffer full")

// clientMessage is a client report: frame, scroll, or play_rejected.
type clientMessage struct {
	Type      string                   `json:"type"`
	Container viewport.Rect            `json:"container"`
	Targets   map[string]viewport.Rect `json:"targets"`
	viewport.Metrics
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// serverMessage is an effect for the client to apply.
type serverMessage struct {
	Type    string  `json:"type"`
	Index   int     `json:"index"`
	Percent float64 `json:"percent"`
}

// channelEffects queues animator effects for the connection's writer.
type channelEffects struct {
	send chan serverMessage
}

func (e *channelEffects) push(m serverMessage) error {
	select {
	case e.send <- m:
		return nil
	default:
		return errSendBufferFull
	}
}

func (e *channelEffects) Reveal(i int) { _ = e.push(serverMessage{Type: "reveal", Index: i}) }
func (e *channelEffects) Play(i int) error {
	return e.push(serverMessage{Type: "play", Index: i})
}
func (e *channelEffects) Pause(i int) { _ = e.push(serverMessage{Type: "pause", Index: i}) }
func (e *channelEffects) Progress(p float64) {
	_ = e.push(serverMessage{Type: "progress", Percent: p})
}
func (e *channelEffects) HideHint() { _ = e.push(serverMessage{Type: "hide_hint"}) }

// handleViewport drives the animator for one rendered story. The reader
// runs on the handler goroutine; a single writer goroutine owns writes.
func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	id, _ := services.SessionIDFromContext(r.Context())
	st := s.storyFor(id)
	if st == nil {
		writeError(w, http.StatusConflict, "story not prepared")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", logging.Error(err))
		return
	}
	logger := logging.WithContext(r.Context(), s.logger)

	effects := &channelEffects{send: make(chan serverMessage, sendBuffer)}
	animator := viewport.NewAnimator(st.Units, effects, logger)

	done := make(chan struct{})
	go s.writeLoop(conn, effects.send, done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("viewport connection closed", logging.Error(err))
			}
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		switch msg.Type {
		case "frame":
			animator.Frame(viewport.Frame{Container: msg.Container, Targets: msg.Targets})
		case "scroll":
			animator.Scroll(msg.Metrics)
		case "play_rejected":
			animator.PlaybackRejected(msg.Index, msg.Reason)
		default:
			logger.Debug("unknown viewport message", logging.String("type", msg.Type))
		}
	}
	close(effects.send)
	<-done
}

func (s *Server) writeLoop(conn *websocket.Conn, send <-chan serverMessage, done chan<- struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
		close(done)
	}()
	for {
		select {
		case msg, ok := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
