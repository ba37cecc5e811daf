package web

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"recap/internal/logging"
	"recap/internal/services"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// requestContext tags each request with a correlation ID and logs it.
func (s *Server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := services.WithRequestID(r.Context(), uuid.NewString())
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))
		logging.WithContext(ctx, s.logger).Debug("request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", rec.status),
			logging.Duration("elapsed", time.Since(started)),
		)
	})
}

// requireSession rejects visitors who have not passed the gate.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.sessionID(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, services.ErrUnauthorized.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(services.WithSessionID(r.Context(), id)))
	})
}

// sessionID returns the visitor's session when the cookie names a granted
// session.
func (s *Server) sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(s.cfg.Gate.CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	ok, err := s.sessions.Granted(r.Context(), cookie.Value)
	if err != nil {
		s.logger.Error("session lookup failed", logging.Error(err))
		return "", false
	}
	if !ok {
		s.forgetStory(cookie.Value)
	}
	return cookie.Value, ok
}
