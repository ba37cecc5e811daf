package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"recap/internal/logging"
	"recap/internal/render"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

type gateView struct {
	Title  string
	Lang   string
	Prompt string
	Unlock string
	Error  string
}

type shellView struct {
	Title        string
	Lang         string
	Loading      string
	ScrollHint   string
	Notification string
}

func staticHandler() http.Handler {
	files := http.FileServer(http.FS(staticFS))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/static/recap.css" {
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
			_, _ = w.Write([]byte(render.Stylesheet))
			return
		}
		files.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.sessionID(r); ok {
		s.renderPage(w, http.StatusOK, "shell", shellView{
			Title:        s.cfg.Story.Title,
			Lang:         s.catalog.Language(),
			Loading:      s.catalog.Message(0, 1),
			ScrollHint:   s.catalog.ScrollHint(),
			Notification: s.catalog.Notification(),
		})
		return
	}
	s.renderGate(w, http.StatusOK, "")
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderGate(w, http.StatusBadRequest, s.catalog.WrongPassword())
		return
	}
	if !s.gate.Check(r.PostFormValue("password")) {
		logging.WithContext(r.Context(), s.logger).Info("gate rejected password",
			logging.String("remote_addr", r.RemoteAddr))
		s.renderGate(w, http.StatusUnauthorized, s.catalog.WrongPassword())
		return
	}

	id, err := s.sessions.Grant(r.Context(), r.RemoteAddr, r.UserAgent())
	if err != nil {
		s.logger.Error("grant session failed", logging.Error(err))
		writeError(w, http.StatusInternalServerError, "session unavailable")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Gate.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	m, err := s.pipeline.Loader.Load(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, s.catalog.Notification())
		return
	}
	writeJSON(w, http.StatusOK, m.Slides())
}

func (s *Server) renderGate(w http.ResponseWriter, status int, message string) {
	s.renderPage(w, status, "gate", gateView{
		Title:  s.cfg.Story.Title,
		Lang:   s.catalog.Language(),
		Prompt: s.catalog.Prompt(),
		Unlock: s.catalog.Unlock(),
		Error:  message,
	})
}

func (s *Server) renderPage(w http.ResponseWriter, status int, name string, data any) {
	var sb strings.Builder
	if err := pageTemplates.ExecuteTemplate(&sb, name, data); err != nil {
		s.logger.Error("render page failed", logging.String("page", name), logging.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(sb.String()))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
