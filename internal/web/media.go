package web

import (
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"recap/internal/manifest"
	"recap/internal/services"
)

// handleMedia serves a file from the manifest directory only when the
// visitor's prepared story references it by a relative src. Everything else
// in that directory stays private.
func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	id, _ := services.SessionIDFromContext(r.Context())
	st := s.storyFor(id)
	if st == nil {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" || !referencesMedia(st.Manifest, name) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.mediaDir, filepath.FromSlash(name)))
}

// referencesMedia reports whether an image or video slide points at name,
// a cleaned slash path relative to the manifest directory.
func referencesMedia(m *manifest.Manifest, name string) bool {
	for _, slide := range m.Slides() {
		if !slide.Type.Known() {
			continue
		}
		rel, ok := localRelative(slide.Src)
		if ok && rel == name {
			return true
		}
	}
	return false
}

func localRelative(src string) (string, bool) {
	src = strings.TrimSpace(src)
	if src == "" || strings.HasPrefix(src, "/") {
		return "", false
	}
	u, err := url.Parse(src)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	cleaned := path.Clean(u.Path)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	return cleaned, true
}
