package testsupport

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"recap/internal/manifest"
)

// PNG returns an encoded w×h image.
func PNG(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{G: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// WriteManifest writes slides as a JSON manifest at path.
func WriteManifest(t testing.TB, path string, slides []manifest.Slide) {
	t.Helper()
	data, err := json.Marshal(slides)
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MediaServer serves a manifest at /recap.json and a valid image at
// /good.png. Every other path is a 404.
func MediaServer(t testing.TB, slides []manifest.Slide) *httptest.Server {
	t.Helper()
	body, err := json.Marshal(slides)
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	img := PNG(t, 8, 8)
	mux := http.NewServeMux()
	mux.HandleFunc("/recap.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})
	mux.HandleFunc("/good.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(img)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
