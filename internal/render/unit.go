package render

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"recap/internal/manifest"
	"recap/internal/preload"
)

// Unit is the renderable form of one slide. IDs are stable per index so the
// viewport channel can address the text and media elements.
type Unit struct {
	Index   int
	ID      string
	TextID  string
	MediaID string
	Kind    manifest.Kind
	Src     string
	Text    string
	Alt     string
	Ready   bool
	Width   int
	Height  int
}

// HasMedia reports whether the unit renders an image or video element.
func (u Unit) HasMedia() bool {
	return u.Kind.Known() && u.Src != ""
}

// Broken reports whether an image or video slide failed to load and shows
// the placeholder instead, including slides with no src at all.
func (u Unit) Broken() bool {
	return u.Kind.Known() && !u.Ready
}

// IsVideo reports whether the unit's media is a video.
func (u Unit) IsVideo() bool {
	return u.Kind == manifest.KindVideo
}

// Units builds one unit per slide in manifest order. results must hold one
// entry per slide, indexed by slide position.
func Units(m *manifest.Manifest, results []preload.Result) ([]Unit, error) {
	slides := m.Slides()
	if len(results) != len(slides) {
		return nil, fmt.Errorf("render: %d results for %d slides", len(results), len(slides))
	}

	base := m.Source()
	units := make([]Unit, len(slides))
	for i, slide := range slides {
		res := results[i]
		if res.Index != i {
			return nil, fmt.Errorf("render: result %d carries index %d", i, res.Index)
		}
		unit := Unit{
			Index:   i,
			ID:      fmt.Sprintf("slide-%d", i),
			TextID:  fmt.Sprintf("slide-%d-text", i),
			MediaID: fmt.Sprintf("slide-%d-media", i),
			Kind:    slide.Type,
			Src:     browserSrc(base, slide.Src),
			Text:    slide.Text,
			Alt:     fmt.Sprintf("Slide %d", i+1),
			Ready:   res.Ready(),
		}
		if res.Asset != nil {
			unit.Width = res.Asset.Width
			unit.Height = res.Asset.Height
		}
		units[i] = unit
	}
	return units, nil
}

// browserSrc resolves a relative src against a remote manifest URL. Relative
// srcs of a local manifest stay relative; the daemon serves that directory.
func browserSrc(base, src string) string {
	b, err := url.Parse(base)
	if err != nil || (b.Scheme != "http" && b.Scheme != "https") {
		return src
	}
	ref, err := url.Parse(strings.TrimSpace(src))
	if err != nil || ref.IsAbs() || src == "" {
		return src
	}
	return b.ResolveReference(ref).String()
}

// EscapeText escapes the characters that are significant in HTML so slide
// text is always shown literally.
func EscapeText(s string) string {
	return html.EscapeString(s)
}
