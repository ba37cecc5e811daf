package render

import (
	"errors"
	"strings"
	"testing"

	"recap/internal/manifest"
	"recap/internal/preload"
)

func loaded(i int, slide manifest.Slide, asset *preload.Asset) preload.Result {
	return preload.Result{Index: i, Slide: slide, Status: preload.StatusLoaded, Asset: asset}
}

func TestUnitsKeepsOrderAndFailures(t *testing.T) {
	slides := []manifest.Slide{
		{Type: manifest.KindImage, Src: "a.jpg", Text: "first"},
		{Type: manifest.KindImage, Src: "broken.jpg", Text: "second"},
		{Type: manifest.KindVideo, Src: "v.mp4", Text: "third"},
	}
	m := manifest.New("recap.json", slides)
	results := []preload.Result{
		loaded(0, slides[0], &preload.Asset{Kind: manifest.KindImage, Width: 800, Height: 600}),
		{Index: 1, Slide: slides[1], Status: preload.StatusFailed, Err: errors.New("404")},
		loaded(2, slides[2], &preload.Asset{Kind: manifest.KindVideo, Muted: true}),
	}

	units, err := Units(m, results)
	if err != nil {
		t.Fatalf("Units: %v", err)
	}
	if len(units) != 3 {
		t.Fatalf("expected 3 units, got %d", len(units))
	}
	for i, u := range units {
		if u.Index != i || u.Text != slides[i].Text {
			t.Fatalf("unit %d out of order: %+v", i, u)
		}
	}
	if units[0].ID != "slide-0" || units[0].Alt != "Slide 1" || units[0].Width != 800 {
		t.Fatalf("unexpected first unit %+v", units[0])
	}
	if units[1].Ready {
		t.Fatal("failed slide should not be ready")
	}
	if units[2].TextID != "slide-2-text" || units[2].MediaID != "slide-2-media" || !units[2].IsVideo() {
		t.Fatalf("unexpected video unit %+v", units[2])
	}
}

func TestUnitsRejectsMismatch(t *testing.T) {
	m := manifest.New("recap.json", []manifest.Slide{{Type: manifest.KindImage, Src: "a.jpg"}})
	if _, err := Units(m, nil); err == nil {
		t.Fatal("expected error for missing results")
	}
}

func TestEscapeText(t *testing.T) {
	if got := EscapeText("<b>Hi</b>"); got != "&lt;b&gt;Hi&lt;/b&gt;" {
		t.Fatalf("EscapeText = %q", got)
	}
	if got := EscapeText(`Tom & "Jerry"`); got != "Tom &amp; &#34;Jerry&#34;" {
		t.Fatalf("EscapeText = %q", got)
	}
}

func TestSlidesEscapesText(t *testing.T) {
	slides := []manifest.Slide{{Type: manifest.KindImage, Src: "a.jpg", Text: "<b>Hi</b>"}}
	m := manifest.New("recap.json", slides)
	units, err := Units(m, []preload.Result{loaded(0, slides[0], &preload.Asset{Kind: manifest.KindImage})})
	if err != nil {
		t.Fatal(err)
	}
	out, err := SlidesHTML(units, "unavailable")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "&lt;b&gt;Hi&lt;/b&gt;") {
		t.Fatalf("text not escaped:\n%s", out)
	}
	if strings.Contains(out, "<b>Hi</b>") {
		t.Fatalf("raw markup leaked:\n%s", out)
	}
}

func TestSlidesMarkup(t *testing.T) {
	slides := []manifest.Slide{
		{Type: manifest.KindImage, Src: "good.jpg", Text: "ok"},
		{Type: manifest.KindImage, Src: "bad.jpg", Text: "still here"},
		{Type: manifest.KindVideo, Src: "clip.mp4", Text: "moving"},
		{Type: "gallery", Src: "x", Text: "no media"},
	}
	m := manifest.New("recap.json", slides)
	units, err := Units(m, []preload.Result{
		loaded(0, slides[0], &preload.Asset{Kind: manifest.KindImage, Width: 10, Height: 20}),
		{Index: 1, Slide: slides[1], Status: preload.StatusFailed},
		loaded(2, slides[2], &preload.Asset{Kind: manifest.KindVideo}),
		loaded(3, slides[3], nil),
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err := SlidesHTML(units, "Media unavailable")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`id="slide-0"`,
		`src="good.jpg"`,
		`alt="Slide 1"`,
		`loading="lazy"`,
		`width="10" height="20"`,
		`slide-broken`,
		`Media unavailable`,
		`still here`,
		`playsinline muted loop preload="auto"`,
		`data-video-index="2"`,
		`id="slide-3-text"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, `src="bad.jpg"`) {
		t.Error("failed media should render a placeholder")
	}
	if strings.Contains(out, `src="x"`) {
		t.Error("unknown slide type should render without media")
	}
	if strings.Contains(out, "autoplay") {
		t.Error("live fragment should not autoplay")
	}
}

func TestSlidesRejectsScriptURL(t *testing.T) {
	slides := []manifest.Slide{{Type: manifest.KindImage, Src: "javascript:alert(1)", Text: "x"}}
	m := manifest.New("recap.json", slides)
	units, _ := Units(m, []preload.Result{loaded(0, slides[0], &preload.Asset{Kind: manifest.KindImage})})
	out, err := SlidesHTML(units, "")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "javascript:alert") {
		t.Fatalf("unsafe URL emitted:\n%s", out)
	}
}

func TestPageStatic(t *testing.T) {
	slides := []manifest.Slide{{Type: manifest.KindVideo, Src: "clip.mp4", Text: "hello"}}
	m := manifest.New("recap.json", slides)
	units, _ := Units(m, []preload.Result{loaded(0, slides[0], &preload.Asset{Kind: manifest.KindVideo})})

	var sb strings.Builder
	if err := Page(&sb, PageData{Title: "Our <year>", Lang: "fr", Units: units, Static: true}); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{`<html lang="fr">`, "Our &lt;year&gt;", "autoplay", "slide-content visible", ".slide-media"} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestUnitsResolveRelativeSrcAgainstRemoteManifest(t *testing.T) {
	slides := []manifest.Slide{
		{Type: manifest.KindImage, Src: "media/a.jpg"},
		{Type: manifest.KindImage, Src: "https://cdn.example.com/b.jpg"},
	}
	m := manifest.New("https://example.com/story/recap.json", slides)
	units, err := Units(m, []preload.Result{
		loaded(0, slides[0], &preload.Asset{}),
		loaded(1, slides[1], &preload.Asset{}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if units[0].Src != "https://example.com/story/media/a.jpg" {
		t.Fatalf("relative src = %q", units[0].Src)
	}
	if units[1].Src != "https://cdn.example.com/b.jpg" {
		t.Fatalf("absolute src = %q", units[1].Src)
	}
}

func TestSlidesEmptySrcShowsPlaceholder(t *testing.T) {
	slides := []manifest.Slide{
		{Type: manifest.KindImage, Src: "", Text: "no picture"},
		{Type: manifest.KindVideo, Src: "  ", Text: "no clip"},
	}
	m := manifest.New("recap.json", slides)
	units, err := Units(m, []preload.Result{
		{Index: 0, Slide: slides[0], Status: preload.StatusFailed},
		{Index: 1, Slide: slides[1], Status: preload.StatusFailed},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, u := range units {
		if !u.Broken() || u.HasMedia() {
			t.Fatalf("unit %d: Broken=%v HasMedia=%v", u.Index, u.Broken(), u.HasMedia())
		}
	}
	out, err := SlidesHTML(units, "Media unavailable")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(out, "slide-placeholder"); got != 2 {
		t.Fatalf("expected 2 placeholders, got %d:\n%s", got, out)
	}
	if strings.Contains(out, "<img") || strings.Contains(out, "<video") {
		t.Fatalf("empty src should not render media elements:\n%s", out)
	}
}
