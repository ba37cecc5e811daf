package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recap/internal/manifest"
	"recap/internal/session"
	"recap/internal/testsupport"
)

func storySlides() []manifest.Slide {
	return []manifest.Slide{
		{Type: manifest.KindImage, Src: "good.png", Text: "Arrival <day one>"},
		{Type: manifest.KindImage, Src: "missing.png", Text: "Lost photo"},
		{Type: "audio", Src: "song.mp3", Text: "Soundtrack"},
	}
}

func TestCheckReportsSlidesAndWarnings(t *testing.T) {
	isolateEnv(t)
	slides := append(storySlides(), manifest.Slide{
		Type: manifest.KindImage,
		Src:  "https://drive.google.com/file/d/abc123/view?usp=sharing",
		Text: "Shared",
	})
	srv := testsupport.MediaServer(t, slides)
	cfg := testsupport.NewConfig(t, testsupport.WithManifest(srv.URL+"/recap.json"))
	path := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"check"}, path, nil)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "4 slides (3 image, 0 video, 1 other)")
	requireContains(t, out, "unrecognized type")
	requireContains(t, out, "https://drive.google.com/uc?export=view&id=abc123")

	if _, _, err := runCLI(t, []string{"check", "--strict"}, path, nil); err == nil {
		t.Fatal("expected --strict to fail on warnings")
	}
}

func TestCheckFailsOnMissingManifest(t *testing.T) {
	home := isolateEnv(t)
	cfg := testsupport.NewConfig(t, testsupport.WithManifest(filepath.Join(home, "nope.json")))
	path := writeTestConfig(t, cfg)

	if _, _, err := runCLI(t, []string{"check"}, path, nil); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestPreloadPrintsResults(t *testing.T) {
	isolateEnv(t)
	srv := testsupport.MediaServer(t, storySlides())
	cfg := testsupport.NewConfig(t, testsupport.WithManifest(srv.URL+"/recap.json"))
	path := writeTestConfig(t, cfg)

	out, stderr, err := runCLI(t, []string{"preload"}, path, nil)
	if err != nil {
		t.Fatalf("preload: %v", err)
	}
	requireContains(t, out, "8x8")
	requireContains(t, out, "image/png")
	requireContains(t, out, "1 loaded, 1 failed, 1 without media")
	requireContains(t, stderr, "100%")
}

func TestRenderWritesStandalonePage(t *testing.T) {
	isolateEnv(t)
	srv := testsupport.MediaServer(t, storySlides())
	cfg := testsupport.NewConfig(t,
		testsupport.WithManifest(srv.URL+"/recap.json"),
		testsupport.WithLanguage("fr"),
	)
	path := writeTestConfig(t, cfg)
	target := filepath.Join(t.TempDir(), "recap.html")

	_, stderr, err := runCLI(t, []string{"render", "-o", target}, path, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	requireContains(t, stderr, "Wrote 3 slides")

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	page := string(data)
	requireContains(t, page, `lang="fr"`)
	requireContains(t, page, `src="`+srv.URL+`/good.png"`)
	requireContains(t, page, "Arrival &lt;day one&gt;")
	requireContains(t, page, "Média indisponible")
	if got := strings.Count(page, "data-slide-index="); got != 3 {
		t.Fatalf("expected 3 slides, got %d", got)
	}
}

func TestDriveLink(t *testing.T) {
	isolateEnv(t)
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"drive-link", "https://drive.google.com/file/d/abc123/view?usp=sharing"}, "https://drive.google.com/uc?export=view&id=abc123"},
		{[]string{"drive-link", "--type", "video", "https://drive.google.com/file/d/abc123/view"}, "https://drive.google.com/uc?export=download&id=abc123"},
	}
	for _, tt := range tests {
		out, _, err := runCLI(t, tt.args, "", nil)
		if err != nil {
			t.Fatalf("drive-link %v: %v", tt.args, err)
		}
		if strings.TrimSpace(out) != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, out)
		}
	}

	if _, _, err := runCLI(t, []string{"drive-link", "https://example.com/a.png"}, "", nil); err == nil {
		t.Fatal("expected error for non-Drive link")
	}
	if _, _, err := runCLI(t, []string{"drive-link", "--type", "gif", "https://drive.google.com/file/d/abc/view"}, "", nil); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestHashPasswordFromStdin(t *testing.T) {
	isolateEnv(t)
	out, _, err := runCLI(t, []string{"hash-password"}, "", strings.NewReader("hunter2\n"))
	if err != nil {
		t.Fatalf("hash-password: %v", err)
	}
	gate, err := session.NewGate("", strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("NewGate with printed hash: %v", err)
	}
	if !gate.Check("hunter2") {
		t.Fatal("printed hash does not match the password")
	}
	if gate.Check("hunter3") {
		t.Fatal("printed hash matched the wrong password")
	}
}

func TestLogsPrintsTrailingLines(t *testing.T) {
	isolateEnv(t)
	cfg := testsupport.NewConfig(t)
	path := writeTestConfig(t, cfg)
	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.LogPath(), []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"logs", "-n", "2"}, path, nil)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if out != "two\nthree\n" {
		t.Fatalf("unexpected output %q", out)
	}
}
