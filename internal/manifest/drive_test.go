package manifest_test

import (
	"strings"
	"testing"

	"recap/internal/manifest"
)

func TestDriveDirectURL(t *testing.T) {
	share := "https://drive.google.com/file/d/1ABC123xyz456/view?usp=sharing"

	image, err := manifest.DriveDirectURL(share, manifest.KindImage)
	if err != nil {
		t.Fatalf("DriveDirectURL image: %v", err)
	}
	if image != "https://drive.google.com/uc?export=view&id=1ABC123xyz456" {
		t.Fatalf("unexpected image link %q", image)
	}

	video, err := manifest.DriveDirectURL(share, manifest.KindVideo)
	if err != nil {
		t.Fatalf("DriveDirectURL video: %v", err)
	}
	if video != "https://drive.google.com/uc?export=download&id=1ABC123xyz456" {
		t.Fatalf("unexpected video link %q", video)
	}

	if _, err := manifest.DriveDirectURL("https://example.com/a.png", manifest.KindImage); err == nil {
		t.Fatal("expected error for non-Drive link")
	}
}

func TestDriveFileID(t *testing.T) {
	tests := []struct {
		raw    string
		wantID string
		wantOK bool
	}{
		{"https://drive.google.com/file/d/abc_DEF-1/view", "abc_DEF-1", true},
		{"https://drive.google.com/uc?export=view&id=xyz", "xyz", true},
		{"https://drive.google.com/open?id=qrs", "qrs", true},
		{"https://docs.google.com/file/d/abc/view", "", false},
		{"::not a url", "", false},
	}
	for _, tt := range tests {
		id, ok := manifest.DriveFileID(tt.raw)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("DriveFileID(%q) = %q, %v; want %q, %v", tt.raw, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestLint(t *testing.T) {
	m := manifest.New("inline", []manifest.Slide{
		{Type: manifest.KindImage, Src: "https://drive.google.com/file/d/img1/view?usp=sharing", Text: "a"},
		{Type: manifest.KindImage, Src: "https://cdn.example.com/ok.png", Text: "b"},
		{Type: "audio", Src: "x.mp3", Text: "c"},
		{Type: manifest.KindVideo, Src: "", Text: "d"},
	})

	warnings := manifest.Lint(m)
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %d: %+v", len(warnings), warnings)
	}
	if warnings[0].Index != 0 || !strings.Contains(warnings[0].Suggestion, "export=view&id=img1") {
		t.Fatalf("unexpected share-link warning %+v", warnings[0])
	}
	if warnings[1].Index != 2 || !strings.Contains(warnings[1].Message, "unrecognized") {
		t.Fatalf("unexpected type warning %+v", warnings[1])
	}
	if warnings[2].Index != 3 || warnings[2].Message != "empty src" {
		t.Fatalf("unexpected src warning %+v", warnings[2])
	}
}
