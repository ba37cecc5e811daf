package manifest

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var driveFilePath = regexp.MustCompile(`^/file/d/([A-Za-z0-9_-]+)(?:/|$)`)

// DriveFileID extracts the file ID from a Google Drive share link or an
// already-direct uc?id= link.
func DriveFileID(raw string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.EqualFold(parsed.Hostname(), "drive.google.com") {
		return "", false
	}
	if m := driveFilePath.FindStringSubmatch(parsed.Path); m != nil {
		return m[1], true
	}
	if id := parsed.Query().Get("id"); id != "" && (parsed.Path == "/uc" || parsed.Path == "/open") {
		return id, true
	}
	return "", false
}

// IsDriveSharePage reports whether raw is a Drive viewer page rather than a
// downloadable file. Browsers cannot use those as media sources.
func IsDriveSharePage(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.EqualFold(parsed.Hostname(), "drive.google.com") {
		return false
	}
	return driveFilePath.MatchString(parsed.Path) || parsed.Path == "/open"
}

// DriveDirectURL converts a Drive share link into the direct link form used
// in manifests: export=view for images and export=download for videos.
func DriveDirectURL(raw string, kind Kind) (string, error) {
	id, ok := DriveFileID(raw)
	if !ok {
		return "", fmt.Errorf("not a Google Drive file link: %q", raw)
	}
	export := "view"
	if kind == KindVideo {
		export = "download"
	}
	return fmt.Sprintf("https://drive.google.com/uc?export=%s&id=%s", export, url.QueryEscape(id)), nil
}

// Warning is an advisory finding about a manifest entry.
type Warning struct {
	Index      int
	Message    string
	Suggestion string
}

// Lint reports advisory problems. Nothing here is enforced: the manifest is
// still loaded and rendered as is.
func Lint(m *Manifest) []Warning {
	var warnings []Warning
	for i, slide := range m.Slides() {
		switch {
		case !slide.Type.Known():
			warnings = append(warnings, Warning{Index: i, Message: fmt.Sprintf("unrecognized type %q renders without media", slide.Type)})
			continue
		case slide.Src == "":
			warnings = append(warnings, Warning{Index: i, Message: "empty src"})
			continue
		}
		if IsDriveSharePage(slide.Src) {
			w := Warning{Index: i, Message: "Drive share-page link; use a direct link"}
			if direct, err := DriveDirectURL(slide.Src, slide.Type); err == nil {
				w.Suggestion = direct
			}
			warnings = append(warnings, w)
		}
		if slide.Type == KindVideo && strings.Contains(slide.Src, "drive.google.com") {
			warnings = append(warnings, Warning{Index: i, Message: "large videos may not stream well from Drive; prefer a CDN for files over 100MB"})
		}
	}
	return warnings
}
