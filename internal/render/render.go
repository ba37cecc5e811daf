package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.tmpl templates/recap.css
var templateFS embed.FS

var templates = template.Must(template.New("render").ParseFS(templateFS, "templates/*.tmpl"))

// Stylesheet is the shared story stylesheet.
var Stylesheet = mustRead("templates/recap.css")

func mustRead(name string) string {
	data, err := templateFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// PageData feeds the standalone page template.
type PageData struct {
	Title string
	Lang  string
	Units []Unit
	// Static reveals all text and autoplays videos, for pages viewed without
	// a live viewport channel.
	Static bool
	// BrokenLabel captions media that failed to preload.
	BrokenLabel string
}

type pageView struct {
	PageData
	Stylesheet template.CSS
}

// Slides writes the slide fragment for units. Text and sources are escaped
// by html/template.
func Slides(w io.Writer, units []Unit, brokenLabel string) error {
	return templates.ExecuteTemplate(w, "slides", pageView{PageData: PageData{Units: units, BrokenLabel: brokenLabel}})
}

// SlidesHTML renders the slide fragment to a string.
func SlidesHTML(units []Unit, brokenLabel string) (string, error) {
	var buf bytes.Buffer
	if err := Slides(&buf, units, brokenLabel); err != nil {
		return "", fmt.Errorf("render slides: %w", err)
	}
	return buf.String(), nil
}

// Page writes a complete HTML document containing the slides.
func Page(w io.Writer, data PageData) error {
	if data.Lang == "" {
		data.Lang = "en"
	}
	return templates.ExecuteTemplate(w, "page", pageView{PageData: data, Stylesheet: template.CSS(Stylesheet)})
}
