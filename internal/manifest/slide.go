package manifest

import "strings"

// Kind names the media variant of a slide.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Known reports whether the kind is one of the recognized media variants.
// Unknown kinds are kept so slide indexes stay stable; they render without media.
func (k Kind) Known() bool {
	return k == KindImage || k == KindVideo
}

// Slide is one entry of the manifest.
type Slide struct {
	Type Kind   `json:"type" yaml:"type"`
	Src  string `json:"src" yaml:"src"`
	Text string `json:"text" yaml:"text"`
}

// Manifest is the ordered, immutable slide list for one story.
type Manifest struct {
	slides []Slide
	source string
}

// New builds a manifest from already-validated slides. It copies the input.
func New(source string, slides []Slide) *Manifest {
	cp := make([]Slide, len(slides))
	copy(cp, slides)
	for i := range cp {
		cp[i].Type = Kind(strings.TrimSpace(string(cp[i].Type)))
		cp[i].Src = strings.TrimSpace(cp[i].Src)
	}
	return &Manifest{slides: cp, source: source}
}

// Len returns the number of slides.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.slides)
}

// Slide returns the slide at index i.
func (m *Manifest) Slide(i int) Slide {
	return m.slides[i]
}

// Slides returns a copy of the slide list.
func (m *Manifest) Slides() []Slide {
	if m == nil {
		return nil
	}
	cp := make([]Slide, len(m.slides))
	copy(cp, m.slides)
	return cp
}

// Source is where the manifest was loaded from.
func (m *Manifest) Source() string {
	if m == nil {
		return ""
	}
	return m.source
}

// Counts tallies slides per kind; unrecognized kinds are grouped under "other".
func (m *Manifest) Counts() map[string]int {
	counts := map[string]int{}
	for _, slide := range m.Slides() {
		if slide.Type.Known() {
			counts[string(slide.Type)]++
		} else {
			counts["other"]++
		}
	}
	return counts
}
