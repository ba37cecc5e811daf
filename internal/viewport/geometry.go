package viewport

import "math"

// Threshold is the visible fraction at which a target counts as in view.
const Threshold = 0.5

// Rect is an axis-aligned box in CSS pixels.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns the box area; degenerate boxes have zero area.
func (r Rect) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Intersect returns the overlap of r and o.
func (r Rect) Intersect(o Rect) Rect {
	left := math.Max(r.Left, o.Left)
	top := math.Max(r.Top, o.Top)
	right := math.Min(r.Left+r.Width, o.Left+o.Width)
	bottom := math.Min(r.Top+r.Height, o.Top+o.Height)
	if right <= left || bottom <= top {
		return Rect{Left: left, Top: top}
	}
	return Rect{Top: top, Left: left, Width: right - left, Height: bottom - top}
}

// VisibleRatio is the fraction of element inside container, in [0,1].
// An empty element is never visible.
func VisibleRatio(element, container Rect) float64 {
	area := element.Area()
	if area == 0 || !finite(area) {
		return 0
	}
	ratio := element.Intersect(container).Area() / area
	if !finite(ratio) {
		return 0
	}
	return math.Min(math.Max(ratio, 0), 1)
}

// Metrics are the scroll container's dimensions at one instant.
type Metrics struct {
	ScrollTop    float64 `json:"scrollTop"`
	ScrollHeight float64 `json:"scrollHeight"`
	ClientHeight float64 `json:"clientHeight"`
}

// ScrollProgress is how far the container has been scrolled, in [0,100].
// A container whose content does not overflow reports 0.
func ScrollProgress(m Metrics) float64 {
	overflow := m.ScrollHeight - m.ClientHeight
	if overflow <= 0 || !finite(overflow) || !finite(m.ScrollTop) {
		return 0
	}
	p := m.ScrollTop / overflow * 100
	return math.Min(math.Max(p, 0), 100)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
