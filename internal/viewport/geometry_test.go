package viewport

import (
	"math"
	"testing"
)

func TestVisibleRatio(t *testing.T) {
	container := Rect{Top: 0, Left: 0, Width: 400, Height: 800}
	tests := []struct {
		name string
		el   Rect
		want float64
	}{
		{"fully inside", Rect{Top: 100, Width: 400, Height: 200}, 1},
		{"half above", Rect{Top: -100, Width: 400, Height: 200}, 0.5},
		{"quarter below", Rect{Top: 750, Width: 400, Height: 200}, 0.25},
		{"outside", Rect{Top: 900, Width: 400, Height: 200}, 0},
		{"touching edge", Rect{Top: 800, Width: 400, Height: 200}, 0},
		{"empty element", Rect{Top: 100, Width: 0, Height: 200}, 0},
		{"larger than container", Rect{Top: -800, Width: 400, Height: 1600}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisibleRatio(tt.el, container); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("VisibleRatio = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScrollProgress(t *testing.T) {
	tests := []struct {
		name string
		m    Metrics
		want float64
	}{
		{"top", Metrics{ScrollTop: 0, ScrollHeight: 2000, ClientHeight: 1000}, 0},
		{"middle", Metrics{ScrollTop: 500, ScrollHeight: 2000, ClientHeight: 1000}, 50},
		{"bottom", Metrics{ScrollTop: 1000, ScrollHeight: 2000, ClientHeight: 1000}, 100},
		{"overscroll", Metrics{ScrollTop: 1200, ScrollHeight: 2000, ClientHeight: 1000}, 100},
		{"negative bounce", Metrics{ScrollTop: -30, ScrollHeight: 2000, ClientHeight: 1000}, 0},
		{"no overflow", Metrics{ScrollTop: 0, ScrollHeight: 800, ClientHeight: 800}, 0},
		{"content shorter", Metrics{ScrollTop: 10, ScrollHeight: 500, ClientHeight: 800}, 0},
		{"nan", Metrics{ScrollTop: math.NaN(), ScrollHeight: 2000, ClientHeight: 1000}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScrollProgress(tt.m)
			if math.IsNaN(got) || got != tt.want {
				t.Fatalf("ScrollProgress = %v, want %v", got, tt.want)
			}
		})
	}
}
