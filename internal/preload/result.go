package preload

import (
	"fmt"
	"time"

	"recap/internal/manifest"
	"recap/internal/services"
)

// Status is the terminal outcome of one asset load.
type Status string

const (
	StatusLoaded Status = "loaded"
	StatusFailed Status = "failed"
)

// Asset is the handle to preloaded media. Width and Height are set for
// images only.
type Asset struct {
	Kind        manifest.Kind
	ContentType string
	Width       int
	Height      int
	Bytes       int64
	Muted       bool
}

// Result is the outcome for the slide at Index. Asset is nil for failed
// slides and for slides of an unrecognized type.
type Result struct {
	Index   int
	Slide   manifest.Slide
	Status  Status
	Asset   *Asset
	Err     error
	Elapsed time.Duration
}

// Ready reports whether the slide's media can be shown.
func (r Result) Ready() bool {
	return r.Status == StatusLoaded
}

// AssetError records why a single asset failed. It is absorbed by the
// preloader and matches services.ErrAssetLoad.
type AssetError struct {
	Index int
	Kind  manifest.Kind
	Src   string
	Err   error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("slide %d: %s %q: %v", e.Index, e.Kind, e.Src, e.Err)
}

func (e *AssetError) Unwrap() []error {
	return []error{services.ErrAssetLoad, e.Err}
}

// Summary tallies a finished preload.
type Summary struct {
	Loaded  int
	Failed  int
	Skipped int
	Bytes   int64
	Slowest time.Duration
}

// Summarize counts loaded, failed, and media-less slides.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r.Status == StatusFailed:
			s.Failed++
		case r.Asset == nil:
			s.Skipped++
		default:
			s.Loaded++
			s.Bytes += r.Asset.Bytes
		}
		if r.Elapsed > s.Slowest {
			s.Slowest = r.Elapsed
		}
	}
	return s
}
