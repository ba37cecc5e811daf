package progress

import "math"

// State is the preload counter pair. The preloader owns and mutates it;
// everyone else receives copies.
type State struct {
	Loaded int `json:"loaded"`
	Total  int `json:"total"`
}

// Done reports whether every asset has resolved.
func (s State) Done() bool {
	return s.Loaded >= s.Total
}

// Reporter receives every published State, one call at a time.
type Reporter interface {
	Publish(State)
}

// Func adapts a function to Reporter.
type Func func(State)

func (f Func) Publish(s State) {
	if f != nil {
		f(s)
	}
}

// Discard ignores every update.
var Discard Reporter = Func(nil)

// Phase selects the loading message.
type Phase string

const (
	PhaseStarted    Phase = "started"
	PhaseLoading    Phase = "loading"
	PhaseFinalizing Phase = "finalizing"
)

// Snapshot is the user-visible form of a State.
type Snapshot struct {
	Loaded  int    `json:"loaded"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
	Phase   Phase  `json:"phase"`
	Message string `json:"message"`
}

// Percent returns round(100*loaded/total) clamped to [0,100]. A non-positive
// total yields 0.
func Percent(loaded, total int) int {
	if total <= 0 {
		return 0
	}
	p := math.Round(100 * float64(loaded) / float64(total))
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return int(p)
	}
}

// PhaseOf picks the message phase for the counts.
func PhaseOf(loaded, total int) Phase {
	switch {
	case loaded <= 0:
		return PhaseStarted
	case loaded < total:
		return PhaseLoading
	default:
		return PhaseFinalizing
	}
}

// Compute is the pure counts-to-percentage step. Message is left empty;
// Catalog.Snapshot fills it in.
func Compute(loaded, total int) Snapshot {
	return Snapshot{
		Loaded:  loaded,
		Total:   total,
		Percent: Percent(loaded, total),
		Phase:   PhaseOf(loaded, total),
	}
}
