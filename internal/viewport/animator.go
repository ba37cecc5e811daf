package viewport

import (
	"log/slog"
	"sync"

	"recap/internal/logging"
	"recap/internal/render"
)

// Effects applies animator decisions to the client.
type Effects interface {
	Reveal(index int)
	Play(index int) error
	Pause(index int)
	Progress(percent float64)
	HideHint()
}

// SlideState is the animation state of one slide.
type SlideState struct {
	TextRevealed bool `json:"text_revealed"`
	MediaPlaying bool `json:"media_playing"`
}

type slideAnim struct {
	text     Latch
	autoplay *Autoplay
}

type effectPlayer struct {
	index   int
	effects Effects
}

func (p effectPlayer) Play() error { return p.effects.Play(p.index) }
func (p effectPlayer) Pause()      { p.effects.Pause(p.index) }

// Animator drives text reveal, video autoplay, the scroll progress bar, and
// the navigation hint for one rendered story.
type Animator struct {
	mu       sync.Mutex
	observer *Observer
	slides   []*slideAnim
	hint     Hint
	effects  Effects
	logger   *slog.Logger
}

// NewAnimator wires observers for every unit. Only ready videos get
// autoplay; placeholders have nothing to play.
func NewAnimator(units []render.Unit, effects Effects, logger *slog.Logger) *Animator {
	a := &Animator{
		observer: NewObserver(Threshold),
		slides:   make([]*slideAnim, len(units)),
		effects:  effects,
		logger:   logging.NewComponentLogger(logger, "viewport"),
	}
	for i, unit := range units {
		anim := &slideAnim{}
		a.slides[i] = anim
		index := unit.Index

		a.observer.Observe(unit.TextID, func(e Entry) {
			if e.Visible && anim.text.Trigger() {
				a.effects.Reveal(index)
			}
		})

		if unit.IsVideo() && unit.Ready && unit.HasMedia() {
			anim.autoplay = NewAutoplay(effectPlayer{index: index, effects: effects},
				a.logger.With(logging.Int(logging.FieldSlideIndex, index)))
			a.observer.Observe(unit.MediaID, func(e Entry) {
				if e.Visible {
					anim.autoplay.Enter()
				} else {
					anim.autoplay.Leave()
				}
			})
		}
	}
	return a
}

// Frame processes a geometry report.
func (a *Animator) Frame(f Frame) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observer.Update(f)
}

// Scroll updates the progress bar and dismisses the hint on first scroll.
func (a *Animator) Scroll(m Metrics) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.hint.Dismiss() {
		a.effects.HideHint()
	}
	a.effects.Progress(ScrollProgress(m))
}

// PlaybackRejected records that the client refused to start a video, which
// browsers do for autoplay policy reasons. It is informational only.
func (a *Animator) PlaybackRejected(index int, reason string) {
	a.logger.Info("video autoplay prevented",
		logging.Int(logging.FieldSlideIndex, index),
		logging.String("reason", reason),
	)
}

// State returns the animation state of slide index.
func (a *Animator) State(index int) SlideState {
	a.mu.Lock()
	defer a.mu.Unlock()
	if index < 0 || index >= len(a.slides) {
		return SlideState{}
	}
	anim := a.slides[index]
	state := SlideState{TextRevealed: anim.text.Done()}
	if anim.autoplay != nil {
		state.MediaPlaying = anim.autoplay.Playing()
	}
	return state
}

// HintDismissed reports whether the navigation hint has been hidden.
func (a *Animator) HintDismissed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hint.Dismissed()
}
