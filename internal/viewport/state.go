package viewport

import (
	"log/slog"

	"recap/internal/logging"
)

// Latch is a one-way switch: once triggered it stays triggered.
type Latch struct {
	done bool
}

// Trigger sets the latch and reports whether this call changed it.
func (l *Latch) Trigger() bool {
	if l.done {
		return false
	}
	l.done = true
	return true
}

// Done reports whether the latch has been triggered.
func (l *Latch) Done() bool {
	return l.done
}

// Player controls one video element.
type Player interface {
	Play() error
	Pause()
}

// Autoplay plays a video while it is in view and pauses it otherwise.
// Repeated enters or leaves are no-ops.
type Autoplay struct {
	player  Player
	playing bool
	logger  *slog.Logger
}

// NewAutoplay wraps player in the paused state.
func NewAutoplay(player Player, logger *slog.Logger) *Autoplay {
	return &Autoplay{player: player, logger: logger}
}

// Enter requests playback. A refused play is logged and otherwise ignored;
// the state still records the intent so the next Leave pauses.
func (a *Autoplay) Enter() bool {
	if a.playing {
		return false
	}
	a.playing = true
	if err := a.player.Play(); err != nil && a.logger != nil {
		a.logger.Debug("video play request failed", logging.Error(err))
	}
	return true
}

// Leave pauses playback.
func (a *Autoplay) Leave() bool {
	if !a.playing {
		return false
	}
	a.playing = false
	a.player.Pause()
	return true
}

// Playing reports the current state.
func (a *Autoplay) Playing() bool {
	return a.playing
}

// Hint is the one-time navigation hint.
type Hint struct {
	latch Latch
}

// Dismiss hides the hint on the first call only.
func (h *Hint) Dismiss() bool {
	return h.latch.Trigger()
}

// Dismissed reports whether the hint is gone.
func (h *Hint) Dismissed() bool {
	return h.latch.Done()
}
