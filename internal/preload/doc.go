// Package preload fetches every slide's media before the story is revealed.
//
// Run starts all loads (bounded by Options.MaxParallel), publishes a
// progress.State after each one resolves, and returns only when every slide
// has a Result. A failed asset is recorded and logged but never stops the
// run; the slide later renders as a placeholder.
package preload
