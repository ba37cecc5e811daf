// Package progress converts preload counts into the percentage and message
// a visitor sees while media loads.
//
// Percent and PhaseOf are pure; Catalog renders the messages (and the other
// visitor-facing strings) in English or French through golang.org/x/text.
// Tracker adapts a Catalog to the preloader's Reporter interface.
package progress
