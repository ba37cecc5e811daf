// Package story sequences the recap pipeline: load the manifest, preload
// all media behind a barrier, then render the slides.
package story
