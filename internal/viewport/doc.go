// Package viewport decides when slide text is revealed and when videos play,
// based on geometry frames reported by the client.
//
// An Observer turns frames into threshold crossings. Each slide has a Latch
// for its text (revealed once, never hidden again) and, for ready videos,
// an Autoplay that follows visibility in both directions. Animator wires
// these together and reports decisions through an Effects sink.
package viewport
