// Package main implements the recap command-line interface.
//
// The CLI checks and preloads a story manifest, renders standalone pages,
// converts Drive share links, hashes gate passwords, and can serve the
// story in the foreground. Long-running serving normally happens in recapd.
package main
