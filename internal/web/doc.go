// Package web is the visitor-facing HTTP server.
//
// A visitor first sees the password gate. Once unlocked, the story shell
// opens a server-sent event stream that reports preload progress and then
// delivers the rendered slides, followed by a websocket over which the
// browser reports geometry and receives reveal, play, and pause effects.
package web
