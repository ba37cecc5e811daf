// Package daemon runs the presentation server as a long-lived process.
//
// A Daemon holds an flock on the state directory so only one instance
// serves a given session database, starts the web server, and prunes idle
// sessions in the background until its context ends.
package daemon
