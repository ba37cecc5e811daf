// Package session implements the password gate and remembers which browser
// sessions have passed it.
//
// Gate compares submissions against a plain password or a bcrypt hash.
// Store keeps accepted session IDs in SQLite so a daemon restart does not
// send every visitor back to the password screen.
package session
