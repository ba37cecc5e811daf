// Package logs reads the daemon log file for `recap logs`.
//
// Last returns the trailing lines with bounded memory; Follow keeps reading
// as recapd appends and starts over when the file is truncated.
package logs
