// Package manifest loads the ordered slide list a story is built from.
//
// A manifest is a JSON (or YAML) array of {type, src, text} objects fetched
// from an http(s) URL or read from disk. Transport failures, non-2xx
// statuses, undecodable bodies, and empty lists are fatal and reported as
// *Error; the loader never retries. Slides with unrecognized types are kept
// so indexes remain stable.
//
// The package also carries the hosting guidance for media links: Drive
// share pages are flagged by Lint and DriveDirectURL rewrites them.
package manifest
