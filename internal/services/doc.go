// Package services defines shared utilities consumed by the story pipeline
// stages and the web layer.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, slide indexes, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper, and Classify which tells
//     the pipeline whether a failure halts it (manifest) or is absorbed (asset).
//
// Use these helpers when wiring new stage logic so failure handling stays
// uniform: halt and notify once, or swallow and continue.
package services
