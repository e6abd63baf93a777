// Package playback regenerates the playback configuration consumed by a station's
// streaming backend after playlist memberships change.
//
// For each station the Writer produces one M3U file per playlist, listing
// absolute media paths, and a manifest in YAML, TOML or JSON. Files are replaced
// atomically. When a reload webhook is configured, an Event is posted with
// retries. Each station's rewrites run behind their own circuit breaker.
package playback
