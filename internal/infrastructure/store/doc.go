// Package store persists media records and playlists in SQLite using the pure Go
// modernc.org/sqlite driver.
//
// Records are keyed by (station, root-relative path). Prefix lookups compare
// exact substrings so a listing of "music/" never picks up "Music/" or "musicals/".
package store
