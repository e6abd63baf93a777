// Package media defines the metadata model shared by the file manager and its stores.
//
// A Record is the stored view of one media file (artist, title, length, playlist
// memberships), keyed by its path relative to the station's media root. The
// interfaces in this package are the boundary to the persistence engine and to the
// playback configuration writer; the file manager never talks to either directly.
package media
