package media

import (
	"context"
	"errors"
	"strings"
)

// ErrPlaylistNotFound is returned when a playlist id does not resolve within a station.
var ErrPlaylistNotFound = errors.New("playlist not found")

// PlaylistRef identifies a playlist owned by a station
type PlaylistRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Record holds the stored attributes of one media file, keyed by its root-relative path
type Record struct {
	ID         int64
	StationID  string
	Path       string
	Artist     string
	Title      string
	Length     int
	LengthText string
	Playlists  []PlaylistRef
}

// DisplayName returns "artist - title", or an empty string when neither is known.
func (r *Record) DisplayName() string {
	switch {
	case r.Artist != "" && r.Title != "":
		return r.Artist + " - " + r.Title
	case r.Artist != "":
		return r.Artist
	default:
		return r.Title
	}
}

// HasPlaylist reports whether the record is a member of the playlist.
func (r *Record) HasPlaylist(id int64) bool {
	for _, p := range r.Playlists {
		if p.ID == id {
			return true
		}
	}
	return false
}

// AddPlaylist adds a membership; adding an existing membership is a no-op.
func (r *Record) AddPlaylist(p PlaylistRef) bool {
	if r.HasPlaylist(p.ID) {
		return false
	}
	r.Playlists = append(r.Playlists, p)
	return true
}

// ClearPlaylists removes every membership.
func (r *Record) ClearPlaylists() {
	r.Playlists = nil
}

// PlaylistNames returns membership names in stored order
func (r *Record) PlaylistNames() []string {
	names := make([]string, 0, len(r.Playlists))
	for _, p := range r.Playlists {
		names = append(names, p.Name)
	}
	return names
}

// EntryStore persists per-file metadata for a station.
type EntryStore interface {
	// FindByPrefix returns every record whose path starts with prefix, keyed by path.
	FindByPrefix(ctx context.Context, stationID, prefix string) (map[string]*Record, error)
	GetOrCreate(ctx context.Context, stationID, path string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
}

// PlaylistStore resolves playlists scoped to a station.
type PlaylistStore interface {
	FindPlaylist(ctx context.Context, stationID string, id int64) (*PlaylistRef, error)
	ListPlaylists(ctx context.Context, stationID string) ([]PlaylistRef, error)
	PlaylistPaths(ctx context.Context, stationID string, id int64) ([]string, error)
}

// ConfigWriter regenerates the downstream playback configuration after playlist changes.
type ConfigWriter interface {
	Write(ctx context.Context, stationID string) error
}

// NormalizePath converts a root-relative path into the store's key form.
func NormalizePath(rel string) string {
	rel = strings.ReplaceAll(rel, "\\", "/")
	return strings.TrimLeft(rel, "/")
}
