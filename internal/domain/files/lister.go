package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GriffinCanCode/stationfiles/internal/domain/media"
	"github.com/microcosm-cc/bluemonday"
)

const (
	maxTextLength  = 60
	textPrefixKeep = maxTextLength - 15
	textSuffixKeep = 12

	placeholderDirectory   = "Directory"
	placeholderUnprocessed = "File Not Processed"
)

// MediaInfo is the metadata bag merged into a listing row
type MediaInfo struct {
	Name       string   `json:"media_name"`
	Artist     string   `json:"media_artist,omitempty"`
	Title      string   `json:"media_title,omitempty"`
	Length     int      `json:"media_length,omitempty"`
	LengthText string   `json:"media_length_text,omitempty"`
	Playlists  []string `json:"media_playlists"`
	IsPlayable bool     `json:"media_is_playable"`
}

// Row is one immediate child of a listed directory
type Row struct {
	MTime int64  `json:"mtime"`
	Size  int64  `json:"size"`
	Name  string `json:"name"`
	Text  string `json:"text"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
	MediaInfo
}

// IsDirectory reports whether the row is a directory
func (r Row) IsDirectory() bool { return r.IsDir }

// SearchFields returns the fields searched by a listing query
func (r Row) SearchFields() []string { return []string{r.MediaInfo.Name, r.Text} }

// SortValue returns the value of a wire field name for sorting
func (r Row) SortValue(field string) (any, bool) {
	switch field {
	case "name":
		return r.Name, true
	case "text":
		return r.Text, true
	case "path":
		return r.Path, true
	case "mtime":
		return r.MTime, true
	case "size":
		return r.Size, true
	case "is_dir":
		return r.IsDir, true
	case "media_name":
		return r.MediaInfo.Name, true
	case "media_artist":
		return r.Artist, true
	case "media_title":
		return r.Title, true
	case "media_length":
		return int64(r.Length), true
	case "media_length_text":
		return r.LengthText, true
	case "media_is_playable":
		return r.IsPlayable, true
	}
	return nil, false
}

// Lister produces listing rows for directories under a guarded root
type Lister struct {
	guard  *Guard
	store  media.EntryStore
	marker string
	policy *bluemonday.Policy
}

// NewLister creates a lister. Entries named marker are never listed; finding one
// fails the listing.
func NewLister(guard *Guard, store media.EntryStore, marker string) *Lister {
	return &Lister{
		guard:  guard,
		store:  store,
		marker: marker,
		policy: bluemonday.StrictPolicy(),
	}
}

// List returns one row per immediate child of dir, which must be a post-guard
// absolute path.
func (l *Lister) List(ctx context.Context, stationID, dir string) ([]Row, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", l.guard.Rel(dir), ErrNotFound)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("list %s: %w", l.guard.Rel(dir), ErrNotADirectory)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", l.guard.Rel(dir), err)
	}

	for _, entry := range entries {
		if l.marker != "" && entry.Name() == l.marker {
			return nil, fmt.Errorf("list %s: marker present: %w", l.guard.Rel(dir), ErrNotADirectory)
		}
	}

	prefix := l.guard.Rel(dir)
	if prefix != "" {
		prefix += "/"
	}
	records, err := l.store.FindByPrefix(ctx, stationID, prefix)
	if err != nil {
		return nil, fmt.Errorf("load metadata for %q: %w", prefix, err)
	}

	rows := make([]Row, 0, len(entries))
	for _, entry := range entries {
		childPath := filepath.Join(dir, entry.Name())

		// Follow links so a linked directory lists as a directory
		stat, err := os.Stat(childPath)
		if err != nil {
			stat, err = os.Lstat(childPath)
			if err != nil {
				continue
			}
		}

		rel := prefix + entry.Name()
		row := Row{
			MTime: stat.ModTime().Unix(),
			Size:  stat.Size(),
			Name:  entry.Name(),
			Text:  TruncateName(entry.Name()),
			Path:  rel,
			IsDir: stat.IsDir(),
		}

		switch rec, ok := records[rel]; {
		case row.IsDir:
			row.MediaInfo = MediaInfo{Name: placeholderDirectory, Playlists: []string{}}
		case ok:
			row.MediaInfo = l.mediaInfo(rec, entry.Name())
		default:
			row.MediaInfo = MediaInfo{Name: placeholderUnprocessed, Playlists: []string{}}
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func (l *Lister) mediaInfo(rec *media.Record, fallback string) MediaInfo {
	clean := media.Record{
		Artist: l.policy.Sanitize(rec.Artist),
		Title:  l.policy.Sanitize(rec.Title),
	}
	name := clean.DisplayName()
	if name == "" {
		name = fallback
	}

	playlists := make([]string, 0, len(rec.Playlists))
	for _, p := range rec.Playlists {
		playlists = append(playlists, l.policy.Sanitize(p.Name))
	}

	return MediaInfo{
		Name:       name,
		Artist:     clean.Artist,
		Title:      clean.Title,
		Length:     rec.Length,
		LengthText: rec.LengthText,
		Playlists:  playlists,
		IsPlayable: true,
	}
}

// TruncateName shortens names longer than 60 characters to the first 45, an
// ellipsis, and the last 12.
func TruncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= maxTextLength {
		return name
	}
	return string(runes[:textPrefixKeep]) + "..." + string(runes[len(runes)-textSuffixKeep:])
}
