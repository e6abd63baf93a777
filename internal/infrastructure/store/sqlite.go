package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GriffinCanCode/stationfiles/internal/domain/media"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS station_media (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	station_id  TEXT    NOT NULL,
	path        TEXT    NOT NULL,
	artist      TEXT    NOT NULL DEFAULT '',
	title       TEXT    NOT NULL DEFAULT '',
	length      INTEGER NOT NULL DEFAULT 0,
	length_text TEXT    NOT NULL DEFAULT '',
	UNIQUE (station_id, path)
);
CREATE TABLE IF NOT EXISTS station_playlists (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	station_id TEXT NOT NULL,
	name       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS station_playlist_media (
	playlist_id INTEGER NOT NULL REFERENCES station_playlists(id) ON DELETE CASCADE,
	media_id    INTEGER NOT NULL REFERENCES station_media(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (playlist_id, media_id)
);`

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_station_playlists_station ON station_playlists(station_id, name)",
	"CREATE INDEX IF NOT EXISTS idx_playlist_media_media ON station_playlist_media(media_id)",
}

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=ON",
}

// SQLite stores media records and playlists for every station in one database.
// It implements media.EntryStore and media.PlaylistStore.
type SQLite struct {
	db *sql.DB
}

var (
	_ media.EntryStore    = (*SQLite)(nil)
	_ media.PlaylistStore = (*SQLite)(nil)
)

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Single writer; SQLite serializes writes anyway
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	for _, stmt := range indexes {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create index: %w", err)
		}
	}

	return &SQLite{db: db}, nil
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const selectRecords = `
SELECT m.id, m.station_id, m.path, m.artist, m.title, m.length, m.length_text, p.id, p.name
FROM station_media m
LEFT JOIN station_playlist_media pm ON pm.media_id = m.id
LEFT JOIN station_playlists p ON p.id = pm.playlist_id
`

// FindByPrefix loads every record whose path starts with prefix in one query.
// Matching is exact and case-sensitive.
func (s *SQLite) FindByPrefix(ctx context.Context, stationID, prefix string) (map[string]*media.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecords+`
WHERE m.station_id = ? AND substr(m.path, 1, length(?)) = ?
ORDER BY m.id, pm.position`, stationID, prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("find by prefix: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("find by prefix: %w", err)
	}

	out := make(map[string]*media.Record, len(records))
	for _, rec := range records {
		out[rec.Path] = rec
	}
	return out, nil
}

// GetOrCreate returns the record at path, inserting an empty one if needed.
func (s *SQLite) GetOrCreate(ctx context.Context, stationID, path string) (*media.Record, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO station_media (station_id, path) VALUES (?, ?) ON CONFLICT (station_id, path) DO NOTHING`,
		stationID, path)
	if err != nil {
		return nil, fmt.Errorf("get or create %s: %w", path, err)
	}

	rows, err := s.db.QueryContext(ctx, selectRecords+`
WHERE m.station_id = ? AND m.path = ?
ORDER BY pm.position`, stationID, path)
	if err != nil {
		return nil, fmt.Errorf("get or create %s: %w", path, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("get or create %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("get or create %s: record vanished", path)
	}
	return records[0], nil
}

// Save upserts rec and replaces its playlist memberships in one transaction.
func (s *SQLite) Save(ctx context.Context, rec *media.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save %s: begin: %w", rec.Path, err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
INSERT INTO station_media (station_id, path, artist, title, length, length_text)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (station_id, path) DO UPDATE SET
	artist = excluded.artist,
	title = excluded.title,
	length = excluded.length,
	length_text = excluded.length_text
RETURNING id`,
		rec.StationID, rec.Path, rec.Artist, rec.Title, rec.Length, rec.LengthText).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("save %s: %w", rec.Path, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM station_playlist_media WHERE media_id = ?`, rec.ID); err != nil {
		return fmt.Errorf("save %s: clear playlists: %w", rec.Path, err)
	}
	for i, p := range rec.Playlists {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO station_playlist_media (playlist_id, media_id, position) VALUES (?, ?, ?)`,
			p.ID, rec.ID, i)
		if err != nil {
			return fmt.Errorf("save %s: playlist %d: %w", rec.Path, p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save %s: commit: %w", rec.Path, err)
	}
	return nil
}

// FindPlaylist returns media.ErrPlaylistNotFound when id does not belong to the station.
func (s *SQLite) FindPlaylist(ctx context.Context, stationID string, id int64) (*media.PlaylistRef, error) {
	var ref media.PlaylistRef
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM station_playlists WHERE station_id = ? AND id = ?`,
		stationID, id).Scan(&ref.ID, &ref.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, media.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find playlist %d: %w", id, err)
	}
	return &ref, nil
}

// ListPlaylists returns the station's playlists ordered by name.
func (s *SQLite) ListPlaylists(ctx context.Context, stationID string) ([]media.PlaylistRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM station_playlists WHERE station_id = ? ORDER BY name ASC, id ASC`,
		stationID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var out []media.PlaylistRef
	for rows.Next() {
		var ref media.PlaylistRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("list playlists: %w", err)
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// CreatePlaylist adds a playlist to a station.
func (s *SQLite) CreatePlaylist(ctx context.Context, stationID, name string) (*media.PlaylistRef, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO station_playlists (station_id, name) VALUES (?, ?)`, stationID, name)
	if err != nil {
		return nil, fmt.Errorf("create playlist %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create playlist %q: %w", name, err)
	}
	return &media.PlaylistRef{ID: id, Name: name}, nil
}

// PlaylistPaths returns the member paths of a playlist ordered by path.
func (s *SQLite) PlaylistPaths(ctx context.Context, stationID string, id int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT m.path
FROM station_playlist_media pm
JOIN station_media m ON m.id = pm.media_id
WHERE pm.playlist_id = ? AND m.station_id = ?
ORDER BY m.path`, id, stationID)
	if err != nil {
		return nil, fmt.Errorf("playlist %d paths: %w", id, err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("playlist %d paths: %w", id, err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// scanRecords folds joined media/playlist rows into records, preserving row order.
func scanRecords(rows *sql.Rows) ([]*media.Record, error) {
	var (
		out  []*media.Record
		byID = make(map[int64]*media.Record)
	)
	for rows.Next() {
		var (
			rec          media.Record
			playlistID   sql.NullInt64
			playlistName sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.StationID, &rec.Path, &rec.Artist, &rec.Title,
			&rec.Length, &rec.LengthText, &playlistID, &playlistName); err != nil {
			return nil, err
		}

		existing, ok := byID[rec.ID]
		if !ok {
			existing = &rec
			byID[rec.ID] = existing
			out = append(out, existing)
		}
		if playlistID.Valid {
			existing.AddPlaylist(media.PlaylistRef{ID: playlistID.Int64, Name: playlistName.String})
		}
	}
	return out, rows.Err()
}
