// Package testutil provides testing utilities and helpers for backend tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/GriffinCanCode/stationfiles/internal/domain/media"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MemoryStore is an in-memory EntryStore and PlaylistStore.
type MemoryStore struct {
	mu        sync.Mutex
	nextID    int64
	records   map[string]map[string]*media.Record
	playlists map[string][]media.PlaylistRef
	saves     int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:   make(map[string]map[string]*media.Record),
		playlists: make(map[string][]media.PlaylistRef),
	}
}

// AddPlaylist registers a playlist for a station.
func (s *MemoryStore) AddPlaylist(stationID string, id int64, name string) media.PlaylistRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := media.PlaylistRef{ID: id, Name: name}
	s.playlists[stationID] = append(s.playlists[stationID], ref)
	return ref
}

// Put stores a copy of rec as if it had been saved earlier.
func (s *MemoryStore) Put(rec media.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(&rec)
}

// Get returns a copy of the record at path, or nil.
func (s *MemoryStore) Get(stationID, path string) *media.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[stationID][path]
	if !ok {
		return nil
	}
	return clone(rec)
}

// Saves returns how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// FindByPrefix implements media.EntryStore.
func (s *MemoryStore) FindByPrefix(_ context.Context, stationID, prefix string) (map[string]*media.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*media.Record)
	for path, rec := range s.records[stationID] {
		if strings.HasPrefix(path, prefix) {
			out[path] = clone(rec)
		}
	}
	return out, nil
}

// GetOrCreate implements media.EntryStore.
func (s *MemoryStore) GetOrCreate(_ context.Context, stationID, path string) (*media.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[stationID][path]; ok {
		return clone(rec), nil
	}
	rec := &media.Record{StationID: stationID, Path: path}
	s.put(rec)
	return clone(rec), nil
}

// Save implements media.EntryStore.
func (s *MemoryStore) Save(_ context.Context, rec *media.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(clone(rec))
	s.saves++
	return nil
}

// FindPlaylist implements media.PlaylistStore.
func (s *MemoryStore) FindPlaylist(_ context.Context, stationID string, id int64) (*media.PlaylistRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.playlists[stationID] {
		if p.ID == id {
			ref := p
			return &ref, nil
		}
	}
	return nil, media.ErrPlaylistNotFound
}

// ListPlaylists implements media.PlaylistStore.
func (s *MemoryStore) ListPlaylists(_ context.Context, stationID string) ([]media.PlaylistRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]media.PlaylistRef(nil), s.playlists[stationID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// PlaylistPaths implements media.PlaylistStore.
func (s *MemoryStore) PlaylistPaths(_ context.Context, stationID string, id int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var paths []string
	for path, rec := range s.records[stationID] {
		if rec.HasPlaylist(id) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *MemoryStore) put(rec *media.Record) {
	if s.records[rec.StationID] == nil {
		s.records[rec.StationID] = make(map[string]*media.Record)
	}
	if rec.ID == 0 {
		s.nextID++
		rec.ID = s.nextID
	}
	s.records[rec.StationID][rec.Path] = rec
}

func clone(rec *media.Record) *media.Record {
	c := *rec
	c.Playlists = append([]media.PlaylistRef(nil), rec.Playlists...)
	return &c
}

// MockConfigWriter is a mock implementation of media.ConfigWriter.
type MockConfigWriter struct {
	mock.Mock
}

// Write mocks the Write method.
func (m *MockConfigWriter) Write(ctx context.Context, stationID string) error {
	args := m.Called(ctx, stationID)
	return args.Error(0)
}

// NewMockConfigWriter creates a config writer mock that succeeds by default.
func NewMockConfigWriter(t *testing.T) *MockConfigWriter {
	t.Helper()
	m := new(MockConfigWriter)

	// Default behavior: rewrite succeeds
	m.On("Write", mock.Anything, mock.Anything).Return(nil).Maybe()

	return m
}

// WriteTree creates files under root. Keys are slash-separated relative paths;
// keys ending in "/" create directories.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// CanonicalTempDir returns t.TempDir() with symlinks resolved.
func CanonicalTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}
