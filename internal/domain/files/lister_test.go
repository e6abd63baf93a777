package files

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GriffinCanCode/stationfiles/internal/domain/media"
	"github.com/GriffinCanCode/stationfiles/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsByName(rows []Row) map[string]Row {
	out := make(map[string]Row, len(rows))
	for _, r := range rows {
		out[r.Name] = r
	}
	return out
}

func TestListMergesMetadata(t *testing.T) {
	guard, root := newTestGuard(t)
	testutil.WriteTree(t, root, map[string]string{"music/b.mp3": "bb"})

	store := testutil.NewMemoryStore()
	store.Put(media.Record{
		StationID:  "radio1",
		Path:       "music/a.mp3",
		Artist:     "Nina",
		Title:      "<b>Sinnerman</b>",
		Length:     620,
		LengthText: "10:20",
		Playlists:  []media.PlaylistRef{{ID: 1, Name: "Jazz"}},
	})

	lister := NewLister(guard, store, ".stationfiles")
	rows, err := lister.List(context.Background(), "radio1", filepath.Join(root, "music"))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byName := rowsByName(rows)

	a := byName["a.mp3"]
	assert.Equal(t, "music/a.mp3", a.Path)
	assert.False(t, a.IsDir)
	assert.Equal(t, int64(1), a.Size)
	assert.Equal(t, "Nina - Sinnerman", a.MediaInfo.Name)
	assert.Equal(t, []string{"Jazz"}, a.Playlists)
	assert.True(t, a.IsPlayable)
	assert.Equal(t, 620, a.Length)

	b := byName["b.mp3"]
	assert.Equal(t, "File Not Processed", b.MediaInfo.Name)
	assert.Empty(t, b.Playlists)
	assert.False(t, b.IsPlayable)

	sub := byName["sub"]
	assert.True(t, sub.IsDir)
	assert.Equal(t, "Directory", sub.MediaInfo.Name)
	assert.Equal(t, "music/sub", sub.Path)
}

func TestListDirectoryIgnoresStoredRecord(t *testing.T) {
	guard, root := newTestGuard(t)
	store := testutil.NewMemoryStore()
	store.Put(media.Record{StationID: "radio1", Path: "music", Artist: "x", Title: "y"})

	rows, err := NewLister(guard, store, "").List(context.Background(), "radio1", root)
	require.NoError(t, err)
	assert.Equal(t, "Directory", rowsByName(rows)["music"].MediaInfo.Name)
}

func TestListFallsBackToFileName(t *testing.T) {
	guard, root := newTestGuard(t)
	store := testutil.NewMemoryStore()
	store.Put(media.Record{StationID: "radio1", Path: "music/a.mp3"})

	rows, err := NewLister(guard, store, "").List(context.Background(), "radio1", filepath.Join(root, "music"))
	require.NoError(t, err)
	assert.Equal(t, "a.mp3", rowsByName(rows)["a.mp3"].MediaInfo.Name)
}

func TestListRejectsMarkerAndFiles(t *testing.T) {
	guard, root := newTestGuard(t)
	testutil.WriteTree(t, root, map[string]string{"marked/.stationfiles": ""})
	lister := NewLister(guard, testutil.NewMemoryStore(), ".stationfiles")

	_, err := lister.List(context.Background(), "radio1", filepath.Join(root, "marked"))
	assert.ErrorIs(t, err, ErrNotADirectory)

	_, err = lister.List(context.Background(), "radio1", filepath.Join(root, "music", "a.mp3"))
	assert.ErrorIs(t, err, ErrNotADirectory)
}

func TestTruncateName(t *testing.T) {
	short := strings.Repeat("a", 60)
	assert.Equal(t, short, TruncateName(short))

	long := strings.Repeat("x", 50) + "distinguish.mp3"
	got := TruncateName(long)
	assert.Len(t, got, 45+3+12)
	assert.True(t, strings.HasPrefix(got, long[:45]))
	assert.True(t, strings.HasSuffix(got, long[len(long)-12:]))
	assert.Contains(t, got, "...")

	multibyte := strings.Repeat("é", 70)
	assert.Equal(t, 60, len([]rune(TruncateName(multibyte))))
}
