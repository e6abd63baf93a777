package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/GriffinCanCode/stationfiles/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	guard, root := newTestGuard(t)
	testutil.WriteTree(t, root, map[string]string{
		"music/b.mp3":      "b",
		"music/sub/d.txt":  "d",
		"other/e.mp3":      "e",
		"music/sub/deep/f": "f",
	})
	outside := testutil.CanonicalTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(outside, "leak.mp3"), nil, 0o644))
	require.NoError(t, os.Symlink(filepath.Join(outside, "leak.mp3"), filepath.Join(root, "music", "leak.mp3")))
	require.NoError(t, os.Symlink(filepath.Join(root, "other", "e.mp3"), filepath.Join(root, "music", "alias.mp3")))
	require.NoError(t, os.Symlink(filepath.Join(root, "other"), filepath.Join(root, "music", "otherdir")))

	flattener, err := NewFlattener(guard, "")
	require.NoError(t, err)

	files, err := flattener.Flatten(context.Background(), []string{
		filepath.Join(root, "music"),
		filepath.Join(root, "music", "a.mp3"),
	})
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, guard.Rel(f))
	}
	assert.Equal(t, []string{
		"music/a.mp3",
		"music/alias.mp3",
		"music/b.mp3",
		"music/sub/c.mp3",
		"music/sub/d.txt",
		"music/sub/deep/f",
	}, rels)
}

func TestFlattenInclude(t *testing.T) {
	guard, root := newTestGuard(t)
	testutil.WriteTree(t, root, map[string]string{"music/notes.txt": "n"})

	flattener, err := NewFlattener(guard, "**/*.mp3")
	require.NoError(t, err)

	files, err := flattener.Flatten(context.Background(), []string{filepath.Join(root, "music")})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = NewFlattener(guard, "[")
	assert.Error(t, err)
}

func TestRemoveTree(t *testing.T) {
	_, root := newTestGuard(t)
	outside := testutil.CanonicalTempDir(t)
	keep := filepath.Join(outside, "keep.mp3")
	require.NoError(t, os.WriteFile(keep, []byte("k"), 0o644))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "music", "sub", "link")))

	errs := RemoveTree(filepath.Join(root, "music"))
	assert.Empty(t, errs)

	_, err := os.Stat(filepath.Join(root, "music"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(keep)
	assert.NoError(t, err, "symlink targets must survive")

	assert.Empty(t, RemoveTree(filepath.Join(root, "missing")))
}
