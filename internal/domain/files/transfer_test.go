package files

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GriffinCanCode/stationfiles/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"8M", 8 << 20},
		{"2m", 2 << 20},
		{"512K", 512 << 10},
		{"1g", 1 << 30},
		{"1048576", 1048576},
		{" 16M ", 16 << 20},
		{"", 0},
		{"abc", 0},
		{"-1", -1},
		{"99999999999G", math.MaxInt64},
		{"9223372036854775807", math.MaxInt64},
		{"99999999999999999999", math.MaxInt64},
		{"8589934592g", math.MaxInt64},
		{"-99999999999G", math.MinInt64},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSize(tt.in))
		})
	}
}

func TestMaxUploadSize(t *testing.T) {
	assert.Equal(t, int64(2*1024*1024), MaxUploadSize(ParseSize("8M"), ParseSize("2M")))
	assert.Equal(t, int64(2*1024*1024), MaxUploadSize(ParseSize("2M"), ParseSize("8M")))
	assert.Equal(t, int64(100), MaxUploadSize(0, 100))
	assert.Equal(t, int64(100), MaxUploadSize(100, -1))
	assert.Zero(t, MaxUploadSize(0, 0))
}

func TestMaxUploadSizeOversizedLimits(t *testing.T) {
	// An oversized limit stays a limit, never "unlimited"
	assert.Equal(t, int64(2*1024*1024), MaxUploadSize(ParseSize("99999999999G"), ParseSize("2M")))
	assert.Equal(t, int64(math.MaxInt64), MaxUploadSize(ParseSize("99999999999G"), ParseSize("0")))
}

func TestUploadName(t *testing.T) {
	name, err := UploadName("../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "passwd", name)

	name, err = UploadName(`C:\Users\me\song.mp3`)
	require.NoError(t, err)
	assert.Equal(t, "song.mp3", name)

	for _, bad := range []string{"", ".", "..", "dir/"} {
		_, err := UploadName(bad)
		assert.ErrorIs(t, err, ErrInvalidName, bad)
	}
}

func TestMkdir(t *testing.T) {
	dir := t.TempDir()

	target, err := Mkdir(dir, "a/b")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ab"), target)
	assert.DirExists(t, target)

	_, err = Mkdir(dir, "../escape")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = Mkdir(dir, "..")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = Mkdir(dir, "ab")
	assert.Error(t, err)
}

func TestSaveUpload(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "root")
	require.NoError(t, os.Mkdir(dir, 0o755))

	path, err := SaveUpload(dir, "new.mp3", strings.NewReader("fresh"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "new.mp3"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))

	// Regular files are replaced
	_, err = SaveUpload(dir, "new.mp3", strings.NewReader("again"))
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "again", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestSaveUploadRefusesLinksAndDirectories(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "root")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))

	outside := filepath.Join(base, "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("original"), 0o644))
	require.NoError(t, os.Symlink(outside, filepath.Join(dir, "link.mp3")))

	_, err := SaveUpload(dir, "link.mp3", strings.NewReader("overwritten"))
	assert.ErrorIs(t, err, ErrForbidden)

	data, err := os.ReadFile(outside)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
	info, err := os.Lstat(filepath.Join(dir, "link.mp3"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	_, err = SaveUpload(dir, "sub", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrForbidden)
	assert.DirExists(t, filepath.Join(dir, "sub"))
}

func TestRegister(t *testing.T) {
	guard, root := newTestGuard(t)
	store := testutil.NewMemoryStore()

	rec, err := Register(context.Background(), guard, store, "radio1", filepath.Join(root, "music", "a.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "music/a.mp3", rec.Path)
	assert.NotNil(t, store.Get("radio1", "music/a.mp3"))
}

func TestPrepareDownload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	dl, err := PrepareDownload(path)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", dl.Name)
	assert.Equal(t, int64(11), dl.Size)
	assert.Contains(t, dl.ContentType, "text/plain")

	_, err = PrepareDownload(dir)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="my song.mp3"`, Disposition("my song.mp3", "Mozilla/5.0 Firefox"))
	assert.Equal(t, "attachment; filename=my%20song.mp3", Disposition("my song.mp3", "Mozilla/4.0 (compatible; MSIE 8.0)"))
	assert.Equal(t, "attachment; filename=my%20song.mp3", Disposition("my song.mp3", "Mozilla/5.0 (Trident/7.0; rv:11.0)"))
}
