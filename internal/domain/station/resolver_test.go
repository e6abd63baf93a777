package station

import (
	"path/filepath"
	"testing"

	"github.com/GriffinCanCode/stationfiles/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryResolver(t *testing.T) {
	base := testutil.CanonicalTempDir(t)
	testutil.WriteTree(t, base, map[string]string{
		"radio1/media/song.mp3": "x",
		"radio2/":               "",
	})
	resolver := NewDirectoryResolver(base, "media")

	st, err := resolver.Resolve("radio1")
	require.NoError(t, err)
	assert.Equal(t, "radio1", st.ID)
	assert.Equal(t, filepath.Join(base, "radio1", "media"), st.Root())

	_, err = resolver.Resolve("radio2")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = resolver.Resolve("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidID(t *testing.T) {
	for _, id := range []string{"radio1", "my_station", "a-b-c", "1"} {
		assert.True(t, ValidID(id), id)
	}
	for _, id := range []string{"", "..", "../x", "Radio", "a/b", "-x", "has space"} {
		assert.False(t, ValidID(id), id)
	}
}
