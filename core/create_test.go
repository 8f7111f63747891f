package big

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/big/core/testutil"
)

func TestFromDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"b.txt":               "bee",
		"a.txt":               "ay",
		"data/ini/object.ini": "Object Foo",
		"data/readme":         "r",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "a.txt"), filepath.Join(dir, "link.txt")))

	a, err := FromDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", `data\ini\object.ini`, `data\readme`}, a.Names())
	assert.True(t, a.Dirty())
	assert.Equal(t, int64(16), a.MemoryUsage())

	got, err := a.ReadFile(`data\ini\object.ini`)
	require.NoError(t, err)
	assert.Equal(t, "Object Foo", string(got))
}

func TestFromDirectoryRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{
		"maps/map1/map1.map": "terrain",
		"maps/map1/map1.tga": "preview",
		"window/menu.wnd":    "WINDOW",
	}
	testutil.WriteTree(t, dir, files)

	a, err := FromDirectory(dir)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "out.big")
	require.NoError(t, a.Save(path))

	b, err := OpenFile(path)
	require.NoError(t, err)
	out := t.TempDir()
	stats, err := b.Extract(out)
	require.NoError(t, err)
	assert.Equal(t, len(files), stats.Files)

	for rel, want := range files {
		got, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(rel)))
		require.NoError(t, err, rel)
		assert.Equal(t, want, string(got), rel)
	}
}

func TestFromDirectoryMissing(t *testing.T) {
	t.Parallel()

	_, err := FromDirectory(filepath.Join(t.TempDir(), "absent"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
