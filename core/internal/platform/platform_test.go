package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRegular(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ini"), []byte("x=1"), 0o644))
	require.NoError(t, os.Symlink("a.ini", filepath.Join(dir, "link.ini")))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join("..", "a.ini"), filepath.Join(dir, "sub", "up.ini")))

	root, err := os.OpenRoot(dir)
	require.NoError(t, err)
	defer root.Close()

	got, err := ReadRegular(root, "a.ini")
	require.NoError(t, err)
	assert.Equal(t, []byte("x=1"), got)

	_, err = ReadRegular(root, "link.ini")
	require.ErrorIs(t, err, ErrSymlink)

	_, err = ReadRegular(root, filepath.Join("sub", "up.ini"))
	require.ErrorIs(t, err, ErrSymlink)

	_, err = ReadRegular(root, "missing.ini")
	require.ErrorIs(t, err, os.ErrNotExist)
}
