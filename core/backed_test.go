package big

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/big/core/testutil"
)

func TestEditThenRepack(t *testing.T) {
	t.Parallel()

	a, err := FromBytes(twoFileArchive())
	require.NoError(t, err)

	require.NoError(t, a.EditFile("a.txt", []byte("hello")))
	require.NoError(t, a.Repack())

	got, err := a.ReadFile("a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
	got, err = a.ReadFile("b.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("bye"), got)
	assert.Equal(t, uint32(56), a.Header().ArchiveSize)
}

func TestBackedMemoryCounter(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{0xAB}, 10<<20)
	path := testutil.WriteArchive(t, testutil.BuildArchive("BIGF", []byte("L253"),
		testutil.File{Name: `data\big.bin`, Data: payload},
	))

	a, err := OpenFile(path)
	require.NoError(t, err)
	assert.True(t, a.IsBacked())
	assert.Equal(t, path, a.Path())
	assert.Zero(t, a.MemoryUsage())

	small := bytes.Repeat([]byte("z"), 100)
	require.NoError(t, a.AddFile("small.bin", small))
	assert.Equal(t, int64(100), a.MemoryUsage())

	got, err := a.ReadFile(`data\big.bin`)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, int64(100), a.MemoryUsage())

	require.NoError(t, a.Save(""))
	assert.Zero(t, a.MemoryUsage())
	assert.False(t, a.Dirty())

	info, ok := a.Entry("small.bin")
	require.True(t, ok)
	assert.False(t, info.Inline)
	got, err = a.ReadFile("small.bin")
	require.NoError(t, err)
	assert.Equal(t, small, got)

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(a.Header().ArchiveSize), st.Size())
	_, err = os.Stat(path + ".lock")
	assert.True(t, os.IsNotExist(err))

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{`data\big.bin`, "small.bin"}, reopened.Names())
	got, err = reopened.ReadFile(`data\big.bin`)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestBackedRemoveBeforeSaveKeepsOldOffsets(t *testing.T) {
	t.Parallel()

	path := testutil.WriteArchive(t, twoFileArchive())
	a, err := OpenFile(path)
	require.NoError(t, err)

	require.NoError(t, a.RemoveFile("a.txt"))
	info, ok := a.Entry("b.txt")
	require.True(t, ok)
	assert.Equal(t, uint32(50), info.Offset)
	got, err := a.ReadFile("b.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("bye"), got)

	require.NoError(t, a.Repack())
	info, ok = a.Entry("b.txt")
	require.True(t, ok)
	assert.Equal(t, uint32(34), info.Offset)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := testutil.BuildArchive("BIGF", []byte("L253"), testutil.File{Name: "b.txt", Data: []byte("bye")})
	assert.Equal(t, want, data)
}

func TestBackedSaveAs(t *testing.T) {
	t.Parallel()

	path := testutil.WriteArchive(t, twoFileArchive())
	a, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, a.EditFile("a.txt", []byte("hello")))

	dest := filepath.Join(t.TempDir(), "nested", "out.big")
	require.NoError(t, a.Save(dest))
	assert.Equal(t, dest, a.Path())

	orig, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, twoFileArchive(), orig)

	b, err := OpenFile(dest)
	require.NoError(t, err)
	got, err := b.ReadFile("a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestBackedTruncatedPayload(t *testing.T) {
	t.Parallel()

	path := testutil.WriteArchive(t, twoFileArchive())
	a, err := OpenFile(path)
	require.NoError(t, err)

	require.NoError(t, os.Truncate(path, 49))

	_, err = a.ReadFile("b.txt")
	require.ErrorIs(t, err, ErrIO)
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, path, ioErr.Path)
}

func TestBackedMissingFile(t *testing.T) {
	t.Parallel()

	path := testutil.WriteArchive(t, twoFileArchive())
	a, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	_, err = a.ReadFile("a.txt")
	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = OpenFile(filepath.Join(t.TempDir(), "absent.big"))
	require.ErrorIs(t, err, ErrIO)
}

func TestBackedBytes(t *testing.T) {
	t.Parallel()

	path := testutil.WriteArchive(t, twoFileArchive())
	a, err := OpenFile(path)
	require.NoError(t, err)

	data, err := a.Bytes()
	require.NoError(t, err)
	assert.Equal(t, twoFileArchive(), data)

	require.NoError(t, a.AddFile("c.txt", []byte("!")))
	data, err = a.Bytes()
	require.NoError(t, err)
	assert.False(t, a.Dirty())
	assert.Len(t, data, int(a.Header().ArchiveSize))
}

func TestInMemorySave(t *testing.T) {
	t.Parallel()

	a := New()
	require.NoError(t, a.AddFile("a.txt", []byte("hi")))
	require.NoError(t, a.AddFile("b.txt", []byte("bye")))

	path := filepath.Join(t.TempDir(), "out.big")
	require.NoError(t, a.Save(path))
	assert.False(t, a.IsBacked())
	assert.Empty(t, a.Path())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, twoFileArchive(), data)
}

func TestSaveOverflowLeavesArchiveUntouched(t *testing.T) {
	t.Parallel()

	a, err := FromBytes(twoFileArchive())
	require.NoError(t, err)
	a.entries[1].size = 1<<32 - 10
	a.markModified("b.txt")

	err = a.Repack()
	require.ErrorIs(t, err, ErrSizeOverflow)
	assert.Equal(t, uint32(53), a.Header().ArchiveSize)
	got, err := a.ReadFile("a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), got)
}
