package platform

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

// ErrSymlink is returned when a regular file was replaced by a symbolic link.
var ErrSymlink = errors.New("big: symbolic link")

// ErrChanged is returned when the file at name changed between the Lstat and
// the open.
var ErrChanged = errors.New("big: file changed while reading")

// ReadRegular reads name under root, refusing symbolic links.
//
// The file is checked with Lstat first and the opened file must be the same
// one, so a link swapped in after the check is rejected too.
func ReadRegular(root *os.Root, name string) ([]byte, error) {
	before, err := root.Lstat(name)
	if err != nil {
		return nil, err
	}
	if before.Mode()&fs.ModeSymlink != 0 {
		return nil, ErrSymlink
	}

	f, err := openNoFollow(root, name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	after, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !os.SameFile(before, after) {
		return nil, ErrChanged
	}
	return io.ReadAll(f)
}
