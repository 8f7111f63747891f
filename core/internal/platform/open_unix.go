//go:build unix

package platform

import (
	"errors"
	"os"
	"syscall"
)

// openNoFollow opens name read-only, asking the kernel not to follow a final
// symlink.
func openNoFollow(root *os.Root, name string) (*os.File, error) {
	f, err := root.OpenFile(name, os.O_RDONLY|syscall.O_NOFOLLOW, 0)
	if errors.Is(err, syscall.ELOOP) {
		return nil, ErrSymlink
	}
	return f, err
}
