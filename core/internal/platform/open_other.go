//go:build !unix

package platform

import "os"

// openNoFollow opens name read-only. ReadRegular's Lstat and SameFile checks
// carry the symlink guard on this platform.
func openNoFollow(root *os.Root, name string) (*os.File, error) {
	return root.Open(name)
}
