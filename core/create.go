package big

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/karrick/godirwalk"

	"github.com/meigma/big/core/internal/platform"
)

// FromDirectory builds an in-memory archive from the regular files under
// dir. Each file becomes an entry named by its path relative to dir with
// separators converted to '\'.
//
// The walk is lexical per directory, so the entry order is deterministic.
// Symbolic links are skipped and empty directories are not preserved.
func FromDirectory(dir string, opts ...Option) (*Archive, error) {
	a := newArchive(opts)
	a.log().Info("creating archive", "dir", dir)

	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("big: %s is not a directory", dir)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	var total int64
	err = godirwalk.Walk(dir, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() || !de.IsRegular() {
				if de.IsSymlink() {
					a.log().Debug("skipping symlink", "path", path)
				}
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			data, err := platform.ReadRegular(root, rel)
			if errors.Is(err, platform.ErrSymlink) {
				a.log().Debug("skipping symlink", "path", path)
				return nil
			}
			if err != nil {
				return err
			}
			if err := a.AddFile(NormalizeName(filepath.ToSlash(rel)), data); err != nil {
				return err
			}
			total += int64(len(data))
			return nil
		},
		Unsorted: false,
	})
	if err != nil {
		return nil, fmt.Errorf("big: walk %s: %w", dir, err)
	}

	a.log().Debug("archive contents loaded", "file_count", len(a.entries), "data_size", total)
	return a, nil
}
