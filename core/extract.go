package big

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/meigma/big/core/internal/bigtype"
	"github.com/meigma/big/core/internal/source"
)

const defaultExtractWorkers = 4

type extractConfig struct {
	workers   int
	overwrite bool
}

// ExtractOption configures Extract.
type ExtractOption func(*extractConfig)

// ExtractWithWorkers sets how many files are written concurrently.
// Values below 1 mean one worker.
func ExtractWithWorkers(n int) ExtractOption {
	return func(c *extractConfig) {
		c.workers = n
	}
}

// ExtractWithOverwrite controls whether existing files are replaced.
// When disabled, existing files are skipped and counted in ExtractStats.Skipped.
// The default is true.
func ExtractWithOverwrite(overwrite bool) ExtractOption {
	return func(c *extractConfig) {
		c.overwrite = overwrite
	}
}

// ExtractStats summarizes an Extract call.
type ExtractStats struct {
	Files   int
	Skipped int
	Bytes   int64
}

// Extract writes every entry to dir, creating subdirectories for names
// containing '\'. Names that would escape dir, or that map to the same file
// or to a directory of another entry, fail with ErrInvalidName before
// anything is written.
//
// A dirty archive is repacked first. Registered codecs must be safe for
// concurrent use since entries are decoded by several workers.
func (a *Archive) Extract(dir string, opts ...ExtractOption) (ExtractStats, error) {
	cfg := extractConfig{workers: defaultExtractWorkers, overwrite: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = 1
	}

	paths, err := a.localPaths()
	if err != nil {
		return ExtractStats{}, err
	}

	if a.Dirty() {
		if err := a.Repack(); err != nil {
			return ExtractStats{}, err
		}
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ExtractStats{}, &bigtype.IOError{Op: "create", Path: dir, Err: err}
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return ExtractStats{}, &bigtype.IOError{Op: "open", Path: dir, Err: err}
	}
	defer root.Close()

	dirs := make(map[string]struct{})
	for _, p := range paths {
		d := filepath.Dir(p)
		if _, seen := dirs[d]; seen || d == "." {
			continue
		}
		dirs[d] = struct{}{}
		if err := root.MkdirAll(d, 0o750); err != nil {
			return ExtractStats{}, &bigtype.IOError{Op: "create", Path: filepath.Join(dir, d), Err: err}
		}
	}

	var src source.Source
	if len(a.entries) > 0 {
		if src, err = a.acquire(); err != nil {
			return ExtractStats{}, err
		}
		defer src.Close()
	}

	var files, skipped, written atomic.Int64

	eg, ctx := errgroup.WithContext(context.Background())
	eg.SetLimit(cfg.workers)
	for i, e := range a.entries {
		if ctx.Err() != nil {
			break
		}
		rel := paths[i]
		eg.Go(func() error {
			if !cfg.overwrite {
				if _, err := root.Stat(rel); err == nil {
					skipped.Add(1)
					return nil
				}
			}
			data, err := a.readFrom(src, e)
			if err != nil {
				return err
			}
			if data, err = a.decode(e.name, data); err != nil {
				return err
			}
			if err := writeRootFile(root, rel, data); err != nil {
				return &bigtype.IOError{Op: "extract", Path: filepath.Join(dir, rel), Err: err}
			}
			files.Add(1)
			written.Add(int64(len(data)))
			a.log().Debug("extracted entry", "name", e.name, "size", len(data))
			return nil
		})
	}

	stats := ExtractStats{}
	err = eg.Wait()
	stats.Files = int(files.Load())
	stats.Skipped = int(skipped.Load())
	stats.Bytes = written.Load()
	if err != nil {
		return stats, err
	}
	a.log().Info("extracted archive",
		"dir", dir,
		"files", stats.Files,
		"skipped", stats.Skipped,
		"bytes", stats.Bytes)
	return stats, nil
}

func writeRootFile(root *os.Root, rel string, data []byte) error {
	f, err := root.OpenFile(rel, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// localPaths maps every entry to its OS path under the extraction root.
// Two entries may not share a path, and no entry's path may be a parent
// directory of another's.
func (a *Archive) localPaths() ([]string, error) {
	paths := make([]string, len(a.entries))
	owner := make(map[string]string, len(a.entries))
	parents := make(map[string]string)
	for i, e := range a.entries {
		p, err := LocalPath(e.name)
		if err != nil {
			return nil, err
		}
		if other, ok := owner[p]; ok {
			return nil, fmt.Errorf("%w: %q and %q extract to the same file", bigtype.ErrInvalidName, other, e.name)
		}
		if other, ok := parents[p]; ok {
			return nil, fmt.Errorf("%w: %q is a directory of %q", bigtype.ErrInvalidName, e.name, other)
		}
		owner[p] = e.name
		for d := path.Dir(p); d != "."; d = path.Dir(d) {
			if other, ok := owner[d]; ok {
				return nil, fmt.Errorf("%w: %q is a directory of %q", bigtype.ErrInvalidName, other, e.name)
			}
			if _, seen := parents[d]; seen {
				break
			}
			parents[d] = e.name
		}
		paths[i] = osPath(p)
	}
	return paths, nil
}
