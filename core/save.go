package big

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/meigma/big/core/internal/bigtype"
	"github.com/meigma/big/core/internal/source"
)

// Save writes the archive to path. An empty path means the backing file of
// a backed archive; in-memory archives without a path fail with ErrNoPath.
//
// Writes are atomic (temp file + rename) and hold an advisory lock on
// path + ".lock". Parent directories are created as needed.
//
// A backed archive is repacked into path and becomes backed by it. An
// in-memory archive is repacked in memory if dirty and stays in memory.
func (a *Archive) Save(path string) error {
	if path == "" {
		if a.file == nil {
			return bigtype.ErrNoPath
		}
		path = a.file.Path()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return &bigtype.IOError{Op: "create directory for", Path: path, Err: err}
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return &bigtype.IOError{Op: "lock", Path: path, Err: err}
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	if a.file == nil {
		return a.saveMemory(path)
	}
	return a.saveBacked(path)
}

func (a *Archive) saveMemory(path string) error {
	if a.Dirty() {
		if err := a.repackMemory(); err != nil {
			return err
		}
	}
	data := a.backing.(*source.Memory).Bytes()
	if err := writeFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		return &bigtype.IOError{Op: "save", Path: path, Err: err}
	}
	a.log().Info("saved archive", "path", path, "entries", len(a.entries), "size", len(data))
	return nil
}

func (a *Archive) saveBacked(path string) error {
	if path == a.file.Path() && !a.Dirty() {
		return nil
	}
	hdr, rows, err := a.layout()
	if err != nil {
		return err
	}

	// writeStream releases the old mapping before the rename replaces it.
	if err := writeFileAtomic(path, func(w io.Writer) error {
		bw := bufio.NewWriterSize(w, 1<<20)
		if err := a.writeStream(bw, hdr, rows); err != nil {
			return err
		}
		return bw.Flush()
	}); err != nil {
		var ioErr *bigtype.IOError
		if errors.As(err, &ioErr) {
			return err
		}
		return &bigtype.IOError{Op: "save", Path: path, Err: err}
	}

	f := source.NewFile(path)
	a.file = f
	a.commit(f, hdr, rows)
	a.log().Info("saved archive", "path", path, "entries", hdr.EntryCount, "size", hdr.ArchiveSize)
	return nil
}

// writeFileAtomic runs write against a temp file in the target directory
// then renames it over target.
func writeFileAtomic(target string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".big-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", target, err)
	}
	return nil
}
