// Package source provides scoped access to the serialized bytes an archive
// was parsed from or last repacked into.
package source

import (
	"bytes"
	"errors"
	"io"

	"golang.org/x/exp/mmap"
)

// Source is an acquired view of backing storage. Close releases it.
type Source interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

// Backing hands out Sources for the duration of one read, repack or save.
type Backing interface {
	Acquire() (Source, error)

	// ID names the backing for error messages.
	ID() string
}

// Memory is a Backing over an in-memory serialized archive.
type Memory struct {
	data []byte
}

// NewMemory returns a Backing over data. The slice is retained; callers
// must not modify it afterwards.
func NewMemory(data []byte) *Memory {
	return &Memory{data: data}
}

// Acquire implements Backing.
func (m *Memory) Acquire() (Source, error) {
	return memorySource{bytes.NewReader(m.data)}, nil
}

// ID implements Backing.
func (m *Memory) ID() string { return "memory" }

// Bytes returns the backing slice.
func (m *Memory) Bytes() []byte { return m.data }

type memorySource struct {
	*bytes.Reader
}

func (memorySource) Close() error { return nil }

// File is a Backing over a file on disk. Each Acquire maps the file and the
// returned Source unmaps it on Close, so the file is only held open while a
// caller is actively reading.
type File struct {
	path string
}

// NewFile returns a Backing over the file at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Acquire implements Backing.
func (f *File) Acquire() (Source, error) {
	r, err := mmap.Open(f.path)
	if err != nil {
		return nil, err
	}
	return fileSource{r}, nil
}

// ID implements Backing.
func (f *File) ID() string { return f.path }

// Path returns the file path.
func (f *File) Path() string { return f.path }

type fileSource struct {
	*mmap.ReaderAt
}

func (s fileSource) Size() int64 { return int64(s.Len()) }

// ReadRange reads exactly size bytes at off. A range that extends past the
// end of src fails with io.ErrUnexpectedEOF.
func ReadRange(src Source, off, size uint32) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	if int64(off)+int64(size) > src.Size() {
		return nil, io.ErrUnexpectedEOF
	}
	buf := make([]byte, size)
	n, err := src.ReadAt(buf, int64(off))
	if n == len(buf) {
		return buf, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return nil, err
}

// CopyRange copies exactly size bytes at off from src to w.
func CopyRange(w io.Writer, src Source, off, size uint32) error {
	if int64(off)+int64(size) > src.Size() {
		return io.ErrUnexpectedEOF
	}
	n, err := io.Copy(w, io.NewSectionReader(src, int64(off), int64(size)))
	if err != nil {
		return err
	}
	if n != int64(size) {
		return io.ErrUnexpectedEOF
	}
	return nil
}
