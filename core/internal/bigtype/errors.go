package bigtype

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors shared by the archive packages.
var (
	// ErrFormat matches every *FormatError.
	ErrFormat = errors.New("big: malformed archive")

	// ErrCompressed is wrapped by a FormatError when a payload is stored in a
	// compressed form that no configured codec can decode.
	ErrCompressed = errors.New("big: compressed entry")

	// ErrIO matches every *IOError.
	ErrIO = errors.New("big: backing storage error")

	// ErrNotFound is returned when a name is absent from the entry table.
	ErrNotFound = fs.ErrNotExist

	// ErrDuplicate is returned when a name is already present and the
	// operation refuses to replace it.
	ErrDuplicate = fs.ErrExist

	// ErrInvalidName is returned for names the index cannot represent.
	ErrInvalidName = errors.New("big: invalid entry name")

	// ErrSizeOverflow is returned when a payload or the whole archive would not
	// fit the 32-bit size fields of the format.
	ErrSizeOverflow = errors.New("big: size exceeds format limit")

	// ErrNoPath is returned by Save when neither a path nor a backing file is known.
	ErrNoPath = errors.New("big: no destination path")
)

// FormatError reports a malformed or unsupported header, index or payload.
type FormatError struct {
	// Offset is the byte position the problem was detected at, or -1.
	Offset int64

	// Reason describes the problem.
	Reason string

	// Err is an optional more specific cause, such as ErrCompressed.
	Err error
}

func (e *FormatError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("big: malformed archive at offset %d: %s", e.Offset, e.Reason)
	}
	return "big: malformed archive: " + e.Reason
}

// Unwrap returns the specific cause, if any.
func (e *FormatError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// Formatf builds a FormatError at offset.
func Formatf(offset int64, format string, args ...any) *FormatError {
	return &FormatError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

// IOError reports a failure of the backing storage during a lazy read,
// repack or save.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return "big: " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error { return e.Err }

// Is reports whether target is ErrIO.
func (e *IOError) Is(target error) bool { return target == ErrIO }
