package big

import "github.com/meigma/big/core/internal/bigtype"

// Error types re-exported from internal/bigtype.
type (
	// FormatError reports a malformed or unsupported header, index or payload.
	FormatError = bigtype.FormatError

	// IOError reports a failure of the backing storage.
	IOError = bigtype.IOError
)

// Sentinel errors re-exported from internal/bigtype.
var (
	// ErrFormat matches every *FormatError.
	ErrFormat = bigtype.ErrFormat

	// ErrCompressed is wrapped by the FormatError returned when a compressed
	// payload is read and no codec can decode it.
	ErrCompressed = bigtype.ErrCompressed

	// ErrIO matches every *IOError.
	ErrIO = bigtype.ErrIO

	// ErrNotFound is returned when a name is not in the archive.
	// It is fs.ErrNotExist.
	ErrNotFound = bigtype.ErrNotFound

	// ErrDuplicate is returned by strict adds and renames onto an existing
	// name. It is fs.ErrExist.
	ErrDuplicate = bigtype.ErrDuplicate

	// ErrInvalidName is returned for names the index cannot store.
	ErrInvalidName = bigtype.ErrInvalidName

	// ErrSizeOverflow is returned when sizes exceed the 32-bit format fields.
	ErrSizeOverflow = bigtype.ErrSizeOverflow

	// ErrNoPath is returned by Save when no destination is known.
	ErrNoPath = bigtype.ErrNoPath
)
