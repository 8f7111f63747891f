package big

import (
	bigcore "github.com/meigma/big/core"
)

// Error types re-exported from core.
type (
	FormatError = bigcore.FormatError
	IOError     = bigcore.IOError
)

// Errors re-exported from core.
var (
	// ErrFormat matches every *FormatError.
	ErrFormat = bigcore.ErrFormat

	// ErrCompressed is returned when a compressed payload has no codec.
	ErrCompressed = bigcore.ErrCompressed

	// ErrIO matches every *IOError.
	ErrIO = bigcore.ErrIO

	// ErrNotFound is returned when a name is not in the archive.
	ErrNotFound = bigcore.ErrNotFound

	// ErrDuplicate is returned by strict adds and conflicting renames.
	ErrDuplicate = bigcore.ErrDuplicate

	// ErrInvalidName is returned for names the index cannot store.
	ErrInvalidName = bigcore.ErrInvalidName

	// ErrSizeOverflow is returned when sizes exceed the format's 32-bit fields.
	ErrSizeOverflow = bigcore.ErrSizeOverflow

	// ErrNoPath is returned by Save when no destination is known.
	ErrNoPath = bigcore.ErrNoPath
)
