// Package sizing provides checked arithmetic for the 32-bit size fields of
// the archive format.
package sizing

import "math"

// MaxArchiveSize is the largest archive the format can describe.
const MaxArchiveSize = math.MaxUint32

// ToUint32 converts n to uint32, returning false if it does not fit.
func ToUint32(n int) (uint32, bool) {
	if n < 0 || uint64(n) > MaxArchiveSize {
		return 0, false
	}
	return uint32(n), true //nolint:gosec // checked above
}

// AddUint32 adds a and b, returning (result, false) on overflow.
func AddUint32(a, b uint32) (uint32, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// InBounds reports whether the range [off, off+size) lies within limit bytes.
func InBounds(off, size uint32, limit int64) bool {
	if limit < 0 {
		return false
	}
	return uint64(off)+uint64(size) <= uint64(limit)
}
