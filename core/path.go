package big

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/meigma/big/core/internal/bigtype"
)

// NormalizeName converts a host path to archive name form.
//
// It performs the following transformations:
//   - Converts '/' to '\': "art/tex.tga" → "art\tex.tga"
//   - Strips leading and trailing separators: "\data\" → "data"
//   - Collapses consecutive separators: "a\\b" → "a\b"
//
// "." and ".." elements are preserved; LocalPath rejects them on extract.
func NormalizeName(p string) string {
	parts := strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' })
	return strings.Join(parts, `\`)
}

// LocalPath converts an archive name to a slash-separated path relative to
// an extraction root. Names that would escape the root fail with
// ErrInvalidName.
func LocalPath(name string) (string, error) {
	p := strings.ReplaceAll(NormalizeName(name), `\`, "/")
	if p == "" || !fs.ValidPath(p) {
		return "", fmt.Errorf("%w: %q escapes the extraction root", bigtype.ErrInvalidName, name)
	}
	return p, nil
}

// osPath returns the OS-specific form of a LocalPath result.
func osPath(p string) string {
	return filepath.FromSlash(p)
}
