// Package testutil provides helpers for building .big fixtures in tests.
package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// File is one entry of a fixture archive.
type File struct {
	Name string
	Data []byte
}

// BuildArchive serializes files in order with the given magic and marker.
// Names are written byte for byte, so callers control the encoding.
func BuildArchive(magic string, marker []byte, files ...File) []byte {
	dataOffset := 16 + len(marker)
	for _, f := range files {
		dataOffset += 8 + len(f.Name) + 1
	}
	total := dataOffset
	for _, f := range files {
		total += len(f.Data)
	}

	out := make([]byte, 0, total)
	out = append(out, magic[:4]...)
	out = binary.LittleEndian.AppendUint32(out, uint32(total))
	out = binary.BigEndian.AppendUint32(out, uint32(len(files)))
	out = binary.BigEndian.AppendUint32(out, uint32(dataOffset))

	off := dataOffset
	for _, f := range files {
		out = binary.BigEndian.AppendUint32(out, uint32(off))
		out = binary.BigEndian.AppendUint32(out, uint32(len(f.Data)))
		out = append(out, f.Name...)
		out = append(out, 0)
		off += len(f.Data)
	}
	out = append(out, marker...)
	for _, f := range files {
		out = append(out, f.Data...)
	}
	return out
}

// WriteArchive writes a fixture archive to a file in a fresh temp directory
// and returns its path.
func WriteArchive(t testing.TB, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.big")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

// WriteTree creates files under dir. Keys are slash-separated relative
// paths.
func WriteTree(t testing.TB, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}
