package big

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/meigma/big/core/internal/bigtype"
	"github.com/meigma/big/core/internal/format"
	"github.com/meigma/big/core/internal/source"
)

// Repack serializes the entry table into a fresh stream and makes it the
// new backing. Entries are laid out contiguously in index order; afterwards
// every entry is a lazy reference into the new stream and MemoryUsage is 0.
//
// Backed archives are rewritten in place, as by Save("").
func (a *Archive) Repack() error {
	if a.file != nil {
		return a.Save("")
	}
	return a.repackMemory()
}

func (a *Archive) repackMemory() error {
	hdr, rows, err := a.layout()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.Grow(int(hdr.ArchiveSize))
	if err := a.writeStream(&buf, hdr, rows); err != nil {
		return err
	}
	a.commit(source.NewMemory(buf.Bytes()), hdr, rows)
	return nil
}

// layout builds index rows for the current entry table and assigns their
// offsets.
func (a *Archive) layout() (Header, []format.Row, error) {
	rows := make([]format.Row, len(a.entries))
	for i, e := range a.entries {
		rows[i] = format.Row{Name: e.rawName, Size: e.size}
	}
	hdr, err := format.Layout(a.magic, rows, a.marker)
	if err != nil {
		return Header{}, nil, fmt.Errorf("big: layout: %w", err)
	}
	return hdr, rows, nil
}

// writeStream writes the header, index, marker and every payload in index
// order. Lazy payloads are copied from the current backing, which is
// acquired once for the whole write.
func (a *Archive) writeStream(w io.Writer, hdr Header, rows []format.Row) error {
	if err := format.Write(w, hdr, rows, a.marker); err != nil {
		return fmt.Errorf("big: write index: %w", err)
	}

	var src source.Source
	for _, e := range a.entries {
		if e.kind == payloadLazy {
			s, err := a.acquire()
			if err != nil {
				return err
			}
			defer s.Close()
			src = s
			break
		}
	}

	for _, e := range a.entries {
		if e.kind == payloadInline {
			if _, err := w.Write(e.data); err != nil {
				return fmt.Errorf("big: write %s: %w", e.name, err)
			}
			continue
		}
		if err := source.CopyRange(w, src, e.offset, e.size); err != nil {
			return &bigtype.IOError{Op: "copy " + e.name + " from", Path: a.backing.ID(), Err: err}
		}
	}
	return nil
}

// commit switches the archive to a freshly written stream described by hdr
// and rows.
func (a *Archive) commit(b source.Backing, hdr Header, rows []format.Row) {
	for i, e := range a.entries {
		e.offset = rows[i].Offset
		e.kind = payloadLazy
		e.data = nil
	}
	a.backing = b
	a.header = hdr
	a.inline = 0
	clear(a.modified)
	a.log().Info("repacked archive",
		"backing", b.ID(),
		"entries", hdr.EntryCount,
		"size", hdr.ArchiveSize)
}

// Bytes returns the serialized archive, repacking first if the archive is
// dirty. For in-memory archives the returned slice is the backing stream
// and must not be modified.
func (a *Archive) Bytes() ([]byte, error) {
	if a.file != nil {
		if a.Dirty() {
			if err := a.Save(""); err != nil {
				return nil, err
			}
		}
		data, err := os.ReadFile(a.file.Path())
		if err != nil {
			return nil, &bigtype.IOError{Op: "read", Path: a.file.Path(), Err: err}
		}
		return data, nil
	}
	if a.Dirty() {
		if err := a.repackMemory(); err != nil {
			return nil, err
		}
	}
	return a.backing.(*source.Memory).Bytes(), nil
}
