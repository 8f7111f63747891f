package format

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/meigma/big/core/internal/bigtype"
	"github.com/meigma/big/core/internal/sizing"
)

// HeaderSize is the size of the fixed header in bytes.
const HeaderSize = 16

// rowFixedSize covers the offset and size fields of an index row.
const rowFixedSize = 8

// Magic identifies the archive flavour.
type Magic [4]byte

// Known magics.
var (
	MagicBIGF = Magic{'B', 'I', 'G', 'F'}
	MagicBIG4 = Magic{'B', 'I', 'G', '4'}
)

// String returns the magic as text.
func (m Magic) String() string { return string(m[:]) }

// Valid reports whether m is a supported magic.
func (m Magic) Valid() bool { return m == MagicBIGF || m == MagicBIG4 }

// DefaultMarker is written between the index and the first payload of
// archives that were not parsed from existing bytes.
var DefaultMarker = []byte("L253")

// Header is the fixed archive header.
type Header struct {
	Magic       Magic
	ArchiveSize uint32
	EntryCount  uint32
	DataOffset  uint32
}

// IndexSize returns the number of bytes between the header and the first
// payload, index rows and marker included.
func (h Header) IndexSize() uint32 {
	if h.DataOffset < HeaderSize {
		return 0
	}
	return h.DataOffset - HeaderSize
}

// Row is one index row. Name holds the encoded name without its terminator.
type Row struct {
	Name   []byte
	Offset uint32
	Size   uint32
}

// RowSize returns the serialized size of a row whose encoded name is
// nameLen bytes long.
func RowSize(nameLen int) int {
	return rowFixedSize + nameLen + 1
}

// Parse decodes the header and index of a complete in-memory archive.
func Parse(data []byte) (Header, []Row, []byte, error) {
	return Read(bytes.NewReader(data), int64(len(data)))
}

// Read decodes the header and index from r, where size is the number of
// bytes available. Only the header and index are read. The returned marker
// holds the bytes between the last row and the data offset.
func Read(r io.ReaderAt, size int64) (Header, []Row, []byte, error) {
	var h Header
	if size < HeaderSize {
		return h, nil, nil, bigtype.Formatf(0, "need %d header bytes, have %d", HeaderSize, size)
	}

	var raw [HeaderSize]byte
	if err := readFull(r, raw[:], 0); err != nil {
		return h, nil, nil, fmt.Errorf("read header: %w", err)
	}
	h = decodeHeader(raw[:])
	if !h.Magic.Valid() {
		return h, nil, nil, bigtype.Formatf(0, "unknown magic %q", h.Magic.String())
	}
	if int64(h.ArchiveSize) > size {
		return h, nil, nil, bigtype.Formatf(4, "declared archive size %d exceeds %d available bytes", h.ArchiveSize, size)
	}
	if h.DataOffset < HeaderSize || int64(h.DataOffset) > size {
		return h, nil, nil, bigtype.Formatf(12, "data offset %d outside [%d, %d]", h.DataOffset, HeaderSize, size)
	}
	// Every row takes at least rowFixedSize+1 bytes; reject counts that could
	// not fit before allocating for them.
	if uint64(h.EntryCount)*uint64(RowSize(0)) > uint64(h.IndexSize()) {
		return h, nil, nil, bigtype.Formatf(8, "%d entries do not fit in %d index bytes", h.EntryCount, h.IndexSize())
	}

	index := make([]byte, h.IndexSize())
	if err := readFull(r, index, HeaderSize); err != nil {
		return h, nil, nil, fmt.Errorf("read index: %w", err)
	}

	rows, pos, err := decodeRows(index, h.EntryCount, size)
	if err != nil {
		return h, nil, nil, err
	}
	return h, rows, bytes.Clone(index[pos:]), nil
}

// readFull fills b from r at off. A full read is accepted even when the
// reader also reports io.EOF.
func readFull(r io.ReaderAt, b []byte, off int64) error {
	if len(b) == 0 {
		return nil
	}
	n, err := r.ReadAt(b, off)
	if n == len(b) {
		return nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func decodeHeader(b []byte) Header {
	var h Header
	copy(h.Magic[:], b[0:4])
	h.ArchiveSize = binary.LittleEndian.Uint32(b[4:8])
	h.EntryCount = binary.BigEndian.Uint32(b[8:12])
	h.DataOffset = binary.BigEndian.Uint32(b[12:16])
	return h
}

// decodeRows parses count rows from index and returns the position after
// the last row.
func decodeRows(index []byte, count uint32, size int64) ([]Row, int, error) {
	rows := make([]Row, 0, count)
	pos := 0
	for i := range count {
		at := int64(HeaderSize + pos)
		if len(index)-pos < rowFixedSize {
			return nil, 0, bigtype.Formatf(at, "index row %d truncated", i)
		}
		row := Row{
			Offset: binary.BigEndian.Uint32(index[pos:]),
			Size:   binary.BigEndian.Uint32(index[pos+4:]),
		}
		pos += rowFixedSize

		end := bytes.IndexByte(index[pos:], 0)
		if end < 0 {
			return nil, 0, bigtype.Formatf(at, "index row %d name is not terminated", i)
		}
		if end == 0 {
			return nil, 0, bigtype.Formatf(at, "index row %d has an empty name", i)
		}
		row.Name = bytes.Clone(index[pos : pos+end])
		pos += end + 1

		if !sizing.InBounds(row.Offset, row.Size, size) {
			return nil, 0, bigtype.Formatf(at, "entry %q range [%d, +%d) exceeds %d available bytes", row.Name, row.Offset, row.Size, size)
		}
		rows = append(rows, row)
	}
	return rows, pos, nil
}

// Layout assigns contiguous offsets to rows, in order, starting right after
// the index and marker, and returns the matching header.
func Layout(magic Magic, rows []Row, marker []byte) (Header, error) {
	if !magic.Valid() {
		return Header{}, fmt.Errorf("big: unsupported magic %q", magic.String())
	}
	count, ok := sizing.ToUint32(len(rows))
	if !ok {
		return Header{}, bigtype.ErrSizeOverflow
	}

	indexLen := HeaderSize + len(marker)
	for _, row := range rows {
		indexLen += RowSize(len(row.Name))
	}
	dataOffset, ok := sizing.ToUint32(indexLen)
	if !ok {
		return Header{}, bigtype.ErrSizeOverflow
	}

	pos := dataOffset
	for i := range rows {
		rows[i].Offset = pos
		if pos, ok = sizing.AddUint32(pos, rows[i].Size); !ok {
			return Header{}, bigtype.ErrSizeOverflow
		}
	}

	return Header{
		Magic:       magic,
		ArchiveSize: pos,
		EntryCount:  count,
		DataOffset:  dataOffset,
	}, nil
}

// Write serializes the header, index rows and marker to w. Payloads are
// not written.
func Write(w io.Writer, h Header, rows []Row, marker []byte) error {
	buf := make([]byte, h.DataOffset)
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.ArchiveSize)
	binary.BigEndian.PutUint32(buf[8:12], h.EntryCount)
	binary.BigEndian.PutUint32(buf[12:16], h.DataOffset)

	pos := HeaderSize
	for _, row := range rows {
		if pos+RowSize(len(row.Name)) > len(buf) {
			return fmt.Errorf("big: index rows exceed data offset %d", h.DataOffset)
		}
		binary.BigEndian.PutUint32(buf[pos:], row.Offset)
		binary.BigEndian.PutUint32(buf[pos+4:], row.Size)
		pos += rowFixedSize
		pos += copy(buf[pos:], row.Name)
		buf[pos] = 0
		pos++
	}
	if pos+len(marker) != len(buf) {
		return fmt.Errorf("big: index and marker end at %d, data offset is %d", pos+len(marker), h.DataOffset)
	}
	copy(buf[pos:], marker)

	_, err := w.Write(buf)
	return err
}
