package big

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"slices"

	"github.com/meigma/big/core/internal/bigtype"
	"github.com/meigma/big/core/internal/format"
	"github.com/meigma/big/core/internal/sizing"
	"github.com/meigma/big/core/internal/source"
)

type (
	// EntryInfo describes one entry of the archive.
	EntryInfo = bigtype.EntryInfo

	// Header is the fixed archive header as of the last parse or repack.
	Header = format.Header
)

// payloadKind tags where an entry's bytes live.
type payloadKind uint8

const (
	// payloadLazy entries reference a range of the current backing stream.
	payloadLazy payloadKind = iota
	// payloadInline entries hold their bytes in data.
	payloadInline
)

// entry is one row of the entry table.
type entry struct {
	name    string
	rawName []byte // name in the index encoding
	offset  uint32
	size    uint32
	kind    payloadKind
	data    []byte
}

func (e *entry) info() EntryInfo {
	info := EntryInfo{Name: e.name, Size: e.size, Inline: e.kind == payloadInline}
	if e.kind == payloadLazy {
		info.Offset = e.offset
	}
	return info
}

// Archive is a .big archive: an ordered entry table plus the serialized
// stream it was parsed from or last repacked into.
//
// Mutations (AddFile, EditFile, RemoveFile, RenameFile) only change the
// entry table. Lazy entries keep resolving against the previous stream
// until Repack replaces it.
type Archive struct {
	cfg      config
	backing  source.Backing // nil until the archive is first serialized
	file     *source.File   // non-nil for backed archives
	header   Header
	magic    Magic
	marker   []byte
	entries  []*entry
	lookup   map[string]*entry
	modified map[string]struct{}
	inline   int64
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	if a.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.cfg.logger
}

func newArchive(opts []Option) *Archive {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Archive{
		cfg:      cfg,
		magic:    cfg.magic,
		marker:   cfg.marker,
		lookup:   make(map[string]*entry),
		modified: make(map[string]struct{}),
	}
}

// New returns an empty in-memory archive.
func New(opts ...Option) *Archive {
	return newArchive(opts)
}

// FromBytes parses a complete serialized archive held in memory.
//
// The data slice is retained as the backing stream; callers must not modify
// it afterwards.
func FromBytes(data []byte, opts ...Option) (*Archive, error) {
	a := newArchive(opts)
	if err := a.load(source.NewMemory(data)); err != nil {
		return nil, err
	}
	a.log().Debug("parsed archive", "entries", len(a.entries), "size", len(data))
	return a, nil
}

// OpenFile opens a backed archive. Only the header and index are read;
// payloads are read from path on demand.
func OpenFile(path string, opts ...Option) (*Archive, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &bigtype.IOError{Op: "open", Path: path, Err: err}
	}
	a := newArchive(opts)
	f := source.NewFile(path)
	if err := a.load(f); err != nil {
		return nil, err
	}
	a.file = f
	a.log().Debug("opened backed archive", "path", path, "entries", len(a.entries))
	return a, nil
}

// load parses the header and index of b and makes b the backing stream.
func (a *Archive) load(b source.Backing) error {
	src, err := b.Acquire()
	if err != nil {
		return &bigtype.IOError{Op: "open", Path: b.ID(), Err: err}
	}
	defer src.Close()

	h, rows, marker, err := format.Read(src, src.Size())
	if err != nil {
		if errors.Is(err, bigtype.ErrFormat) {
			return err
		}
		return &bigtype.IOError{Op: "parse", Path: b.ID(), Err: err}
	}

	decoder := a.cfg.nameEncoding.NewDecoder()
	entries := make([]*entry, 0, len(rows))
	for _, row := range rows {
		name, err := decoder.Bytes(row.Name)
		if err != nil {
			return bigtype.Formatf(-1, "cannot decode name %q: %v", row.Name, err)
		}
		e := &entry{
			name:    string(name),
			rawName: row.Name,
			offset:  row.Offset,
			size:    row.Size,
			kind:    payloadLazy,
		}
		if _, dup := a.lookup[e.name]; dup {
			return bigtype.Formatf(-1, "duplicate entry name %q", e.name)
		}
		a.lookup[e.name] = e
		entries = append(entries, e)
	}

	a.entries = entries
	a.backing = b
	a.header = h
	a.magic = h.Magic
	a.marker = marker
	return nil
}

// IsBacked reports whether unmodified payloads are read from a file.
func (a *Archive) IsBacked() bool {
	return a.file != nil
}

// Path returns the backing file of a backed archive, or "".
func (a *Archive) Path() string {
	if a.file == nil {
		return ""
	}
	return a.file.Path()
}

// Header returns the header as of the last parse or repack. It is not
// updated by mutations.
func (a *Archive) Header() Header {
	return a.header
}

// Magic returns the magic the archive is written with.
func (a *Archive) Magic() Magic {
	return a.magic
}

// MemoryUsage returns the number of payload bytes held in memory by added or
// edited entries. It drops to zero after a repack or save.
func (a *Archive) MemoryUsage() int64 {
	return a.inline
}

// Dirty reports whether the entry table has changes that are not reflected
// in the serialized stream.
func (a *Archive) Dirty() bool {
	return a.backing == nil || len(a.modified) > 0
}

// Modified returns the sorted names added, edited, removed or renamed since
// the last parse or repack.
func (a *Archive) Modified() []string {
	names := make([]string, 0, len(a.modified))
	for name := range a.modified {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of entries.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Exists reports whether name is in the archive.
func (a *Archive) Exists(name string) bool {
	_, ok := a.lookup[name]
	return ok
}

// Entry returns information about name.
func (a *Archive) Entry(name string) (EntryInfo, bool) {
	e, ok := a.lookup[name]
	if !ok {
		return EntryInfo{}, false
	}
	return e.info(), true
}

// Entries returns an iterator over all entries in index order.
func (a *Archive) Entries() iter.Seq[EntryInfo] {
	return func(yield func(EntryInfo) bool) {
		for _, e := range a.entries {
			if !yield(e.info()) {
				return
			}
		}
	}
}

// Names returns all entry names in index order.
func (a *Archive) Names() []string {
	names := make([]string, len(a.entries))
	for i, e := range a.entries {
		names[i] = e.name
	}
	return names
}

// ReadFile returns the content of name.
//
// Lazy entries are read from the current backing stream. Payloads detected
// by a registered codec are decoded; RefPack payloads without a codec fail
// with ErrCompressed.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	e, ok := a.lookup[name]
	if !ok {
		return nil, notFound("read", name)
	}
	raw, err := a.readPayload(e)
	if err != nil {
		return nil, err
	}
	return a.decode(e.name, raw)
}

// readPayload returns the stored bytes of e, acquiring the backing for the
// duration of the read.
func (a *Archive) readPayload(e *entry) ([]byte, error) {
	if e.kind == payloadInline {
		return bytes.Clone(e.data), nil
	}
	src, err := a.acquire()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return a.readFrom(src, e)
}

// readFrom returns the stored bytes of e using an already acquired source.
func (a *Archive) readFrom(src source.Source, e *entry) ([]byte, error) {
	if e.kind == payloadInline {
		return bytes.Clone(e.data), nil
	}
	data, err := source.ReadRange(src, e.offset, e.size)
	if err != nil {
		return nil, &bigtype.IOError{Op: "read " + e.name + " from", Path: a.backing.ID(), Err: err}
	}
	return data, nil
}

// acquire opens the backing stream.
func (a *Archive) acquire() (source.Source, error) {
	if a.backing == nil {
		return nil, &bigtype.IOError{Op: "acquire", Path: "archive", Err: os.ErrClosed}
	}
	src, err := a.backing.Acquire()
	if err != nil {
		return nil, &bigtype.IOError{Op: "acquire", Path: a.backing.ID(), Err: err}
	}
	return src, nil
}

// AddFile stores data under name.
//
// If name exists the entry is replaced in place and keeps its index
// position, unless WithStrictAdd is set, in which case AddFile fails with
// ErrDuplicate. The bytes are copied and held in memory until the next
// repack.
func (a *Archive) AddFile(name string, data []byte) error {
	rawName, err := a.encodeName(name)
	if err != nil {
		return &fs.PathError{Op: "add", Path: name, Err: err}
	}
	if err := checkPayloadSize(data); err != nil {
		return &fs.PathError{Op: "add", Path: name, Err: err}
	}

	if e, ok := a.lookup[name]; ok {
		if a.cfg.strictAdd {
			return &fs.PathError{Op: "add", Path: name, Err: bigtype.ErrDuplicate}
		}
		a.setInline(e, data)
		a.markModified(name)
		a.log().Debug("replaced entry", "name", name, "size", len(data))
		return nil
	}

	e := &entry{name: name, rawName: rawName}
	a.setInline(e, data)
	a.entries = append(a.entries, e)
	a.lookup[name] = e
	a.markModified(name)
	a.log().Debug("added entry", "name", name, "size", len(data))
	return nil
}

// EditFile replaces the content of an existing entry.
func (a *Archive) EditFile(name string, data []byte) error {
	e, ok := a.lookup[name]
	if !ok {
		return notFound("edit", name)
	}
	if err := checkPayloadSize(data); err != nil {
		return &fs.PathError{Op: "edit", Path: name, Err: err}
	}
	a.setInline(e, data)
	a.markModified(name)
	a.log().Debug("edited entry", "name", name, "size", len(data))
	return nil
}

// RemoveFile deletes name from the entry table.
func (a *Archive) RemoveFile(name string) error {
	e, ok := a.lookup[name]
	if !ok {
		return notFound("remove", name)
	}
	if e.kind == payloadInline {
		a.inline -= int64(len(e.data))
	}
	delete(a.lookup, name)
	a.entries = slices.DeleteFunc(a.entries, func(x *entry) bool { return x == e })
	a.markModified(name)
	a.log().Debug("removed entry", "name", name)
	return nil
}

// RenameFile moves the entry oldName to newName, keeping its content and
// index position. It fails with ErrDuplicate if newName exists.
func (a *Archive) RenameFile(oldName, newName string) error {
	e, ok := a.lookup[oldName]
	if !ok {
		return notFound("rename", oldName)
	}
	if oldName == newName {
		return nil
	}
	if _, exists := a.lookup[newName]; exists {
		return &fs.PathError{Op: "rename", Path: newName, Err: bigtype.ErrDuplicate}
	}
	rawName, err := a.encodeName(newName)
	if err != nil {
		return &fs.PathError{Op: "rename", Path: newName, Err: err}
	}

	delete(a.lookup, oldName)
	e.name = newName
	e.rawName = rawName
	a.lookup[newName] = e
	a.markModified(oldName)
	a.markModified(newName)
	a.log().Debug("renamed entry", "from", oldName, "to", newName)
	return nil
}

// setInline makes data the inline payload of e and keeps the memory
// counter in step.
func (a *Archive) setInline(e *entry, data []byte) {
	if e.kind == payloadInline {
		a.inline -= int64(len(e.data))
	}
	e.data = make([]byte, len(data))
	copy(e.data, data)
	e.size = uint32(len(data)) //nolint:gosec // checked by checkPayloadSize
	e.offset = 0
	e.kind = payloadInline
	a.inline += int64(len(data))
}

func (a *Archive) markModified(name string) {
	a.modified[name] = struct{}{}
}

// encodeName validates name and returns it in the index encoding.
func (a *Archive) encodeName(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty", bigtype.ErrInvalidName)
	}
	raw, err := a.cfg.nameEncoding.NewEncoder().Bytes([]byte(name))
	if err != nil {
		return nil, fmt.Errorf("%w: not representable in the name encoding: %v", bigtype.ErrInvalidName, err)
	}
	if bytes.IndexByte(raw, 0) >= 0 {
		return nil, fmt.Errorf("%w: contains NUL", bigtype.ErrInvalidName)
	}
	return raw, nil
}

func checkPayloadSize(data []byte) error {
	if uint64(len(data)) > sizing.MaxArchiveSize {
		return bigtype.ErrSizeOverflow
	}
	return nil
}

func notFound(op, name string) error {
	return &fs.PathError{Op: op, Path: name, Err: bigtype.ErrNotFound}
}
