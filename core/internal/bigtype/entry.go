package bigtype

// EntryInfo describes one entry of the table for enumeration.
type EntryInfo struct {
	// Name is the backslash-delimited entry name, e.g. `data\ini\weapon.ini`.
	Name string

	// Size is the payload size in bytes.
	Size uint32

	// Offset is the payload position in the last serialized stream.
	// It is zero for entries whose bytes are held in memory.
	Offset uint32

	// Inline reports whether the payload is held in memory rather than read
	// lazily from the backing stream.
	Inline bool
}
