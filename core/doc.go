// Package big reads, edits and writes .big archives, the single-file
// containers used by SAGE engine real-time strategy games.
//
// An archive is a fixed header, an index of named entries and the entry
// payloads at the offsets the index declares. Offsets are absolute and
// contiguous, so edits are staged against the entry table and only applied
// to the serialized stream by an explicit Repack (or by Save, Extract and
// Bytes, which repack on the caller's behalf).
//
// Two variants share one API:
//   - In-memory archives (New, FromBytes, FromDirectory) hold every payload
//     in memory.
//   - Backed archives (OpenFile) parse only the header and index and read
//     unmodified payloads lazily from the backing file. MemoryUsage reports
//     the bytes held in memory so callers can decide when to Save.
//
// Archive is not safe for concurrent use.
package big
