// Package format reads and writes the fixed header and index table of .big
// archives.
//
// Layout:
//
//	offset 0   magic        [4]byte  "BIGF" or "BIG4"
//	offset 4   archive size uint32   little-endian
//	offset 8   entry count  uint32   big-endian
//	offset 12  data offset  uint32   big-endian, first payload byte
//	offset 16  index rows, one per entry:
//	             offset uint32 big-endian
//	             size   uint32 big-endian
//	             name   encoded bytes followed by a single NUL
//	           marker bytes up to the data offset ("L253" in new archives)
//	           payloads
package format
