package bigtype

// Codec decodes entry payloads that are stored compressed.
//
// Detect is called with the raw payload and should only inspect its first
// bytes. Decode is called when Detect returned true.
type Codec interface {
	Name() string
	Detect(payload []byte) bool
	Decode(payload []byte) ([]byte, error)
}

const (
	refPackMagic     = 0xFB
	refPackLongSizes = 0x80 // sizes are 4 bytes instead of 3
	refPackHasCSize  = 0x01 // a compressed size field precedes the decompressed size
	// refPackMaxRatio bounds how many output bytes one input byte can yield:
	// the longest copy command emits 1028 bytes from 4 command bytes.
	refPackMaxRatio = 1028
)

// IsRefPack reports whether payload starts with a plausible RefPack header,
// the compression used by the games that ship .big archives.
//
// Beyond the two-byte signature the header must fit, declare a non-zero
// decompressed size, and that size must be reachable from the remaining
// bytes. Plain data can still pass these checks; WithCompressionCheck(false)
// turns detection off for such archives.
func IsRefPack(payload []byte) bool {
	if len(payload) < 2 || payload[1] != refPackMagic {
		return false
	}
	flags := payload[0]
	if flags&^(refPackLongSizes|refPackHasCSize) != 0x10 {
		return false
	}

	width := 3
	if flags&refPackLongSizes != 0 {
		width = 4
	}
	pos := 2
	if flags&refPackHasCSize != 0 {
		pos += width
	}
	headerLen := pos + width
	if len(payload) <= headerLen {
		return false
	}

	var size uint64
	for _, b := range payload[pos:headerLen] {
		size = size<<8 | uint64(b)
	}
	if size == 0 {
		return false
	}
	return size <= uint64(len(payload)-headerLen)*refPackMaxRatio
}
