package big

import (
	"fmt"
	"os"

	bigcore "github.com/meigma/big/core"
)

// LargeThreshold is the file size at which ModeAuto opens an archive
// file-backed instead of reading it into memory.
const LargeThreshold = 64 << 20

// Mode selects how Open loads an archive.
type Mode int

const (
	// ModeAuto opens files of at least LargeThreshold bytes backed and
	// smaller ones in memory.
	ModeAuto Mode = iota
	// ModeMemory reads the whole file into memory.
	ModeMemory
	// ModeBacked parses only the header and index and reads payloads from
	// the file on demand.
	ModeBacked
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeMemory:
		return "memory"
	case ModeBacked:
		return "backed"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Open loads the archive at path using mode.
func Open(path string, mode Mode, opts ...Option) (*Archive, error) {
	if mode == ModeAuto {
		st, err := os.Stat(path)
		if err != nil {
			return nil, &IOError{Op: "open", Path: path, Err: err}
		}
		mode = ModeMemory
		if st.Size() >= LargeThreshold {
			mode = ModeBacked
		}
	}

	switch mode {
	case ModeBacked:
		return bigcore.OpenFile(path, opts...)
	case ModeMemory:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &IOError{Op: "open", Path: path, Err: err}
		}
		return bigcore.FromBytes(data, opts...)
	default:
		return nil, fmt.Errorf("big: unknown open mode %v", mode)
	}
}
