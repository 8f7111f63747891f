package big

import (
	bigcore "github.com/meigma/big/core"
)

// Re-export types from core for the public API.
type (
	// Archive is a .big archive. See core.Archive.
	Archive = bigcore.Archive

	// EntryInfo describes one entry of an archive.
	EntryInfo = bigcore.EntryInfo

	// Header is the fixed archive header.
	Header = bigcore.Header

	// Magic identifies the archive flavour.
	Magic = bigcore.Magic

	// Codec decodes compressed payloads.
	Codec = bigcore.Codec

	// Option configures an Archive.
	Option = bigcore.Option

	// ExtractOption configures Archive.Extract.
	ExtractOption = bigcore.ExtractOption

	// ExtractStats summarizes an extraction.
	ExtractStats = bigcore.ExtractStats

	// SearchOption configures Archive.Search.
	SearchOption = bigcore.SearchOption

	// SearchResult lists entries matched by Archive.Search.
	SearchResult = bigcore.SearchResult

	// GlobOption configures Archive.Glob.
	GlobOption = bigcore.GlobOption
)

// Supported magics.
var (
	MagicBIGF = bigcore.MagicBIGF
	MagicBIG4 = bigcore.MagicBIG4
)

// Constructors re-exported from core.
var (
	// New returns an empty in-memory archive.
	New = bigcore.New

	// FromBytes parses a serialized archive held in memory.
	FromBytes = bigcore.FromBytes

	// OpenFile opens a file-backed archive.
	OpenFile = bigcore.OpenFile

	// FromDirectory builds an in-memory archive from a directory tree.
	FromDirectory = bigcore.FromDirectory
)

// Options re-exported from core.
var (
	WithLogger           = bigcore.WithLogger
	WithStrictAdd        = bigcore.WithStrictAdd
	WithMagic            = bigcore.WithMagic
	WithMarker           = bigcore.WithMarker
	WithNameEncoding     = bigcore.WithNameEncoding
	WithCodec            = bigcore.WithCodec
	WithCompressionCheck = bigcore.WithCompressionCheck

	ExtractWithWorkers   = bigcore.ExtractWithWorkers
	ExtractWithOverwrite = bigcore.ExtractWithOverwrite

	SearchWithRegex    = bigcore.SearchWithRegex
	SearchWithEncoding = bigcore.SearchWithEncoding

	GlobWithRegex      = bigcore.GlobWithRegex
	GlobWithIgnoreCase = bigcore.GlobWithIgnoreCase
	GlobWithInvert     = bigcore.GlobWithInvert
)

// Name helpers re-exported from core.
var (
	NormalizeName = bigcore.NormalizeName
	LocalPath     = bigcore.LocalPath
)
