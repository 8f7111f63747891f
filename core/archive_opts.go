package big

import (
	"bytes"
	"log/slog"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/meigma/big/core/internal/bigtype"
	"github.com/meigma/big/core/internal/format"
)

// Magic identifies the archive flavour ("BIGF" or "BIG4").
type Magic = format.Magic

// Supported magics.
var (
	MagicBIGF = format.MagicBIGF
	MagicBIG4 = format.MagicBIG4
)

// Codec decodes compressed entry payloads. See WithCodec.
type Codec = bigtype.Codec

// config holds archive configuration.
type config struct {
	logger           *slog.Logger
	strictAdd        bool
	magic            Magic
	marker           []byte
	nameEncoding     encoding.Encoding
	codecs           []Codec
	compressionCheck bool
}

func defaultConfig() config {
	return config{
		magic:            format.MagicBIGF,
		marker:           format.DefaultMarker,
		nameEncoding:     charmap.ISO8859_1,
		compressionCheck: true,
	}
}

// Option configures an Archive.
type Option func(*config)

// WithLogger sets the logger for archive operations.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithStrictAdd makes AddFile fail with ErrDuplicate when the name already
// exists. By default AddFile replaces the existing entry.
func WithStrictAdd(strict bool) Option {
	return func(c *config) {
		c.strictAdd = strict
	}
}

// WithMagic sets the magic written by archives that were not parsed from
// existing bytes. Parsed archives keep their own magic. Defaults to BIGF.
func WithMagic(m Magic) Option {
	return func(c *config) {
		c.magic = m
	}
}

// WithMarker sets the bytes written between the index and the first payload
// by archives that were not parsed from existing bytes. Defaults to "L253".
func WithMarker(marker []byte) Option {
	return func(c *config) {
		c.marker = bytes.Clone(marker)
	}
}

// WithNameEncoding sets the encoding of names stored in the index.
// Defaults to ISO-8859-1.
func WithNameEncoding(enc encoding.Encoding) Option {
	return func(c *config) {
		if enc != nil {
			c.nameEncoding = enc
		}
	}
}

// WithCodec registers a codec used to decode payloads it detects.
// Codecs are tried in registration order.
func WithCodec(codec Codec) Option {
	return func(c *config) {
		c.codecs = append(c.codecs, codec)
	}
}

// WithCompressionCheck controls whether reading a payload that carries a
// RefPack header, with no codec able to decode it, fails with ErrCompressed.
// Enabled by default.
//
// Detection is a header heuristic, so an uncompressed payload that happens
// to start with a plausible RefPack header is reported as compressed.
// Disable the check to read such payloads as stored.
func WithCompressionCheck(enabled bool) Option {
	return func(c *config) {
		c.compressionCheck = enabled
	}
}
