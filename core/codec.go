package big

import (
	"fmt"

	"github.com/meigma/big/core/internal/bigtype"
)

// decode runs raw through the first registered codec that detects it.
// Without a matching codec, RefPack payloads fail with ErrCompressed unless
// the compression check is disabled, in which case raw is returned as is.
func (a *Archive) decode(name string, raw []byte) ([]byte, error) {
	for _, c := range a.cfg.codecs {
		if !c.Detect(raw) {
			continue
		}
		out, err := c.Decode(raw)
		if err != nil {
			return nil, &bigtype.FormatError{
				Offset: -1,
				Reason: fmt.Sprintf("%s: decode %s", name, c.Name()),
				Err:    err,
			}
		}
		return out, nil
	}
	if a.cfg.compressionCheck && bigtype.IsRefPack(raw) {
		return nil, &bigtype.FormatError{
			Offset: -1,
			Reason: name + ": payload is RefPack compressed",
			Err:    bigtype.ErrCompressed,
		}
	}
	return raw, nil
}

// IsCompressed reports whether the stored payload of name is RefPack
// compressed.
func (a *Archive) IsCompressed(name string) (bool, error) {
	e, ok := a.lookup[name]
	if !ok {
		return false, notFound("stat", name)
	}
	raw, err := a.readPayload(e)
	if err != nil {
		return false, err
	}
	return bigtype.IsRefPack(raw), nil
}
