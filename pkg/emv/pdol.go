package emv

import (
	"fmt"

	"github.com/gregLibert/smart-card/internal/ber"
)

// PDOLEntry is one (tag, length) pair from a Processing Options Data Object
// List: the terminal must supply length bytes of data for tag when building
// the GET PROCESSING OPTIONS command, but the PDOL itself carries no values.
type PDOLEntry struct {
	Tag    []byte
	Length int
}

// DecodePDOL walks a PDOL (Tag '9F38') as a flat list of BER tags each
// immediately followed by a BER length, with no value bytes in between —
// the defining difference from ordinary BER-TLV, and the reason this uses
// internal/ber's tag/length primitives directly instead of the struct-tag
// reflection layer in pkg/tlv, which always expects a value to consume.
func DecodePDOL(raw []byte) ([]PDOLEntry, error) {
	var entries []PDOLEntry
	rest := raw
	for len(rest) > 0 {
		var tag []byte
		var length int
		var err error

		rest, tag, err = ber.TakeTag(rest)
		if err != nil {
			return entries, fmt.Errorf("emv: PDOL tag: %w", err)
		}
		rest, length, err = ber.TakeLen(rest)
		if err != nil {
			return entries, fmt.Errorf("emv: PDOL length: %w", err)
		}
		entries = append(entries, PDOLEntry{Tag: tag, Length: length})
	}
	return entries, nil
}
