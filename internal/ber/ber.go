// Package ber implements the ISO 7816-6 / EMV Book 3 Annex B subset of BER-TLV:
// multi-byte tags, short and extended length forms, and a lazy record iterator.
//
// This is deliberately a separate, lower-level package from pkg/tlv: pkg/tlv maps a
// flat packet list onto Go structs via reflection, while this package exposes the
// tag/length primitives themselves, including the exact error discrimination
// (Truncated vs Indeterminate vs TooLarge) that callers like pkg/emv's PDOL decoder
// need when they want to walk a tag/length sequence without ever touching values.
package ber

import (
	"encoding/binary"
	"errors"
)

var (
	// ErrTruncated is returned when the input ends in the middle of a tag, length,
	// or value.
	ErrTruncated = errors.New("ber: truncated input")
	// ErrIndeterminate is returned for the BER "indeterminate length" encoding
	// (first length byte == 0x80), which this subset does not permit.
	ErrIndeterminate = errors.New("ber: indeterminate length not allowed")
	// ErrTooLarge is returned when a length field claims more than 8 extended
	// length bytes, or the decoded length does not fit a platform int.
	ErrTooLarge = errors.New("ber: length too large")
)

// TakeTag consumes a single BER-TLV tag from input, returning the remaining bytes
// and the raw tag bytes.
//
// A tag is one byte unless its low 5 bits are all set (0x1F), in which case
// subsequent bytes are consumed while their high bit is set, plus one final byte.
func TakeTag(input []byte) (rest []byte, tag []byte, err error) {
	if len(input) == 0 {
		return nil, nil, ErrTruncated
	}
	if input[0]&0x1F != 0x1F {
		return input[1:], input[:1], nil
	}
	for i := 1; i < len(input); i++ {
		if input[i]&0x80 != 0x80 {
			return input[i+1:], input[:i+1], nil
		}
	}
	return nil, nil, ErrTruncated
}

// TakeLen consumes a BER-TLV length field from input, returning the remaining
// bytes and the decoded length.
//
// If the first byte is <= 0x7F, it is the length directly (short form). If it is
// exactly 0x80, this is the "indeterminate length" encoding, rejected in this
// subset. Otherwise its low 7 bits give N, the count of following big-endian
// length bytes (1..=8); more than 8 is rejected as TooLarge.
func TakeLen(input []byte) (rest []byte, length int, err error) {
	if len(input) == 0 {
		return nil, 0, ErrTruncated
	}
	first := input[0]
	input = input[1:]
	if first <= 0x7F {
		return input, int(first), nil
	}
	if first == 0x80 {
		return nil, 0, ErrIndeterminate
	}
	n := int(first &^ 0x80)
	if n > 8 {
		return nil, 0, ErrTooLarge
	}
	if len(input) < n {
		return nil, 0, ErrTruncated
	}
	lenBytes, rest := input[:n], input[n:]
	v, ok := partUint64(lenBytes)
	if !ok {
		return nil, 0, ErrTooLarge
	}
	if v > uint64(int(^uint(0)>>1)) {
		return nil, 0, ErrTooLarge
	}
	return rest, int(v), nil
}

// partUint64 parses a big-endian integer from 0..8 bytes, zero-padded on the left.
func partUint64(raw []byte) (uint64, bool) {
	if len(raw) > 8 {
		return 0, false
	}
	var buf [8]byte
	copy(buf[8-len(raw):], raw)
	return binary.BigEndian.Uint64(buf[:]), true
}

// ParseNext consumes one (tag, value) pair: a tag, a length, then exactly that many
// value bytes.
func ParseNext(input []byte) (rest []byte, tag []byte, value []byte, err error) {
	rest, tag, err = TakeTag(input)
	if err != nil {
		return nil, nil, nil, err
	}
	rest, length, err := TakeLen(rest)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(rest) < length {
		return nil, nil, nil, ErrTruncated
	}
	return rest[length:], tag, rest[:length], nil
}

// IsConstructed reports whether tag identifies a constructed (nested TLV) field,
// i.e. bit 6 of its first byte is set. Primitive tags carry opaque values.
func IsConstructed(tag []byte) bool {
	return len(tag) > 0 && tag[0]&0x20 != 0
}

// TagInt returns the big-endian integer form of tag. ok is false if tag is longer
// than 4 bytes; the canonical identity of a tag is always its byte form, this is a
// convenience for matching against well-known tags.
func TagInt(tag []byte) (v uint32, ok bool) {
	if len(tag) == 0 || len(tag) > 4 {
		return 0, false
	}
	for _, b := range tag {
		v = v<<8 | uint32(b)
	}
	return v, true
}

// Append serializes (tag, value) onto dst and returns the extended slice. The tag
// is written verbatim; the length uses the shortest legal encoding.
func Append(dst []byte, tag []byte, value []byte) []byte {
	dst = append(dst, tag...)
	dst = appendLen(dst, len(value))
	return append(dst, value...)
}

func appendLen(dst []byte, length int) []byte {
	if length <= 0x7F {
		return append(dst, byte(length))
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(length))
	n := 8
	for n > 1 && buf[8-n] == 0 {
		n--
	}
	dst = append(dst, 0x80|byte(n))
	return append(dst, buf[8-n:]...)
}

// Iterator walks a sequence of (tag, value) pairs lazily, restartably, and stops
// cleanly at the end of the buffer. A partial trailing record surfaces as an error
// from Err() after Next() returns false.
type Iterator struct {
	input []byte
	err   error
}

// Iter returns an Iterator over input.
func Iter(input []byte) *Iterator {
	return &Iterator{input: input}
}

// Next advances the iterator, returning the next (tag, value) pair and whether one
// was available. Once Next returns false, call Err to distinguish clean end-of-input
// from a parse failure.
func (it *Iterator) Next() (tag []byte, value []byte, ok bool) {
	if it.err != nil || len(it.input) == 0 {
		return nil, nil, false
	}
	rest, tag, value, err := ParseNext(it.input)
	if err != nil {
		it.err = err
		return nil, nil, false
	}
	it.input = rest
	return tag, value, true
}

// Err returns the error that stopped iteration, or nil if iteration reached a
// clean end of input.
func (it *Iterator) Err() error {
	return it.err
}
