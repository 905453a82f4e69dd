package apdu

import "fmt"

// InsCode is a well-known ISO/IEC 7816-4 instruction byte.
type InsCode byte

const (
	INS_SELECT                InsCode = 0xA4
	INS_READ_BINARY           InsCode = 0xB0
	INS_READ_RECORD           InsCode = 0xB2
	INS_GET_RESPONSE          InsCode = 0xC0
	INS_GET_DATA              InsCode = 0xCA
	INS_VERIFY                InsCode = 0x20
	INS_GET_CHALLENGE         InsCode = 0x84
	INS_EXTERNAL_AUTHENTICATE InsCode = 0x82
	INS_INTERNAL_AUTHENTICATE InsCode = 0x88
	INS_GENERATE_AC           InsCode = 0xAE
)

// Instruction represents the parsed ISO 7816-4 Instruction byte (INS).
type Instruction struct {
	Raw      byte
	IsBERTLV bool // Set when the low bit requests a BER-TLV encoded response/command (odd INS).
}

// NewInstruction decodes a raw INS byte. The values 0x6X and 0x9X are reserved
// (they would be mistaken for a status byte on the wire) and rejected.
func NewInstruction(ins byte) (Instruction, error) {
	if ins&0xF0 == 0x60 || ins&0xF0 == 0x90 {
		return Instruction{}, fmt.Errorf("invalid INS 0x%02X: reserved range (would collide with SW1)", ins)
	}
	return Instruction{Raw: ins, IsBERTLV: ins&0x01 == 0x01}, nil
}

// Verbose returns a human-readable name for well-known instruction codes, or
// the raw hex value for anything else.
func (i Instruction) Verbose() string {
	switch InsCode(i.Raw) {
	case INS_SELECT:
		return "SELECT"
	case INS_READ_BINARY:
		return "READ BINARY"
	case INS_READ_RECORD:
		return "READ RECORD"
	case INS_GET_RESPONSE:
		return "GET RESPONSE"
	case INS_GET_DATA:
		return "GET DATA"
	case INS_VERIFY:
		return "VERIFY"
	case INS_GET_CHALLENGE:
		return "GET CHALLENGE"
	case INS_EXTERNAL_AUTHENTICATE:
		return "EXTERNAL AUTHENTICATE"
	case INS_INTERNAL_AUTHENTICATE:
		return "INTERNAL AUTHENTICATE"
	case INS_GENERATE_AC:
		return "GENERATE APPLICATION CRYPTOGRAM"
	default:
		return fmt.Sprintf("0x%02X", i.Raw)
	}
}
