// Package atr decodes the Answer-to-Reset blob a card emits on power-up: the
// electrical convention byte, the interface-byte groups describing protocol
// negotiation, and the Historical Bytes (themselves either a status block, a
// Compact-TLV structure, or an opaque blob).
//
// This is covered by ISO 7816-3 and, for contact payment cards, the EMV L1
// Contact Interface Specification §8. See https://smartcard-atr.apdu.fr/ for a
// handy online parser to check results against.
package atr

import (
	"errors"
	"fmt"
)

// ErrTX4Requested is returned when TD3 asks for a fourth interface-byte group,
// which no known protocol uses and this parser refuses to follow.
var ErrTX4Requested = errors.New("atr: TD3 requests a fourth interface group")

// ErrTruncated is returned when the input ends before a mandatory field.
var ErrTruncated = errors.New("atr: truncated input")

// TS is the initial character, identifying the electrical transmission convention.
type TS byte

const (
	// TSDirect is the Direct Convention (1 is high).
	TSDirect TS = 0x3B
	// TSInverse is the Inverse Convention (1 is low); deprecated by EMV, rare.
	TSInverse TS = 0x3F
)

// Verbose describes ts for humans.
func (ts TS) Verbose() string {
	switch ts {
	case TSDirect:
		return "Direct Convention"
	case TSInverse:
		return "Inverse Convention"
	default:
		return fmt.Sprintf("Invalid(0x%02X)", byte(ts))
	}
}

// Valid reports whether ts is one of the two defined conventions.
func (ts TS) Valid() bool {
	return ts == TSDirect || ts == TSInverse
}

// T0 is the format byte: how many historical bytes follow, and which of the
// first interface-byte group's sub-bytes are present.
type T0 struct {
	// K is the number of historical bytes (0..=15).
	K byte
	// TX1Mask is a 4-bit mask: bit0=TA1, bit1=TB1, bit2=TC1, bit3=TD1 present.
	TX1Mask byte
}

func parseT0(v byte) T0 {
	return T0{K: v & 0x0F, TX1Mask: (v & 0xF0) >> 4}
}

// Protocol is a transmission protocol indicator from a TDn byte.
type Protocol byte

const (
	ProtocolT0 Protocol = 0
	ProtocolT1 Protocol = 1
)

// Verbose describes p for humans.
func (p Protocol) Verbose() string {
	switch p {
	case ProtocolT0:
		return "T=0"
	case ProtocolT1:
		return "T=1"
	default:
		return fmt.Sprintf("Unknown(%d)", byte(p))
	}
}

// TDn is an interface byte carrying a protocol indicator and the mask of which
// sub-bytes of the next group are present.
type TDn struct {
	Protocol Protocol
	// NextMask is a 4-bit mask for the next group's TA/TB/TC/TD presence.
	NextMask byte
}

func parseTDn(v byte) TDn {
	return TDn{Protocol: Protocol(v & 0x0F), NextMask: (v & 0xF0) >> 4}
}

// TXn is one interface-byte group: up to three hardware-timing bytes and an
// optional protocol/next-group descriptor.
type TXn struct {
	TA *byte
	TB *byte
	TC *byte
	TD *TDn
}

func parseTXn(data []byte, mask byte) (rest []byte, txn TXn, err error) {
	next := func() (byte, error) {
		if len(data) == 0 {
			return 0, ErrTruncated
		}
		v := data[0]
		data = data[1:]
		return v, nil
	}
	if mask&(1<<0) != 0 {
		v, err := next()
		if err != nil {
			return nil, TXn{}, err
		}
		txn.TA = &v
	}
	if mask&(1<<1) != 0 {
		v, err := next()
		if err != nil {
			return nil, TXn{}, err
		}
		txn.TB = &v
	}
	if mask&(1<<2) != 0 {
		v, err := next()
		if err != nil {
			return nil, TXn{}, err
		}
		txn.TC = &v
	}
	if mask&(1<<3) != 0 {
		v, err := next()
		if err != nil {
			return nil, TXn{}, err
		}
		td := parseTDn(v)
		txn.TD = &td
	}
	return data, txn, nil
}

func (t TXn) nextMask() byte {
	if t.TD == nil {
		return 0
	}
	return t.TD.NextMask
}

// HistoricalBytesKind distinguishes the three possible interpretations of the
// Historical Bytes blob.
type HistoricalBytesKind int

const (
	HistoricalBytesUnknown HistoricalBytesKind = iota
	HistoricalBytesStatusKind
	HistoricalBytesCompactTLVKind
)

// HistoricalBytes is the parsed form of the K historical bytes, dispatched by
// their first byte: 0x10 selects a status block, 0x80 selects Compact-TLV,
// anything else is kept opaque.
type HistoricalBytes struct {
	Kind HistoricalBytesKind
	Raw  []byte

	// Status is populated when Kind == HistoricalBytesStatusKind.
	Status *StatusBlock
	// CompactTLV is populated when Kind == HistoricalBytesCompactTLVKind.
	CompactTLV *CompactTLV

	// UnknownTag is the dispatch byte when Kind == HistoricalBytesUnknown.
	UnknownTag byte
}

// StatusBlock is a 1-, 2-, or 3-byte card-status indication: an optional raw
// status byte and/or an optional SW1SW2 pair.
type StatusBlock struct {
	Status *byte
	SW1SW2 *uint16
}

func parseStatusBlock(data []byte) (*StatusBlock, bool) {
	switch len(data) {
	case 1:
		s := data[0]
		return &StatusBlock{Status: &s}, true
	case 2:
		sw := uint16(data[0])<<8 | uint16(data[1])
		return &StatusBlock{SW1SW2: &sw}, true
	case 3:
		s := data[0]
		sw := uint16(data[1])<<8 | uint16(data[2])
		return &StatusBlock{Status: &s, SW1SW2: &sw}, true
	default:
		return nil, false
	}
}

// CompactTLV is the Compact-TLV structure carried inside the Historical Bytes:
// a distinct, nibble-based encoding from BER-TLV (see §4.1/§4.2 in the design
// notes this package implements). Unknown tags are kept in Unknown for lossless
// round-tripping of the probe report.
type CompactTLV struct {
	Raw            []byte
	ServiceData    *byte
	InitialAccess  *InitialAccess
	PreIssuingData []byte
	Status         *StatusBlock
	Unknown        map[byte][]byte
}

// InitialAccess is the 0x4X Compact-TLV entry: a fixed 12-byte structure of
// provider RID, standard, card name, and reserved bytes. This isn't documented
// in ISO 7816 proper; it comes from PC/SC reader vendor documentation (see the
// ACR 1252-U reader manual), which is the closest thing to ground truth here.
type InitialAccess struct {
	RID      ProviderRID
	Standard Standard
	CardName CardName
	RFU      uint32
}

// ProviderRID identifies the registered application provider of the initial
// access bytes.
type ProviderRID struct {
	Known   bool
	Name    string
	RawBits []byte
}

var pcscWorkgroupRID = []byte{0xA0, 0x00, 0x00, 0x03, 0x06}

func parseProviderRID(raw []byte) ProviderRID {
	if string(raw) == string(pcscWorkgroupRID) {
		return ProviderRID{Known: true, Name: "PC/SC Workgroup", RawBits: raw}
	}
	return ProviderRID{RawBits: raw}
}

// Verbose describes the RID for humans.
func (p ProviderRID) Verbose() string {
	if p.Known {
		return p.Name
	}
	return fmt.Sprintf("Unknown(% X)", p.RawBits)
}

// Standard is the contactless standard in use, from the 0x4X Initial Access bytes.
type Standard byte

const (
	StandardISO14443A3 Standard = 0x03
	StandardFeliCa     Standard = 0x11
)

// Verbose describes s for humans.
func (s Standard) Verbose() string {
	switch s {
	case StandardISO14443A3:
		return "ISO 14443"
	case StandardFeliCa:
		return "FeliCa"
	default:
		return fmt.Sprintf("Unknown(0x%02X)", byte(s))
	}
}

// CardName identifies the specific chip, from the 0x4X Initial Access bytes.
type CardName uint16

const (
	CardNameMifareClassic1K    CardName = 0x0001
	CardNameMifareClassic4K    CardName = 0x0002
	CardNameMifareUltralight   CardName = 0x0003
	CardNameSRIX               CardName = 0x0007
	CardNameTopazJewel         CardName = 0x0030
	CardNameMifarePlusSL1_2K   CardName = 0x0036
	CardNameMifarePlusSL1_4K   CardName = 0x0037
	CardNameMifarePlusSL2_2K   CardName = 0x0038
	CardNameMifarePlusSL2_4K   CardName = 0x0039
	CardNameMifareUltralightC  CardName = 0x003A
	CardNameFeliCa             CardName = 0x003B
	CardNameMifareMini         CardName = 0x0026
	CardNameJCOP30             CardName = 0xFF28
)

// Verbose describes c for humans.
func (c CardName) Verbose() string {
	switch c {
	case CardNameMifareClassic1K:
		return "MIFARE Classic 1K"
	case CardNameMifareClassic4K:
		return "MIFARE Classic 4K"
	case CardNameMifareUltralight:
		return "MIFARE Ultralight"
	case CardNameMifareMini:
		return "MIFARE Mini"
	case CardNameMifareUltralightC:
		return "MIFARE Ultralight C"
	case CardNameMifarePlusSL1_2K:
		return "MIFARE Plus SL1 2K"
	case CardNameMifarePlusSL1_4K:
		return "MIFARE Plus SL1 4K"
	case CardNameMifarePlusSL2_2K:
		return "MIFARE Plus SL2 2K"
	case CardNameMifarePlusSL2_4K:
		return "MIFARE Plus SL2 4K"
	case CardNameTopazJewel:
		return "Topaz/Jewel"
	case CardNameFeliCa:
		return "FeliCa"
	case CardNameJCOP30:
		return "JCOP 30"
	case CardNameSRIX:
		return "SRIX"
	default:
		return fmt.Sprintf("Unknown(0x%04X)", uint16(c))
	}
}

func parseInitialAccess(data []byte) (InitialAccess, error) {
	if len(data) < 12 {
		return InitialAccess{}, ErrTruncated
	}
	rid := parseProviderRID(append([]byte(nil), data[0:5]...))
	standard := Standard(data[5])
	cardName := CardName(uint16(data[6])<<8 | uint16(data[7]))
	rfu := uint32(data[8])<<24 | uint32(data[9])<<16 | uint32(data[10])<<8 | uint32(data[11])
	return InitialAccess{RID: rid, Standard: standard, CardName: cardName, RFU: rfu}, nil
}

func parseCompactTLV(data []byte) CompactTLV {
	tlv := CompactTLV{Raw: append([]byte(nil), data...)}
	rest := data
	for len(rest) > 0 {
		tag := rest[0] & 0xF0
		length := int(rest[0] & 0x0F)
		rest = rest[1:]
		if length == 0xF {
			if len(rest) == 0 {
				break
			}
			length = int(rest[0])
			rest = rest[1:]
		}
		if len(rest) < length {
			break
		}
		value := rest[:length]
		rest = rest[length:]

		switch tag {
		case 0x30:
			if len(value) > 0 {
				v := value[0]
				tlv.ServiceData = &v
			}
		case 0x40:
			if ia, err := parseInitialAccess(value); err == nil {
				tlv.InitialAccess = &ia
			}
		case 0x60:
			tlv.PreIssuingData = append([]byte(nil), value...)
		case 0x80:
			tlv.Status, _ = parseStatusBlock(value)
		default:
			if tlv.Unknown == nil {
				tlv.Unknown = make(map[byte][]byte)
			}
			tlv.Unknown[tag] = append([]byte(nil), value...)
		}
	}
	return tlv
}

func parseHistoricalBytes(data []byte) HistoricalBytes {
	if len(data) == 0 {
		return HistoricalBytes{Kind: HistoricalBytesUnknown, Raw: data}
	}
	switch data[0] {
	case 0x10:
		if sb, ok := parseStatusBlock(data[1:]); ok {
			return HistoricalBytes{Kind: HistoricalBytesStatusKind, Raw: data, Status: sb}
		}
		return HistoricalBytes{Kind: HistoricalBytesUnknown, Raw: data, UnknownTag: data[0]}
	case 0x80:
		tlv := parseCompactTLV(data[1:])
		return HistoricalBytes{Kind: HistoricalBytesCompactTLVKind, Raw: data, CompactTLV: &tlv}
	default:
		return HistoricalBytes{Kind: HistoricalBytesUnknown, Raw: data, UnknownTag: data[0]}
	}
}

// ATR is the fully decoded Answer-to-Reset.
type ATR struct {
	TS  TS
	T0  T0
	TX1 TXn
	TX2 TXn
	TX3 TXn

	HistoricalBytes *HistoricalBytes

	TCK byte
}

// Parse decodes an ATR from its raw bytes.
func Parse(data []byte) (ATR, error) {
	if len(data) < 2 {
		return ATR{}, ErrTruncated
	}
	ts := TS(data[0])
	t0 := parseT0(data[1])
	rest := data[2:]

	var atr ATR
	atr.TS = ts
	atr.T0 = t0

	var err error
	rest, atr.TX1, err = parseTXn(rest, t0.TX1Mask)
	if err != nil {
		return ATR{}, err
	}
	rest, atr.TX2, err = parseTXn(rest, atr.TX1.nextMask())
	if err != nil {
		return ATR{}, err
	}
	rest, atr.TX3, err = parseTXn(rest, atr.TX2.nextMask())
	if err != nil {
		return ATR{}, err
	}
	if atr.TX3.nextMask() != 0 {
		return ATR{}, ErrTX4Requested
	}

	if t0.K > 0 {
		if len(rest) < int(t0.K) {
			return ATR{}, ErrTruncated
		}
		hb := parseHistoricalBytes(rest[:t0.K])
		atr.HistoricalBytes = &hb
		rest = rest[t0.K:]
	}

	if len(rest) == 0 {
		return ATR{}, ErrTruncated
	}
	atr.TCK = rest[0]

	return atr, nil
}
