package atr

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		panic(err)
	}
	return b
}

func byteP(v byte) *byte     { return &v }
func u16P(v uint16) *uint16  { return &v }

// Curve (UK, Gemalto) card, from the original reference dataset.
func TestParse_Curve(t *testing.T) {
	got, err := Parse(mustHex("3B 8E 80 01 80 31 80 66 B1 84 0C 01 6E 01 83 00 90 00 1C"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got.TS != TSDirect {
		t.Errorf("TS = %v, want TSDirect", got.TS)
	}
	if got.T0 != (T0{TX1Mask: 0b1000, K: 14}) {
		t.Errorf("T0 = %+v", got.T0)
	}
	if got.TX1.TA != nil || got.TX1.TB != nil || got.TX1.TC != nil {
		t.Errorf("TX1 should have no TA/TB/TC, got %+v", got.TX1)
	}
	if got.TX1.TD == nil || *got.TX1.TD != (TDn{Protocol: ProtocolT0, NextMask: 0b1000}) {
		t.Errorf("TX1.TD = %+v", got.TX1.TD)
	}
	if got.TX2.TD == nil || *got.TX2.TD != (TDn{Protocol: ProtocolT1, NextMask: 0}) {
		t.Errorf("TX2.TD = %+v", got.TX2.TD)
	}
	if got.TX3.TA != nil || got.TX3.TB != nil || got.TX3.TC != nil || got.TX3.TD != nil {
		t.Errorf("TX3 should be empty, got %+v", got.TX3)
	}

	if got.HistoricalBytes == nil || got.HistoricalBytes.Kind != HistoricalBytesCompactTLVKind {
		t.Fatalf("HistoricalBytes = %+v", got.HistoricalBytes)
	}
	tlv := got.HistoricalBytes.CompactTLV
	want := &CompactTLV{
		Raw:            mustHex("31 80 66 B1 84 0C 01 6E 01 83 00 90 00"),
		ServiceData:    byteP(0x80),
		PreIssuingData: mustHex("B1 84 0C 01 6E 01"),
		Status: &StatusBlock{
			Status: byteP(0x00),
			SW1SW2: u16P(0x9000),
		},
	}
	if diff := cmp.Diff(want, tlv); diff != "" {
		t.Errorf("CompactTLV mismatch (-want +got):\n%s", diff)
	}

	if got.TCK != 0x1C {
		t.Errorf("TCK = %02X, want 1C", got.TCK)
	}
}

// PASMO (FeliCa) card, from the original reference dataset.
func TestParse_PasmoFeliCa(t *testing.T) {
	got, err := Parse(mustHex("3B 8F 80 01 80 4F 0C A0 00 00 03 06 11 00 3B 00 00 00 00 42"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got.HistoricalBytes == nil || got.HistoricalBytes.Kind != HistoricalBytesCompactTLVKind {
		t.Fatalf("HistoricalBytes = %+v", got.HistoricalBytes)
	}
	ia := got.HistoricalBytes.CompactTLV.InitialAccess
	if ia == nil {
		t.Fatal("InitialAccess not parsed")
	}
	if !ia.RID.Known || ia.RID.Name != "PC/SC Workgroup" {
		t.Errorf("RID = %+v", ia.RID)
	}
	if ia.Standard != StandardFeliCa {
		t.Errorf("Standard = %v, want FeliCa", ia.Standard)
	}
	if ia.CardName != CardNameFeliCa {
		t.Errorf("CardName = %v, want FeliCa", ia.CardName)
	}
	if ia.RFU != 0 {
		t.Errorf("RFU = %08X, want 0", ia.RFU)
	}

	if got.TCK != 0x42 {
		t.Errorf("TCK = %02X, want 42", got.TCK)
	}
}

func TestParse_RejectsFourthGroup(t *testing.T) {
	// T0 requests only TD1; each TDn in turn requests only the next TDn, and
	// TD3's high nibble (next mask) is non-zero, which would request a TX4 group.
	_, err := Parse(mustHex("3B 80 81 81 81"))
	if !errors.Is(err, ErrTX4Requested) {
		t.Errorf("err = %v, want ErrTX4Requested", err)
	}
}

func TestParse_Truncated(t *testing.T) {
	_, err := Parse(mustHex("3B"))
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("err = %v, want ErrTruncated", err)
	}
}
