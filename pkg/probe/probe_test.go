package probe

import (
	"testing"

	"github.com/gregLibert/smart-card/pkg/atr"
)

func TestIsFeliCa_NoHistoricalBytes(t *testing.T) {
	if isFeliCa(atr.ATR{}) {
		t.Error("isFeliCa() = true, want false for an ATR with no historical bytes")
	}
}

func TestIsFeliCa_PasmoCompactTLV(t *testing.T) {
	// Mirrors the PASMO FeliCa fixture in pkg/atr's own tests.
	hb := atr.HistoricalBytes{
		Kind: atr.HistoricalBytesCompactTLVKind,
		CompactTLV: &atr.CompactTLV{
			InitialAccess: &atr.InitialAccess{Standard: atr.StandardFeliCa},
		},
	}
	got := atr.ATR{HistoricalBytes: &hb}
	if !isFeliCa(got) {
		t.Error("isFeliCa() = false, want true for a FeliCa Initial-Access entry")
	}
}

func TestIsFeliCa_ISO14443(t *testing.T) {
	hb := atr.HistoricalBytes{
		Kind: atr.HistoricalBytesCompactTLVKind,
		CompactTLV: &atr.CompactTLV{
			InitialAccess: &atr.InitialAccess{Standard: atr.StandardISO14443A3},
		},
	}
	got := atr.ATR{HistoricalBytes: &hb}
	if isFeliCa(got) {
		t.Error("isFeliCa() = true, want false for an ISO 14443 Initial-Access entry")
	}
}
