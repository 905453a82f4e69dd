package iso7816

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/gregLibert/smart-card/pkg/apdu"
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		panic(err)
	}
	return b
}

func TestSelectByAID(t *testing.T) {
	cla, err := apdu.NewClass(0x00)
	if err != nil {
		t.Fatalf("NewClass: %v", err)
	}
	cmd, err := SelectByAID(cla, mustHex("A0 00 00 00 03 10 10"))
	if err != nil {
		t.Fatalf("SelectByAID: %v", err)
	}
	if cmd.Instruction.Raw != byte(apdu.INS_SELECT) {
		t.Errorf("INS = %02X, want SELECT", cmd.Instruction.Raw)
	}
	if cmd.P1 != byte(SelectByDFName) {
		t.Errorf("P1 = %02X, want SelectByDFName", cmd.P1)
	}
	if cmd.Ne != 0 {
		t.Errorf("Ne = %d, want 0 (Case 3: data is being sent)", cmd.Ne)
	}

	raw, err := cmd.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if string(raw) != string(mustHex("00 A4 04 00 07 A0 00 00 00 03 10 10")) {
		t.Errorf("raw = %X", raw)
	}
}

func TestSelectMF(t *testing.T) {
	cla, _ := apdu.NewClass(0x00)
	cmd, err := SelectMF(cla)
	if err != nil {
		t.Fatalf("SelectMF: %v", err)
	}
	if cmd.P1 != byte(SelectByFileID) {
		t.Errorf("P1 = %02X, want SelectByFileID", cmd.P1)
	}
	if cmd.Ne != apdu.MaxShortLe {
		t.Errorf("Ne = %d, want MaxShortLe (Case 2: no data, expect FCI)", cmd.Ne)
	}
}
