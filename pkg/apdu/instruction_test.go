package apdu

import "testing"

func TestNewInstruction(t *testing.T) {
	ins, err := NewInstruction(byte(INS_SELECT))
	if err != nil {
		t.Fatalf("NewInstruction(SELECT) error: %v", err)
	}
	if ins.Raw != 0xA4 || ins.IsBERTLV {
		t.Errorf("ins = %+v, want Raw=0xA4, IsBERTLV=false", ins)
	}

	ins, err = NewInstruction(byte(INS_GET_DATA) | 0x01)
	if err != nil {
		t.Fatalf("NewInstruction(0xCB) error: %v", err)
	}
	if !ins.IsBERTLV {
		t.Error("GET DATA (0xCB, odd) should set IsBERTLV")
	}
}

func TestNewInstruction_ReservedRange(t *testing.T) {
	for _, ins := range []byte{0x60, 0x6F, 0x90, 0x9F} {
		if _, err := NewInstruction(ins); err == nil {
			t.Errorf("NewInstruction(%#02x) expected error, got none", ins)
		}
	}
}

func TestNewInstruction_PCSCEscape(t *testing.T) {
	// INS 0x00 is used by the PCSC pseudo-APDU escape; it must decode.
	ins, err := NewInstruction(0x00)
	if err != nil {
		t.Fatalf("NewInstruction(0x00) error: %v", err)
	}
	if ins.IsBERTLV {
		t.Error("0x00 is even, IsBERTLV should be false")
	}
}

func TestInstruction_Verbose(t *testing.T) {
	tests := []struct {
		ins  byte
		want string
	}{
		{byte(INS_SELECT), "SELECT"},
		{byte(INS_READ_RECORD), "READ RECORD"},
		{byte(INS_GET_RESPONSE), "GET RESPONSE"},
		{0x00, "0x00"},
	}
	for _, tt := range tests {
		ins, err := NewInstruction(tt.ins)
		if err != nil {
			t.Fatalf("NewInstruction(%#02x) error: %v", tt.ins, err)
		}
		if got := ins.Verbose(); got != tt.want {
			t.Errorf("Verbose() = %q, want %q", got, tt.want)
		}
	}
}
