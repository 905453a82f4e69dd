package apdu

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		panic(err)
	}
	return b
}

func TestCommandAPDU_Bytes(t *testing.T) {
	tests := []struct {
		name string
		cmd  CommandAPDU
		want string
	}{
		{
			name: "case 1: no data, no response",
			cmd:  CommandAPDU{Class: Class{Raw: 0x00}, Instruction: Instruction{Raw: 0xA4}, P1: 0x04, P2: 0x00},
			want: "00 A4 04 00",
		},
		{
			name: "case 2 short: no data, expects response",
			cmd:  CommandAPDU{Class: Class{Raw: 0x00}, Instruction: Instruction{Raw: 0xB2}, P1: 0x01, P2: 0x0C, Ne: 256},
			want: "00 B2 01 0C 00",
		},
		{
			name: "case 3 short: data, no response",
			cmd:  CommandAPDU{Class: Class{Raw: 0x00}, Instruction: Instruction{Raw: 0xA4}, P1: 0x04, P2: 0x00, Data: mustHex("A0 00 00 00 03 10 10")},
			want: "00 A4 04 00 07 A0 00 00 00 03 10 10",
		},
		{
			name: "case 4 short: data and response",
			cmd:  CommandAPDU{Class: Class{Raw: 0x00}, Instruction: Instruction{Raw: 0xA4}, P1: 0x04, P2: 0x00, Data: mustHex("A0 00 00 00 03 10 10"), Ne: 256},
			want: "00 A4 04 00 07 A0 00 00 00 03 10 10 00",
		},
		{
			name: "case 2 extended: Ne beyond short range",
			cmd:  CommandAPDU{Class: Class{Raw: 0x00}, Instruction: Instruction{Raw: 0xCA}, P1: 0x00, P2: 0x00, Ne: 512},
			want: "00 CA 00 00 00 02 00",
		},
		{
			name: "case 3 extended: Lc beyond short range",
			cmd:  CommandAPDU{Class: Class{Raw: 0x00}, Instruction: Instruction{Raw: 0xD6}, P1: 0x00, P2: 0x00, Data: make([]byte, 256)},
			want: "00 D6 00 00 00 01 00" + strings.Repeat(" 00", 256),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cmd.Bytes()
			if err != nil {
				t.Fatalf("Bytes: %v", err)
			}
			want := mustHex(tt.want)
			if string(got) != string(want) {
				t.Errorf("got  %X\nwant %X", got, want)
			}
		})
	}
}

func TestCommandAPDU_Bytes_TooLong(t *testing.T) {
	cmd := CommandAPDU{Class: Class{Raw: 0x00}, Instruction: Instruction{Raw: 0xD6}, Data: make([]byte, MaxExtendedLc+1)}
	_, err := cmd.Bytes()
	if !errors.Is(err, ErrAPDUBodyTooLong) {
		t.Fatalf("Bytes: err = %v, want ErrAPDUBodyTooLong", err)
	}
}

func TestParseResponseAPDU(t *testing.T) {
	got, err := ParseResponseAPDU(mustHex("6F 108407A0000000031010 90 00"))
	if err != nil {
		t.Fatalf("ParseResponseAPDU: %v", err)
	}
	if got.SW() != 0x9000 {
		t.Errorf("SW = %04X, want 9000", got.SW())
	}
	if len(got.Data) == 0 {
		t.Error("expected non-empty data")
	}
}

func TestParseResponseAPDU_TooShort(t *testing.T) {
	if _, err := ParseResponseAPDU(mustHex("90")); err == nil {
		t.Fatal("expected error for single-byte response")
	}
}
