package status

import (
	"errors"
	"testing"
)

func TestClassify_RoundTrip(t *testing.T) {
	// Every u16 must classify to a Status whose raw bytes reproduce it exactly,
	// regardless of Kind. This is the totality guarantee: Classify never panics
	// or loses the original bytes, it only ever adds a label on top.
	for sw := 0; sw <= 0xFFFF; sw++ {
		sw1, sw2 := byte(sw>>8), byte(sw)
		s := Classify(sw1, sw2)
		if s.AsUint16() != uint16(sw) {
			t.Fatalf("Classify(%02X,%02X).AsUint16() = %04X, want %04X", sw1, sw2, s.AsUint16(), sw)
		}
	}
}

func TestClassify_Cases(t *testing.T) {
	tests := []struct {
		name     string
		sw1, sw2 byte
		wantKind Kind
		wantN    int
	}{
		{"success", 0x90, 0x00, KindSuccess, 0},
		{"bytes remaining", 0x61, 0x1A, KindBytesRemaining, 26},
		{"retry with le", 0x6C, 0x08, KindRetryWithLe, 8},
		{"triggering by card 62", 0x62, 0x02, KindTriggeringByCard, 2},
		{"triggering by card 64", 0x64, 0x80, KindTriggeringByCard, 128},
		{"counter", 0x63, 0xC3, KindCounter, 3},
		{"file deactivated", 0x62, 0x83, KindSelectedFileDeactivated, 0},
		{"authentication failed", 0x63, 0x00, KindAuthenticationFailed, 0},
		{"memory failure", 0x65, 0x81, KindMemoryFailure, 0},
		{"wrong length", 0x67, 0x00, KindWrongLength, 0},
		{"record not found", 0x6A, 0x83, KindRecordNotFound, 0},
		{"instruction not supported", 0x6D, 0x00, KindInstructionNotSupported, 0},
		{"class not supported", 0x6E, 0x00, KindClassNotSupported, 0},
		{"unknown", 0x6F, 0x42, KindUnknown, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.sw1, tt.sw2)
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.N != tt.wantN {
				t.Errorf("N = %d, want %d", got.N, tt.wantN)
			}
		})
	}
}

func TestStatus_IsSuccess(t *testing.T) {
	if !Classify(0x90, 0x00).IsSuccess() {
		t.Error("9000 should be success")
	}
	if !Classify(0x61, 0x05).IsSuccess() {
		t.Error("61XX should be success")
	}
	if Classify(0x6A, 0x83).IsSuccess() {
		t.Error("6A83 should not be success")
	}
}

func TestStatusError(t *testing.T) {
	err := error(StatusError{Status: Classify(0x6A, 0x82)})

	var statusErr StatusError
	if !errors.As(err, &statusErr) {
		t.Fatal("errors.As failed to recover a StatusError")
	}
	if statusErr.Status.Kind != KindFileNotFound {
		t.Errorf("Kind = %v, want KindFileNotFound", statusErr.Status.Kind)
	}
	if !errors.Is(err, StatusError{Status: Classify(0x6A, 0x82)}) {
		t.Error("errors.Is did not match an equal StatusError")
	}
	if errors.Is(err, StatusError{Status: Classify(0x6A, 0x83)}) {
		t.Error("errors.Is matched a different StatusError")
	}
}
