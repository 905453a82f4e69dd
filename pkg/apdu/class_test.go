package apdu

import "testing"

func TestNewClass_FirstInterindustry(t *testing.T) {
	c, err := NewClass(0x00)
	if err != nil {
		t.Fatalf("NewClass(0x00) error: %v", err)
	}
	if c.IsProprietary || c.IsChained || c.SecureMessaging != SMNone || c.Channel != 0 {
		t.Errorf("c = %+v, want zero-value First Interindustry class", c)
	}

	c, err = NewClass(0x18) // chaining + SM header-no-proc + channel 0
	if err != nil {
		t.Fatalf("NewClass(0x18) error: %v", err)
	}
	if !c.IsChained || c.SecureMessaging != SMHeaderNoProc {
		t.Errorf("c = %+v, want chained + SMHeaderNoProc", c)
	}
}

func TestNewClass_FurtherInterindustry(t *testing.T) {
	c, err := NewClass(0x41) // 0100_0001: further, channel 1+4=5
	if err != nil {
		t.Fatalf("NewClass(0x41) error: %v", err)
	}
	if c.Channel != 5 {
		t.Errorf("Channel = %d, want 5", c.Channel)
	}
}

func TestNewClass_Proprietary(t *testing.T) {
	c, err := NewClass(0x80)
	if err != nil {
		t.Fatalf("NewClass(0x80) error: %v", err)
	}
	if !c.IsProprietary || c.Raw != 0x80 {
		t.Errorf("c = %+v, want IsProprietary with Raw 0x80", c)
	}
}

func TestNewClass_PCSCEscape(t *testing.T) {
	// CLA 0xFF is ISO/IEC 7816-4 reserved, but PCSC readers use it as a
	// pseudo-APDU escape (contactless GET DATA, FeliCa tunneling); it must
	// decode, not error.
	c, err := NewClass(0xFF)
	if err != nil {
		t.Fatalf("NewClass(0xFF) error: %v", err)
	}
	if !c.IsProprietary || c.Raw != 0xFF {
		t.Errorf("c = %+v, want IsProprietary with Raw 0xFF", c)
	}
}

func TestNewInterindustryClass_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		isChained bool
		sm        SecureMessaging
		channel   uint8
	}{
		{"first, no SM, ch0", false, SMNone, 0},
		{"first, header auth, ch3, chained", true, SMHeaderAuth, 3},
		{"further, no SM, ch4", false, SMNone, 4},
		{"further, header no-proc, ch19, chained", true, SMHeaderNoProc, 19},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewInterindustryClass(tt.isChained, tt.sm, tt.channel)
			if err != nil {
				t.Fatalf("NewInterindustryClass() error: %v", err)
			}

			decoded, err := NewClass(c.Raw)
			if err != nil {
				t.Fatalf("NewClass(%#02x) error: %v", c.Raw, err)
			}
			if decoded.IsChained != tt.isChained || decoded.SecureMessaging != tt.sm || decoded.Channel != tt.channel {
				t.Errorf("decoded = %+v, want chained=%v sm=%v channel=%d", decoded, tt.isChained, tt.sm, tt.channel)
			}
		})
	}
}

func TestNewInterindustryClass_ChannelOutOfRange(t *testing.T) {
	if _, err := NewInterindustryClass(false, SMNone, 20); err == nil {
		t.Error("expected error for channel 20")
	}
}

func TestNewInterindustryClass_UnsupportedSMForFurtherChannel(t *testing.T) {
	if _, err := NewInterindustryClass(false, SMHeaderAuth, 5); err == nil {
		t.Error("expected error for SMHeaderAuth on a further-interindustry channel")
	}
}
