package ber

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

func TestTakeTag(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantTag []byte
		wantLen int // len(rest)
	}{
		{"single byte tag", mustHex("4F 02 03 04"), mustHex("4F"), 3},
		{"two byte tag", mustHex("5F 50 02 03 04"), mustHex("5F 50"), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest, tag, err := TakeTag(tt.input)
			if err != nil {
				t.Fatalf("TakeTag: %v", err)
			}
			if string(tag) != string(tt.wantTag) {
				t.Errorf("tag = %X, want %X", tag, tt.wantTag)
			}
			if len(rest) != tt.wantLen {
				t.Errorf("len(rest) = %d, want %d", len(rest), tt.wantLen)
			}
		})
	}
}

func TestTakeTag_Truncated(t *testing.T) {
	if _, _, err := TakeTag(nil); !errors.Is(err, ErrTruncated) {
		t.Errorf("empty input: err = %v, want ErrTruncated", err)
	}
	if _, _, err := TakeTag(mustHex("5F")); !errors.Is(err, ErrTruncated) {
		t.Errorf("mid-tag truncation: err = %v, want ErrTruncated", err)
	}
}

func TestTakeLen(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		want   int
		wantRL int
	}{
		{"short form", mustHex("02"), 2, 0},
		{"extended 1 byte", mustHex("81 FF"), 255, 0},
		{"extended 2 bytes, 256", mustHex("82 01 00"), 256, 0},
		{"extended 3 bytes, max 24 bit", mustHex("83 FF FF FF"), 0xFFFFFF, 0},
		{"extended 4 bytes, max 32 bit", mustHex("84 FF FF FF FF"), 0xFFFFFFFF, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest, length, err := TakeLen(tt.input)
			if err != nil {
				t.Fatalf("TakeLen: %v", err)
			}
			if length != tt.want {
				t.Errorf("length = %d, want %d", length, tt.want)
			}
			if len(rest) != tt.wantRL {
				t.Errorf("len(rest) = %d, want %d", len(rest), tt.wantRL)
			}
		})
	}
}

func TestTakeLen_Indeterminate(t *testing.T) {
	_, _, err := TakeLen(mustHex("80"))
	if !errors.Is(err, ErrIndeterminate) {
		t.Errorf("err = %v, want ErrIndeterminate", err)
	}
}

func TestTakeLen_TooLarge(t *testing.T) {
	_, _, err := TakeLen(append([]byte{0x89}, make([]byte, 9)...))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}
}

func TestParseNext(t *testing.T) {
	input := mustHex("4F 02 03 04 5F 50 81 03 04 05 06")

	rest, tag, value, err := ParseNext(input)
	if err != nil {
		t.Fatalf("ParseNext: %v", err)
	}
	if string(tag) != string(mustHex("4F")) || string(value) != string(mustHex("03 04")) {
		t.Errorf("got tag=%X value=%X", tag, value)
	}

	rest, tag, value, err = ParseNext(rest)
	if err != nil {
		t.Fatalf("ParseNext second record: %v", err)
	}
	if string(tag) != string(mustHex("5F 50")) || string(value) != string(mustHex("04 05 06")) {
		t.Errorf("got tag=%X value=%X", tag, value)
	}
	if len(rest) != 0 {
		t.Errorf("expected no remaining bytes, got %X", rest)
	}
}

func TestAppend_RoundTrip(t *testing.T) {
	lengths := []int{0, 1, 127, 128, 255, 256, 0xFFFF, 0xFF_FFFF, 0xFFFF_FFFF}
	tag := mustHex("5F 50")
	for _, l := range lengths {
		value := make([]byte, l)
		for i := range value {
			value[i] = byte(i)
		}
		buf := Append(nil, tag, value)
		rest, gotTag, gotValue, err := ParseNext(buf)
		if err != nil {
			t.Fatalf("length %d: ParseNext: %v", l, err)
		}
		if len(rest) != 0 {
			t.Errorf("length %d: leftover bytes %X", l, rest)
		}
		if string(gotTag) != string(tag) {
			t.Errorf("length %d: tag = %X, want %X", l, gotTag, tag)
		}
		if len(gotValue) != l {
			t.Errorf("length %d: got value of length %d", l, len(gotValue))
		}
	}
}

func TestIsConstructed(t *testing.T) {
	if IsConstructed(mustHex("84")) {
		t.Error("0x84 (DF Name) should be primitive")
	}
	if !IsConstructed(mustHex("6F")) {
		t.Error("0x6F (FCI Template) should be constructed")
	}
	if !IsConstructed(mustHex("A5")) {
		t.Error("0xA5 (FCI Proprietary Template) should be constructed")
	}
}

func TestTagInt(t *testing.T) {
	v, ok := TagInt(mustHex("5F 50"))
	if !ok || v != 0x5F50 {
		t.Errorf("TagInt(5F50) = %X, %v", v, ok)
	}
	_, ok = TagInt(mustHex("01 02 03 04 05"))
	if ok {
		t.Error("5-byte tag should not be representable as TagInt")
	}
}

func TestIter(t *testing.T) {
	input := mustHex("4F 02 03 04 5F 50 81 03 04 05 06")
	it := Iter(input)

	var got [][2]string
	for {
		tag, value, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, [2]string{hex.EncodeToString(tag), hex.EncodeToString(value)})
	}
	if err := it.Err(); err != nil {
		t.Fatalf("unexpected Err: %v", err)
	}
	want := [][2]string{{"4f", "0304"}, {"5f50", "040506"}}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestIter_TruncatedFinalRecord(t *testing.T) {
	it := Iter(mustHex("5F 50 81 03 04 05"))
	for {
		_, _, ok := it.Next()
		if !ok {
			break
		}
	}
	if !errors.Is(it.Err(), ErrTruncated) {
		t.Errorf("Err() = %v, want ErrTruncated", it.Err())
	}
}
