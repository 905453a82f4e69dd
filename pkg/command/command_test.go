package command

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/gregLibert/smart-card/pkg/apdu"
	"github.com/gregLibert/smart-card/pkg/status"
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		panic(err)
	}
	return b
}

// scriptedCard replays a fixed sequence of responses, one per Transmit call,
// so a retry chain can be exercised without a real reader.
type scriptedCard struct {
	responses [][]byte
	sent      [][]byte
}

func (s *scriptedCard) Transmit(cmd []byte) ([]byte, error) {
	s.sent = append(s.sent, cmd)
	i := len(s.sent) - 1
	if i >= len(s.responses) {
		panic("scriptedCard: ran out of scripted responses")
	}
	return s.responses[i], nil
}

func TestClient_Send_Success(t *testing.T) {
	card := &scriptedCard{responses: [][]byte{mustHex("90 00")}}
	cmd, err := apdu.NewCommandAPDU(0x00, 0xA4, 0x04, 0x00, mustHex("A0 00 00 00 03 10 10"), 256)
	if err != nil {
		t.Fatalf("NewCommandAPDU: %v", err)
	}

	trace, err := NewClient(card).Send(cmd)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(trace) != 1 {
		t.Fatalf("len(trace) = %d, want 1", len(trace))
	}
	if !trace.IsSuccess() {
		t.Error("expected success")
	}
}

func TestClient_Send_BytesRemaining(t *testing.T) {
	card := &scriptedCard{responses: [][]byte{
		mustHex("61 1A"),
		mustHex("00112233445566778899AABBCCDDEEFF00112233 90 00"),
	}}
	cmd, err := apdu.NewCommandAPDU(0x00, 0xA4, 0x04, 0x00, nil, 256)
	if err != nil {
		t.Fatalf("NewCommandAPDU: %v", err)
	}

	trace, err := NewClient(card).Send(cmd)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(trace) != 2 {
		t.Fatalf("len(trace) = %d, want 2", len(trace))
	}
	if !trace.IsSuccess() {
		t.Error("expected final success")
	}

	getResponse := card.sent[1]
	if getResponse[1] != byte(apdu.INS_GET_RESPONSE) {
		t.Errorf("second command INS = %02X, want GET RESPONSE", getResponse[1])
	}
	if getResponse[len(getResponse)-1] != 0x1A {
		t.Errorf("GET RESPONSE Le = %02X, want 1A", getResponse[len(getResponse)-1])
	}
}

func TestClient_Send_RetryWithLe(t *testing.T) {
	card := &scriptedCard{responses: [][]byte{
		mustHex("6C 10"),
		mustHex("00112233445566778899AABBCCDDEEFF 90 00"),
	}}
	cmd, err := apdu.NewCommandAPDU(0x00, 0xB2, 0x01, 0x0C, nil, 256)
	if err != nil {
		t.Fatalf("NewCommandAPDU: %v", err)
	}

	trace, err := NewClient(card).Send(cmd)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(trace) != 2 {
		t.Fatalf("len(trace) = %d, want 2", len(trace))
	}

	retry := card.sent[1]
	if retry[len(retry)-1] != 0x10 {
		t.Errorf("retried Le = %02X, want 10", retry[len(retry)-1])
	}
}

func TestClient_Send_StatusError(t *testing.T) {
	card := &scriptedCard{responses: [][]byte{mustHex("6A 82")}}
	cmd, err := apdu.NewCommandAPDU(0x00, 0xA4, 0x04, 0x00, mustHex("A0 00 00 00 03 10 10"), 256)
	if err != nil {
		t.Fatalf("NewCommandAPDU: %v", err)
	}

	trace, err := NewClient(card).Send(cmd)
	if len(trace) != 1 {
		t.Fatalf("len(trace) = %d, want 1", len(trace))
	}

	var statusErr status.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Send: err = %v, want a status.StatusError", err)
	}
	if statusErr.Status.Kind != status.KindFileNotFound {
		t.Errorf("statusErr.Status.Kind = %v, want KindFileNotFound", statusErr.Status.Kind)
	}
	if !errors.Is(err, status.StatusError{Status: status.Classify(0x6A, 0x82)}) {
		t.Error("errors.Is did not match an equal StatusError")
	}
}
