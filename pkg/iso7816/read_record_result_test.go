package iso7816

import (
	"strings"
	"testing"

	"github.com/gregLibert/smart-card/pkg/apdu"
	"github.com/gregLibert/smart-card/pkg/command"
	"github.com/gregLibert/smart-card/pkg/status"
)

func TestReadRecordResult_Describe(t *testing.T) {
	cla, _ := apdu.NewClass(0x00)
	cmd, err := ReadRecord(cla, 1, 2)
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}

	resp, err := apdu.ParseResponseAPDU(mustHex("5A 03 11 22 33 90 00"))
	if err != nil {
		t.Fatalf("ParseResponseAPDU: %v", err)
	}

	trace := command.Trace{{Command: cmd, Response: resp, Status: status.Classify(resp.SW1, resp.SW2)}}

	result, err := NewReadRecordResult(trace)
	if err != nil {
		t.Fatalf("NewReadRecordResult: %v", err)
	}

	desc := result.Describe()
	if !strings.Contains(desc, "READ RECORD COMMAND REPORT") {
		t.Error("Describe() missing report header")
	}
	if !strings.Contains(desc, "SFI 01") {
		t.Errorf("Describe() missing SFI, got %q", desc)
	}
}

func TestNewReadRecordResult_WrongInstruction(t *testing.T) {
	cla, _ := apdu.NewClass(0x00)
	cmd, _ := SelectByAID(cla, mustHex("A0 00 00 00 03 10 10"))
	resp, _ := apdu.ParseResponseAPDU(mustHex("90 00"))
	trace := command.Trace{{Command: cmd, Response: resp, Status: status.Classify(resp.SW1, resp.SW2)}}

	if _, err := NewReadRecordResult(trace); err == nil {
		t.Fatal("expected error for a trace not starting with READ RECORD")
	}
}
