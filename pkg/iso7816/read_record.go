package iso7816

import (
	"errors"
	"fmt"

	"github.com/gregLibert/smart-card/pkg/apdu"
	"github.com/gregLibert/smart-card/pkg/command"
	"github.com/gregLibert/smart-card/pkg/status"
)

// READ RECORD COMMAND LOGIC (ISO 7816-4):
// The READ RECORD command (INS 'B2') reads the content of one or more records
// from the current Elementary File (EF) or a specified SFI.
//
// P1 (Record Number or ID):
// - If P2 indicates "Record number" (Bits 3=1), P1 is the record number (00 = current).
// - If P2 indicates "Record identifier" (Bits 3=0), P1 is the record identifier.
//
// P2 (Reference Control):
// - Bits 8-4: Short File Identifier (SFI). If 0, use Current EF.
// - Bit 3:    0=Reference by ID, 1=Reference by Number.
// - Bits 2-1: Occurrence/Mode (First, Last, Next, Prev, or All).

// ReadRecordMode defines how to interpret P1 and which record(s) to read.
type ReadRecordMode byte

const (
	// P1 is Record IDENTIFIER (Bit 3 = 0)
	RefByID_FirstOccurrence    ReadRecordMode = 0b000
	RefByID_LastOccurrence     ReadRecordMode = 0b001
	RefByID_NextOccurrence     ReadRecordMode = 0b010
	RefByID_PreviousOccurrence ReadRecordMode = 0b011

	// P1 is Record NUMBER (Bit 3 = 1)
	RefByNum_ReadP1              ReadRecordMode = 0b100
	RefByNum_ReadAllFromP1       ReadRecordMode = 0b101
	RefByNum_ReadAllFromLastToP1 ReadRecordMode = 0b110
)

func (m ReadRecordMode) String() string {
	switch m {
	case RefByID_FirstOccurrence:
		return "Ref ID: First Occurrence"
	case RefByID_LastOccurrence:
		return "Ref ID: Last Occurrence"
	case RefByID_NextOccurrence:
		return "Ref ID: Next Occurrence"
	case RefByID_PreviousOccurrence:
		return "Ref ID: Previous Occurrence"
	case RefByNum_ReadP1:
		return "Ref Num: Read Record P1"
	case RefByNum_ReadAllFromP1:
		return "Ref Num: Read All from P1"
	case RefByNum_ReadAllFromLastToP1:
		return "Ref Num: Read All from Last to P1"
	default:
		return fmt.Sprintf("Unknown Mode (0x%X)", byte(m))
	}
}

// NewReadRecordCommand creates a raw READ RECORD command.
func NewReadRecordCommand(cla apdu.Class, sfi byte, p1 byte, mode ReadRecordMode) (apdu.CommandAPDU, error) {
	// P2 Construction (Table 49): (SFI << 3) | Mode
	p2 := (sfi << 3) | byte(mode)

	claRaw, err := cla.Encode()
	if err != nil {
		return apdu.CommandAPDU{}, fmt.Errorf("iso7816: %w", err)
	}

	// READ RECORD is a Case 2 command (no data sent, data expected): request
	// MaxShortLe so the encoder appends the trailing 00.
	return apdu.NewCommandAPDU(claRaw, byte(apdu.INS_READ_RECORD), p1, p2, nil, apdu.MaxShortLe)
}

// ReadRecord reads a specific record by its Number (Mode '100').
func ReadRecord(cla apdu.Class, sfi byte, recordNumber byte) (apdu.CommandAPDU, error) {
	return NewReadRecordCommand(cla, sfi, recordNumber, RefByNum_ReadP1)
}

// Record is one successfully read record, identified by its SFI and number.
type Record struct {
	SFI    byte
	Number byte
	Data   []byte
}

// readRecordsDetailed is the shared loop behind ReadRecords and
// ReadAllRecords: it reads every record of sfi, starting at record 1,
// wrapping each response in a ReadRecordResult, and stops cleanly when the
// card reports RecordNotFound (6A83). Any other error aborts iteration.
func readRecordsDetailed(client *command.Client, cla apdu.Class, sfi byte) ([]*ReadRecordResult, error) {
	var results []*ReadRecordResult

	for number := byte(1); ; number++ {
		cmd, err := ReadRecord(cla, sfi, number)
		if err != nil {
			return results, err
		}

		trace, err := client.Send(cmd)
		if err != nil {
			var statusErr status.StatusError
			if errors.As(err, &statusErr) && statusErr.Status.Kind == status.KindRecordNotFound {
				return results, nil
			}
			return results, err
		}

		result, err := NewReadRecordResult(trace)
		if err != nil {
			return results, err
		}
		results = append(results, result)

		if number == 254 {
			return results, nil
		}
	}
}

// ReadRecords reads every record of sfi, starting at record 1, stopping
// cleanly when the card reports RecordNotFound (6A83). Any other error
// aborts iteration and is returned to the caller.
func ReadRecords(client *command.Client, cla apdu.Class, sfi byte) ([]Record, error) {
	results, err := readRecordsDetailed(client, cla, sfi)

	records := make([]Record, len(results))
	for i, r := range results {
		records[i] = Record{SFI: sfi, Number: byte(i + 1), Data: r.Last().Response.Data}
	}
	return records, err
}

// ErrNoRecords is returned by ReadAllRecords when every SFI in range yielded
// no records at all (an EF with no readable records, or a DF with none).
var ErrNoRecords = errors.New("iso7816: no records found in any SFI")

// ReadAllRecords walks SFI 1 through 30, reading every record of each via
// ReadRecords, and returns the concatenation across all SFIs. It backs the
// "cardinal select --read-records" diagnostic sweep; probeEMV never calls it
// and only ever reads the one SFI its directory names.
func ReadAllRecords(client *command.Client, cla apdu.Class) ([]Record, error) {
	var all []Record
	for sfi := byte(1); sfi <= 30; sfi++ {
		records, err := ReadRecords(client, cla, sfi)
		if err != nil {
			return all, err
		}
		all = append(all, records...)
	}
	if len(all) == 0 {
		return nil, ErrNoRecords
	}
	return all, nil
}

// ReadAllRecordsDetailed behaves like ReadAllRecords but keeps each record's
// full ReadRecordResult instead of collapsing it to a Record, for callers
// that want the per-command diagnostic report rather than just the bytes.
func ReadAllRecordsDetailed(client *command.Client, cla apdu.Class) ([]*ReadRecordResult, error) {
	var all []*ReadRecordResult
	for sfi := byte(1); sfi <= 30; sfi++ {
		results, err := readRecordsDetailed(client, cla, sfi)
		if err != nil {
			return all, err
		}
		all = append(all, results...)
	}
	if len(all) == 0 {
		return nil, ErrNoRecords
	}
	return all, nil
}
