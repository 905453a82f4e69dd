// Package status classifies the two-byte ISO/IEC 7816-4 status word (SW1/SW2)
// returned by a smart card into a closed set of cases, while keeping every
// raw SW1/SW2 pair round-trippable through the classification.
package status

import (
	"fmt"

	"github.com/gregLibert/smart-card/pkg/bits"
)

// Kind enumerates the status word categories this package distinguishes.
// Every Status, regardless of Kind, still carries its raw SW1/SW2, so
// AsUint16(Classify(sw1, sw2)) == uint16(sw1)<<8|uint16(sw2) always holds —
// Kind is a classification on top of the raw value, never a lossy encoding
// of it.
type Kind int

const (
	// KindSuccess is 0x9000: normal processing, no further data.
	KindSuccess Kind = iota
	// KindBytesRemaining is 61XX: N more bytes are available via GET RESPONSE.
	KindBytesRemaining
	// KindRetryWithLe is 6CXX: reissue the same command with Le = N.
	KindRetryWithLe
	// KindTriggeringByCard is 62XX/64XX with SW2 in [0x02, 0x80]: the card
	// requests an action or reports data affecting N bytes.
	KindTriggeringByCard
	// KindCounter is 63CX: a retry counter (e.g. PIN tries remaining) is at N.
	KindCounter
	// KindSelectedFileDeactivated is 6283.
	KindSelectedFileDeactivated
	// KindAuthenticationFailed is 6300.
	KindAuthenticationFailed
	// KindMemoryFailure is 6581.
	KindMemoryFailure
	// KindWrongLength is 67XX: incorrect Lc/Le.
	KindWrongLength
	// KindLogicalChannelNotSupported is 6881.
	KindLogicalChannelNotSupported
	// KindSecureMessagingNotSupported is 6882.
	KindSecureMessagingNotSupported
	// KindLastCommandExpected is 6883: command chaining expected last command.
	KindLastCommandExpected
	// KindChainingNotSupported is 6884.
	KindChainingNotSupported
	// KindSecurityStatusNotSatisfied is 6982.
	KindSecurityStatusNotSatisfied
	// KindAuthMethodBlocked is 6983.
	KindAuthMethodBlocked
	// KindConditionsNotSatisfied is 6985.
	KindConditionsNotSatisfied
	// KindCommandNotAllowed is 6986: no current EF.
	KindCommandNotAllowed
	// KindIncorrectParams is 6A80: incorrect parameters in the data field.
	KindIncorrectParams
	// KindFunctionNotSupported is 6A81.
	KindFunctionNotSupported
	// KindFileNotFound is 6A82.
	KindFileNotFound
	// KindRecordNotFound is 6A83.
	KindRecordNotFound
	// KindIncorrectP1P2 is 6A86.
	KindIncorrectP1P2
	// KindReferencedDataNotFound is 6A88.
	KindReferencedDataNotFound
	// KindInstructionNotSupported is 6D00.
	KindInstructionNotSupported
	// KindClassNotSupported is 6E00.
	KindClassNotSupported
	// KindUnknown is the catch-all for any SW1/SW2 pair this package does not
	// assign a more specific Kind to. It is never an error to construct; it
	// is what keeps classification total.
	KindUnknown
)

// Status is a classified status word. N carries the dynamic parameter for
// kinds that have one (bytes remaining, retry length, counter value);
// it is zero otherwise.
type Status struct {
	SW1, SW2 byte
	Kind     Kind
	N        int
}

// Classify decodes sw1/sw2 into a Status. It is a total function: every
// byte pair produces a Status, falling back to KindUnknown when no more
// specific case applies.
func Classify(sw1, sw2 byte) Status {
	s := Status{SW1: sw1, SW2: sw2, Kind: KindUnknown}

	switch {
	case sw1 == 0x90 && sw2 == 0x00:
		s.Kind = KindSuccess
	case sw1 == 0x61:
		s.Kind = KindBytesRemaining
		s.N = int(sw2)
	case sw1 == 0x6C:
		s.Kind = KindRetryWithLe
		s.N = int(sw2)
	case (sw1 == 0x62 || sw1 == 0x64) && sw2 >= 0x02 && sw2 <= 0x80:
		s.Kind = KindTriggeringByCard
		s.N = int(sw2)
	case sw1 == 0x63 && bits.GetRange(sw2, 8, 5) == 0x0C:
		s.Kind = KindCounter
		s.N = int(bits.GetRange(sw2, 4, 1))
	case sw1 == 0x62 && sw2 == 0x83:
		s.Kind = KindSelectedFileDeactivated
	case sw1 == 0x63 && sw2 == 0x00:
		s.Kind = KindAuthenticationFailed
	case sw1 == 0x65 && sw2 == 0x81:
		s.Kind = KindMemoryFailure
	case sw1 == 0x67:
		s.Kind = KindWrongLength
	case sw1 == 0x68 && sw2 == 0x81:
		s.Kind = KindLogicalChannelNotSupported
	case sw1 == 0x68 && sw2 == 0x82:
		s.Kind = KindSecureMessagingNotSupported
	case sw1 == 0x68 && sw2 == 0x83:
		s.Kind = KindLastCommandExpected
	case sw1 == 0x68 && sw2 == 0x84:
		s.Kind = KindChainingNotSupported
	case sw1 == 0x69 && sw2 == 0x82:
		s.Kind = KindSecurityStatusNotSatisfied
	case sw1 == 0x69 && sw2 == 0x83:
		s.Kind = KindAuthMethodBlocked
	case sw1 == 0x69 && sw2 == 0x85:
		s.Kind = KindConditionsNotSatisfied
	case sw1 == 0x69 && sw2 == 0x86:
		s.Kind = KindCommandNotAllowed
	case sw1 == 0x6A && sw2 == 0x80:
		s.Kind = KindIncorrectParams
	case sw1 == 0x6A && sw2 == 0x81:
		s.Kind = KindFunctionNotSupported
	case sw1 == 0x6A && sw2 == 0x82:
		s.Kind = KindFileNotFound
	case sw1 == 0x6A && sw2 == 0x83:
		s.Kind = KindRecordNotFound
	case sw1 == 0x6A && sw2 == 0x86:
		s.Kind = KindIncorrectP1P2
	case sw1 == 0x6A && sw2 == 0x88:
		s.Kind = KindReferencedDataNotFound
	case sw1 == 0x6D && sw2 == 0x00:
		s.Kind = KindInstructionNotSupported
	case sw1 == 0x6E && sw2 == 0x00:
		s.Kind = KindClassNotSupported
	}

	return s
}

// AsUint16 returns the raw two-byte status word, regardless of Kind.
func (s Status) AsUint16() uint16 {
	return uint16(s.SW1)<<8 | uint16(s.SW2)
}

// IsSuccess reports whether the command completed normally. Bytes-remaining
// (61XX) counts as success: the command itself succeeded, it simply has
// more data queued.
func (s Status) IsSuccess() bool {
	return s.Kind == KindSuccess || s.Kind == KindBytesRemaining
}

// Verbose returns a human-readable description of the classified status.
func (s Status) Verbose() string {
	switch s.Kind {
	case KindSuccess:
		return "success"
	case KindBytesRemaining:
		return fmt.Sprintf("%d bytes available via GET RESPONSE", s.N)
	case KindRetryWithLe:
		return fmt.Sprintf("wrong length, retry with Le=%d", s.N)
	case KindTriggeringByCard:
		return fmt.Sprintf("card-triggered action, %d bytes involved", s.N)
	case KindCounter:
		return fmt.Sprintf("counter at %d", s.N)
	case KindSelectedFileDeactivated:
		return "selected file deactivated"
	case KindAuthenticationFailed:
		return "authentication failed"
	case KindMemoryFailure:
		return "memory failure"
	case KindWrongLength:
		return "wrong length (Lc/Le)"
	case KindLogicalChannelNotSupported:
		return "logical channel not supported"
	case KindSecureMessagingNotSupported:
		return "secure messaging not supported"
	case KindLastCommandExpected:
		return "last command of a chain expected"
	case KindChainingNotSupported:
		return "command chaining not supported"
	case KindSecurityStatusNotSatisfied:
		return "security status not satisfied"
	case KindAuthMethodBlocked:
		return "authentication method blocked"
	case KindConditionsNotSatisfied:
		return "conditions of use not satisfied"
	case KindCommandNotAllowed:
		return "command not allowed (no current EF)"
	case KindIncorrectParams:
		return "incorrect parameters in data field"
	case KindFunctionNotSupported:
		return "function not supported"
	case KindFileNotFound:
		return "file not found"
	case KindRecordNotFound:
		return "record not found"
	case KindIncorrectP1P2:
		return "incorrect P1/P2"
	case KindReferencedDataNotFound:
		return "referenced data not found"
	case KindInstructionNotSupported:
		return "instruction not supported"
	case KindClassNotSupported:
		return "class not supported"
	default:
		return fmt.Sprintf("unknown status %02X%02X", s.SW1, s.SW2)
	}
}

func (s Status) String() string {
	return fmt.Sprintf("[%04X] %s", s.AsUint16(), s.Verbose())
}

// StatusError reports that a command completed transport-wise but the card
// answered with a non-success status word. Status is a plain comparable
// struct, so errors.Is(err, StatusError{Status: want}) works by direct
// equality; errors.As recovers the Status for callers that need Kind or N.
type StatusError struct {
	Status Status
}

func (e StatusError) Error() string {
	return fmt.Sprintf("status: %s", e.Status.Verbose())
}
