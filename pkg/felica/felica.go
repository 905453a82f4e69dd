// Package felica implements the FeliCa contactless command set: a non-ISO
// command/response framing tunneled through a PCSC pseudo-APDU escape
// (CLA=FF INS=00 P1=00 P2=00), distinct from the ISO 7816-4 command layer in
// pkg/iso7816. Every command's wire payload is `len cmd-code idm[8] ...fields`,
// where len counts itself; responses follow the same shape with the matching
// response code.
package felica

import (
	"fmt"

	"github.com/gregLibert/smart-card/pkg/apdu"
	"github.com/gregLibert/smart-card/pkg/command"
)

// IDm is an 8-byte FeliCa card/manufacturer identifier.
type IDm uint64

// CIDToIDm parses an 8-byte contactless CID (as returned by the PCSC
// `FF CA 00 00 00` pseudo-APDU) into an IDm.
func CIDToIDm(cid []byte) (IDm, error) {
	if len(cid) != 8 {
		return 0, fmt.Errorf("felica: CID must be 8 bytes, got %d", len(cid))
	}
	var v uint64
	for _, b := range cid {
		v = v<<8 | uint64(b)
	}
	return IDm(v), nil
}

// ForSystem returns the IDm used to address sub-system n (0..15) on a
// multi-system card, by overwriting the top nibble of the canonical IDm.
func (id IDm) ForSystem(n uint8) IDm {
	b := id.Bytes()
	b[0] = b[0]&0x0F | (n&0x0F)<<4
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return IDm(v)
}

// Bytes renders the IDm as its 8 big-endian bytes.
func (id IDm) Bytes() [8]byte {
	var b [8]byte
	for i := 7; i >= 0; i-- {
		b[i] = byte(id)
		id >>= 8
	}
	return b
}

// CommandCode identifies a FeliCa command or response.
type CommandCode byte

const (
	CodeRequestService            CommandCode = 0x02
	CodeRequestServiceResponse    CommandCode = 0x03
	CodeRequestResponse           CommandCode = 0x04
	CodeRequestResponseResponse   CommandCode = 0x05
	CodeReadWithoutEncryption     CommandCode = 0x06
	CodeReadWithoutEncryptionResp CommandCode = 0x07
	CodeSearchServiceCode         CommandCode = 0x0A
	CodeSearchServiceCodeResponse CommandCode = 0x0B
	CodeRequestSystemCode         CommandCode = 0x0C
	CodeRequestSystemCodeResponse CommandCode = 0x0D
)

// Client issues FeliCa commands over a generic ISO 7816 command.Client,
// wrapping each payload in the PCSC pseudo-APDU escape.
type Client struct {
	cmd *command.Client
}

// NewClient builds a FeliCa client driving card I/O through cmd.
func NewClient(cmd *command.Client) *Client {
	return &Client{cmd: cmd}
}

// call sends one FeliCa command (code + fields, fields already encoded) and
// returns the raw response payload starting at the response code byte.
func (c *Client) call(code CommandCode, fields []byte) ([]byte, error) {
	body := append([]byte{byte(code)}, fields...)
	payload := append([]byte{byte(len(body) + 1)}, body...)
	if len(payload) > 255 {
		return nil, fmt.Errorf("felica: payload too long (%d bytes)", len(payload))
	}

	cmdAPDU, err := apdu.NewCommandAPDU(0xFF, 0x00, 0x00, 0x00, payload, 0)
	if err != nil {
		return nil, fmt.Errorf("felica: building pseudo-APDU: %w", err)
	}

	trace, err := c.cmd.Send(cmdAPDU)
	if err != nil {
		return nil, fmt.Errorf("felica: sending command %#x: %w", code, err)
	}

	data := trace.Data()
	if len(data) < 2 {
		return nil, fmt.Errorf("felica: response too short (%d bytes)", len(data))
	}
	if int(data[0]) != len(data) {
		return nil, fmt.Errorf("felica: response length byte %d does not match actual length %d", data[0], len(data))
	}
	return data[1:], nil
}

// parseHeader strips and validates the response-code and IDm prefix common
// to every FeliCa response, returning the IDm and the remaining fields.
func parseHeader(want CommandCode, data []byte) (IDm, []byte, error) {
	if len(data) < 9 {
		return 0, nil, fmt.Errorf("felica: response too short for header")
	}
	if CommandCode(data[0]) != want {
		return 0, nil, fmt.Errorf("felica: unexpected response code %#x, want %#x", data[0], want)
	}
	idm, err := CIDToIDm(data[1:9])
	if err != nil {
		return 0, nil, err
	}
	return idm, data[9:], nil
}
