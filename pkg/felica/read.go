package felica

import "fmt"

// ReadWithoutEncryptionResult is a block read's outcome: a two-byte status
// (both bytes zero means success) and, only on success, one 16-byte slice per
// requested block.
type ReadWithoutEncryptionResult struct {
	IDm    IDm
	Status [2]byte
	Blocks [][]byte
}

// Success reports whether the card reports the read as successful.
func (r ReadWithoutEncryptionResult) Success() bool {
	return r.Status[0] == 0x00 && r.Status[1] == 0x00
}

// ReadWithoutEncryption reads blocks from one or more services without
// authentication, identifying each block by an index into the services list.
func (c *Client) ReadWithoutEncryption(idm IDm, services []uint16, blocks []BlockListElement) (ReadWithoutEncryptionResult, error) {
	if len(services) > 16 {
		return ReadWithoutEncryptionResult{}, fmt.Errorf("felica: ReadWithoutEncryption supports at most 16 services, got %d", len(services))
	}
	if len(blocks) > 15 {
		return ReadWithoutEncryptionResult{}, fmt.Errorf("felica: ReadWithoutEncryption supports at most 15 blocks, got %d", len(blocks))
	}

	idmBytes := idm.Bytes()
	fields := append([]byte{}, idmBytes[:]...)
	fields = append(fields, byte(len(services)))
	for _, sid := range services {
		fields = append(fields, byte(sid), byte(sid>>8))
	}
	fields = append(fields, byte(len(blocks)))
	for _, b := range blocks {
		fields = append(fields, b.Encode()...)
	}

	data, err := c.call(CodeReadWithoutEncryption, fields)
	if err != nil {
		return ReadWithoutEncryptionResult{}, err
	}

	respIDm, rest, err := parseHeader(CodeReadWithoutEncryptionResp, data)
	if err != nil {
		return ReadWithoutEncryptionResult{}, err
	}
	if len(rest) < 2 {
		return ReadWithoutEncryptionResult{}, fmt.Errorf("felica: ReadWithoutEncryption response missing status")
	}
	result := ReadWithoutEncryptionResult{IDm: respIDm, Status: [2]byte{rest[0], rest[1]}}
	rest = rest[2:]
	if !result.Success() {
		return result, nil
	}
	if len(rest) < 1 {
		return ReadWithoutEncryptionResult{}, fmt.Errorf("felica: ReadWithoutEncryption response missing block count")
	}
	n := int(rest[0])
	rest = rest[1:]
	if len(rest) < n*16 {
		return ReadWithoutEncryptionResult{}, fmt.Errorf("felica: ReadWithoutEncryption response truncated, want %d blocks", n)
	}
	result.Blocks = make([][]byte, n)
	for i := 0; i < n; i++ {
		result.Blocks[i] = rest[i*16 : (i+1)*16]
	}
	return result, nil
}
