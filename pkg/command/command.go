// Package command implements the ISO/IEC 7816-3 transport-level retry
// protocol on top of pkg/apdu framing and pkg/status classification: the
// automatic GET RESPONSE chaining on 61XX and the automatic re-issue on 6CXX,
// surfaced to the caller as a single logical Trace. Any other non-success
// status word terminates the Trace and comes back as a status.StatusError.
package command

import (
	"fmt"

	"github.com/gregLibert/smart-card/pkg/apdu"
	"github.com/gregLibert/smart-card/pkg/status"
)

// Transmitter abstracts the physical card connection: send raw command
// bytes, get back raw response bytes.
type Transmitter interface {
	Transmit(cmd []byte) ([]byte, error)
}

// Transaction is one Command APDU sent, and the Response APDU it received.
type Transaction struct {
	Command  apdu.CommandAPDU
	Response apdu.ResponseAPDU
	Status   status.Status
}

// IsSuccess reports whether this single transaction's status is success.
func (t Transaction) IsSuccess() bool {
	return t.Status.IsSuccess()
}

// Trace is the full sequence of transactions needed to satisfy one logical
// request, including any 61XX/6CXX retries.
type Trace []Transaction

// Last returns the final transaction, or the zero Transaction if the trace
// is empty.
func (t Trace) Last() Transaction {
	if len(t) == 0 {
		return Transaction{}
	}
	return t[len(t)-1]
}

// IsSuccess reports whether the final transaction in the trace succeeded,
// regardless of intermediate warnings earlier in the trace.
func (t Trace) IsSuccess() bool {
	if len(t) == 0 {
		return false
	}
	return t.Last().IsSuccess()
}

// Data returns the response data of the logical call: the data of every
// transaction that ended in 61XX (bytes remaining), concatenated in order
// with the data of the final transaction.
func (t Trace) Data() []byte {
	if len(t) <= 1 {
		return t.Last().Response.Data
	}
	var data []byte
	for _, tx := range t[:len(t)-1] {
		if tx.Status.Kind == status.KindBytesRemaining {
			data = append(data, tx.Response.Data...)
		}
	}
	return append(data, t.Last().Response.Data...)
}

// Client drives a Transmitter through the ISO 7816-3 retry protocol.
type Client struct {
	Card Transmitter
}

// NewClient wraps a Transmitter in a Client.
func NewClient(card Transmitter) *Client {
	return &Client{Card: card}
}

// Send transmits cmd and follows any 61XX (GET RESPONSE) or 6CXX (retry with
// corrected Le) indication, returning the complete Trace of transactions. Any
// other non-success status word is returned as a status.StatusError wrapping
// the classified status, alongside the (still populated) Trace.
func (c *Client) Send(cmd apdu.CommandAPDU) (Trace, error) {
	rawCmd, err := cmd.Bytes()
	if err != nil {
		return nil, fmt.Errorf("command: encode: %w", err)
	}

	rawResp, err := c.Card.Transmit(rawCmd)
	if err != nil {
		return nil, fmt.Errorf("command: transmit: %w", err)
	}

	resp, err := apdu.ParseResponseAPDU(rawResp)
	if err != nil {
		return nil, fmt.Errorf("command: %w", err)
	}

	st := status.Classify(resp.SW1, resp.SW2)
	trace := Trace{{Command: cmd, Response: resp, Status: st}}

	switch st.Kind {
	case status.KindBytesRemaining:
		// ISO 7816-4: GET RESPONSE must use the same logical channel as the
		// original command, with chaining cleared.
		respCls := cmd.Class
		respCls.IsChained = false

		getResp, err := apdu.NewCommandAPDU(mustEncode(respCls), byte(apdu.INS_GET_RESPONSE), 0x00, 0x00, nil, st.N)
		if err != nil {
			return trace, fmt.Errorf("command: building GET RESPONSE: %w", err)
		}

		sub, err := c.Send(getResp)
		if err != nil {
			return trace, err
		}
		return append(trace, sub...), nil

	case status.KindRetryWithLe:
		retry := cmd
		retry.Ne = st.N

		sub, err := c.Send(retry)
		if err != nil {
			return trace, err
		}
		return append(trace, sub...), nil
	}

	if !st.IsSuccess() {
		return trace, status.StatusError{Status: st}
	}
	return trace, nil
}

func mustEncode(c apdu.Class) byte {
	raw, err := c.Encode()
	if err != nil {
		// c was decoded from a valid CLA byte moments ago by the caller;
		// clearing IsChained cannot make it un-encodable.
		panic(err)
	}
	return raw
}
