// Package transport wires the pkg/command.Transmitter contract to a real
// PCSC reader via github.com/ebfe/scard: context/reader enumeration, card
// connection, ATR retrieval, and the vendor/friendly-name attribute queries
// the probe orchestrator reports best-effort.
package transport

import (
	"fmt"

	"github.com/ebfe/scard"
)

// Card wraps a connected PCSC card. It implements pkg/command.Transmitter.
type Card struct {
	ctx  *scard.Context
	card *scard.Card
	name string
	atr  []byte
}

// ListReaders returns the names of every PCSC reader currently attached.
func ListReaders() ([]string, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("transport: establish context: %w", err)
	}
	defer ctx.Release()

	readers, err := ctx.ListReaders()
	if err != nil {
		return nil, fmt.Errorf("transport: list readers: %w", err)
	}
	return readers, nil
}

// Connect establishes a PCSC context and connects to the reader at the given
// index, accepting either transmission protocol so contact and contactless
// cards both attach cleanly.
func Connect(readerIndex int) (*Card, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("transport: establish context: %w", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil {
		ctx.Release()
		return nil, fmt.Errorf("transport: list readers: %w", err)
	}
	if len(readers) == 0 {
		ctx.Release()
		return nil, fmt.Errorf("transport: no smart card readers found")
	}
	if readerIndex < 0 || readerIndex >= len(readers) {
		ctx.Release()
		return nil, fmt.Errorf("transport: reader index %d out of range (0-%d)", readerIndex, len(readers)-1)
	}

	name := readers[readerIndex]
	sc, err := ctx.Connect(name, scard.ShareShared, scard.ProtocolT0|scard.ProtocolT1)
	if err != nil {
		ctx.Release()
		return nil, fmt.Errorf("transport: connect to %q: %w", name, err)
	}

	status, err := sc.Status()
	if err != nil {
		sc.Disconnect(scard.LeaveCard)
		ctx.Release()
		return nil, fmt.Errorf("transport: card status: %w", err)
	}

	return &Card{ctx: ctx, card: sc, name: name, atr: status.Atr}, nil
}

// Transmit sends a raw APDU and returns the raw response, satisfying
// pkg/command.Transmitter.
func (c *Card) Transmit(cmd []byte) ([]byte, error) {
	resp, err := c.card.Transmit(cmd)
	if err != nil {
		return nil, fmt.Errorf("transport: transmit: %w", err)
	}
	return resp, nil
}

// Close disconnects the card (leaving it powered) and releases the PCSC
// context.
func (c *Card) Close() error {
	if c.card != nil {
		c.card.Disconnect(scard.LeaveCard)
	}
	if c.ctx != nil {
		c.ctx.Release()
	}
	return nil
}

// Name returns the PCSC reader name this card is connected through.
func (c *Card) Name() string {
	return c.name
}

// ATR returns the Answer-to-Reset bytes captured when the connection was
// established.
func (c *Card) ATR() []byte {
	return c.atr
}

// Attributes is the best-effort reader identification read by QueryAttributes;
// any field left empty means the underlying GetAttrib call failed, which is
// routine on readers that don't report it.
type Attributes struct {
	VendorName   string
	FriendlyName string
}

// QueryAttributes reads the PCSC vendor name and device friendly name
// attributes. It never fails outright: an unsupported attribute simply
// leaves the corresponding field empty, matching the probe orchestrator's
// "best-effort, log and continue" step 1.
func (c *Card) QueryAttributes() Attributes {
	var attrs Attributes
	if v, err := c.card.GetAttrib(scard.AttrVendorName); err == nil {
		attrs.VendorName = string(v)
	}
	if v, err := c.card.GetAttrib(scard.AttrDeviceFriendlyNameA); err == nil {
		attrs.FriendlyName = string(v)
	}
	return attrs
}
