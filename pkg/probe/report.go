// Package probe drives the card identification pipeline: reader attribute
// query, contactless CID probe, ATR parsing, and the EMV/FeliCa branch this
// implies, assembling the result into a Report.
package probe

import (
	"encoding/json"

	"github.com/gregLibert/smart-card/pkg/atr"
	"github.com/gregLibert/smart-card/pkg/emv"
	"github.com/gregLibert/smart-card/pkg/felica"
	"github.com/gregLibert/smart-card/pkg/transport"
)

// Report is the full result of one probe run.
type Report struct {
	ReaderAttrs transport.Attributes
	CID         []byte
	ATR         atr.ATR

	EMV    *EMVReport
	FeliCa *FeliCaReport
}

// EMVReport holds what the ISO/EMV branch discovered.
type EMVReport struct {
	Directory    *emv.Directory
	Applications []Application
}

// Application pairs a discovered AID with either its parsed FCI or the
// reason selecting it failed; a failed SELECT on one candidate AID does not
// abort the walk over the rest.
type Application struct {
	AID   []byte
	Label string
	FCI   *emv.FCI
	Error error
}

// applicationJSON mirrors Application with Error flattened to a string,
// since the error interface has no JSON representation of its own.
type applicationJSON struct {
	AID   []byte   `json:"AID"`
	Label string   `json:"Label"`
	FCI   *emv.FCI `json:"FCI,omitempty"`
	Error string   `json:"Error,omitempty"`
}

// MarshalJSON renders Error as its message string instead of an opaque
// empty object.
func (a Application) MarshalJSON() ([]byte, error) {
	out := applicationJSON{AID: a.AID, Label: a.Label, FCI: a.FCI}
	if a.Error != nil {
		out.Error = a.Error.Error()
	}
	return json.Marshal(out)
}

// FeliCaReport holds what the FeliCa branch discovered.
type FeliCaReport struct {
	Systems []SystemReport
	// LiteS is populated instead of Systems when RequestSystemCode failed
	// and the Lite-S fallback catalogue was read instead.
	LiteS *LiteSReport
}

// SystemReport is one System found via RequestSystemCode, with every
// service walked via SearchServiceCode and every accessible block dumped.
type SystemReport struct {
	Code     felica.SystemCode
	Services []ServiceReport
}

// ServiceReport is one Service found under a System, with its blocks (block
// 0 onward, stopping at the first unreadable block).
type ServiceReport struct {
	Service felica.ServiceCode
	Blocks  [][]byte
}

// LiteSReport is the fallback result when a card claims FeliCa but does not
// answer RequestSystemCode: a fixed block-name catalogue, each block read
// independently so one bad block doesn't lose the rest.
type LiteSReport struct {
	Blocks map[string][]byte
}
