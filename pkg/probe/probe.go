package probe

import (
	"bytes"
	"fmt"

	"github.com/gregLibert/smart-card/pkg/apdu"
	atrpkg "github.com/gregLibert/smart-card/pkg/atr"
	"github.com/gregLibert/smart-card/pkg/command"
	"github.com/gregLibert/smart-card/pkg/transport"
)

// Logger is the minimal logging surface the orchestrator needs: one line per
// best-effort step it logs-and-continues past. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

// pseDFName is the fixed DF name of the EMV Payment System Environment.
const pseDFName = "1PAY.SYS.DDF01"

// Run drives the full identification pipeline against card and returns the
// assembled Report. Every step logs and continues per §4.9's failure
// semantics; an ATR that fails to parse is logged and the ISO/EMV branch is
// taken.
func Run(card *transport.Card, log Logger) (*Report, error) {
	report := &Report{}

	report.ReaderAttrs = card.QueryAttributes()

	client := command.NewClient(card)

	cls, err := apdu.NewClass(0x00)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}

	if cid, err := probeCID(client); err != nil {
		log.Printf("CID probe: %v (normal on contact readers)", err)
	} else {
		report.CID = cid
	}

	parsed, err := atrpkg.Parse(card.ATR())
	if err != nil {
		log.Printf("ATR: parsing failed, taking the ISO/EMV branch: %v", err)
	} else {
		report.ATR = parsed
	}

	if isFeliCa(parsed) {
		report.FeliCa = probeFeliCa(client, report.CID, log)
	} else {
		report.EMV = probeEMV(client, cls, log)
	}

	return report, nil
}

// probeCID issues the PCSC contactless-card-ID pseudo-APDU (FF CA 00 00 00).
func probeCID(client *command.Client) ([]byte, error) {
	cmd, err := apdu.NewCommandAPDU(0xFF, 0xCA, 0x00, 0x00, nil, apdu.MaxShortLe)
	if err != nil {
		return nil, err
	}
	trace, err := client.Send(cmd)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(trace.Data()), nil
}

// isFeliCa inspects the ATR's Historical Bytes Initial-Access entry, the
// only place a PCSC reader reports the contactless standard in use.
func isFeliCa(a atrpkg.ATR) bool {
	if a.HistoricalBytes == nil || a.HistoricalBytes.CompactTLV == nil {
		return false
	}
	ia := a.HistoricalBytes.CompactTLV.InitialAccess
	return ia != nil && ia.Standard == atrpkg.StandardFeliCa
}
