package probe

import (
	"fmt"

	"github.com/gregLibert/smart-card/pkg/apdu"
	"github.com/gregLibert/smart-card/pkg/command"
	"github.com/gregLibert/smart-card/pkg/emv"
	"github.com/gregLibert/smart-card/pkg/iso7816"
)

// probeEMV selects the Payment System Environment, reads its directory, and
// selects every candidate application it names. A PSE that doesn't exist (no
// contact payment application on the card) is reported, not treated as a
// fatal error — AID-guessing without a directory is future work.
func probeEMV(client *command.Client, cls apdu.Class, log Logger) *EMVReport {
	report := &EMVReport{}

	dir, sfi, err := selectDirectory(client, cls)
	if err != nil {
		log.Printf("EMV: SELECT PSE failed: %v", err)
		return report
	}
	report.Directory = dir

	if sfi == 0 {
		log.Printf("EMV: directory has no SFI, cannot enumerate applications")
		return report
	}

	records, err := iso7816.ReadRecords(client, cls, sfi)
	if err != nil {
		log.Printf("EMV: reading directory records: %v", err)
	}

	var candidates []emv.ApplicationTemplate
	for _, rec := range records {
		dirRec, err := emv.ParseDirectoryRecord(rec.Data)
		if err != nil {
			log.Printf("EMV: record %d: %v", rec.Number, err)
			continue
		}
		candidates = append(candidates, dirRec.Applications...)
	}

	for _, app := range candidates {
		if len(app.AID) == 0 {
			continue
		}
		report.Applications = append(report.Applications, selectApplication(client, cls, app))
	}

	return report
}

func selectDirectory(client *command.Client, cls apdu.Class) (*emv.Directory, byte, error) {
	cmd, err := iso7816.SelectByAID(cls, []byte(pseDFName))
	if err != nil {
		return nil, 0, err
	}
	trace, err := client.Send(cmd)
	if err != nil {
		return nil, 0, fmt.Errorf("select PSE: %w", err)
	}

	dir, err := emv.ParseDirectorySelect(trace.Data())
	if err != nil {
		return nil, 0, err
	}
	if dir.EFSFI == nil {
		return dir, 0, nil
	}
	return dir, *dir.EFSFI, nil
}

func selectApplication(client *command.Client, cls apdu.Class, app emv.ApplicationTemplate) Application {
	result := Application{AID: app.AID, Label: string(app.ApplicationLabel)}

	cmd, err := iso7816.SelectByAID(cls, app.AID)
	if err != nil {
		result.Error = err
		return result
	}
	trace, err := client.Send(cmd)
	if err != nil {
		result.Error = fmt.Errorf("select application: %w", err)
		return result
	}

	fci, err := emv.ParseFCI(trace.Data())
	if err != nil {
		result.Error = err
		return result
	}
	result.FCI = fci
	return result
}
