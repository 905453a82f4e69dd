package probe

import (
	"github.com/gregLibert/smart-card/pkg/command"
	"github.com/gregLibert/smart-card/pkg/felica"
)

// maxSubSystems bounds the sub-system sweep at 16: the IDm's top nibble only
// has 16 values to address (§4.8).
const maxSubSystems = 16

// probeFeliCa walks every System the card reports, every Service under each
// System, and dumps every accessible block; if the card doesn't answer
// RequestSystemCode it falls back to the fixed Lite-S catalogue.
func probeFeliCa(client *command.Client, cid []byte, log Logger) *FeliCaReport {
	report := &FeliCaReport{}

	idm, err := felica.CIDToIDm(cid)
	if err != nil {
		log.Printf("FeliCa: no usable IDm from CID probe: %v", err)
		return report
	}

	fc := felica.NewClient(client)

	sysResult, err := fc.RequestSystemCode(idm)
	if err != nil {
		log.Printf("FeliCa: RequestSystemCode failed, falling back to Lite-S: %v", err)
		report.LiteS = probeLiteS(fc, idm, log)
		return report
	}

	for n, code := range sysResult.Systems {
		if n >= maxSubSystems {
			log.Printf("FeliCa: more than %d systems reported, ignoring the rest", maxSubSystems)
			break
		}
		sysIDm := idm.ForSystem(uint8(n))
		report.Systems = append(report.Systems, probeSystem(fc, sysIDm, code, log))
	}

	return report
}

func probeSystem(fc *felica.Client, idm felica.IDm, code felica.SystemCode, log Logger) SystemReport {
	sys := SystemReport{Code: code}

	for idx := uint16(0); ; idx++ {
		result, err := fc.SearchServiceCode(idm, idx)
		if err != nil {
			log.Printf("FeliCa: SearchServiceCode(%s, %d) failed: %v", code, idx, err)
			break
		}
		if result == nil {
			break
		}
		if result.Service == nil {
			continue // Area node: no blocks of its own.
		}
		sys.Services = append(sys.Services, probeService(fc, idm, *result.Service, log))
	}

	return sys
}

func probeService(fc *felica.Client, idm felica.IDm, svc felica.ServiceCode, log Logger) ServiceReport {
	report := ServiceReport{Service: svc}

	for block := uint16(0); ; block++ {
		elem := felica.BlockListElement{Mode: felica.AccessNormal, ServiceIdx: 0, BlockNum: block}
		result, err := fc.ReadWithoutEncryption(idm, []uint16{svc.Code}, []felica.BlockListElement{elem})
		if err != nil || !result.Success() {
			break
		}
		report.Blocks = append(report.Blocks, result.Blocks[0])
	}

	return report
}

// probeLiteS reads every block named in felica.LiteSBlockNames, trying the
// fixed Lite-S system service first and the user service second, tolerating
// per-block failure as absence rather than aborting the whole dump.
func probeLiteS(fc *felica.Client, idm felica.IDm, log Logger) *LiteSReport {
	report := &LiteSReport{Blocks: make(map[string][]byte)}

	services := []uint16{felica.LiteSSystemService.Code, felica.LiteSUserService.Code}

	for _, b := range felica.LiteSBlockNames {
		elem := felica.BlockListElement{Mode: felica.AccessNormal, ServiceIdx: 0, BlockNum: b.BlockNum}
		found := false
		for svcIdx := range services {
			e := elem
			e.ServiceIdx = uint8(svcIdx)
			result, err := fc.ReadWithoutEncryption(idm, services, []felica.BlockListElement{e})
			if err != nil || !result.Success() {
				continue
			}
			report.Blocks[b.Name] = result.Blocks[0]
			found = true
			break
		}
		if !found {
			log.Printf("FeliCa Lite-S: block %s unreadable, skipping", b.Name)
		}
	}

	return report
}
