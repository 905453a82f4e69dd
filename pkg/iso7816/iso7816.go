/*
Package iso7816 implements the ISO/IEC 7816-4 file selection and read layer:
SELECT (by file ID, DF name/AID, or path), READ RECORD, the record iterator,
and the File Control Information (FCI/FCP/FMD) response structures.

Lower-level concerns live in sibling packages: pkg/apdu frames the raw
Command/Response APDU, pkg/status classifies the two-byte status word, and
pkg/command drives the GET RESPONSE / retry-with-Le transport protocol. This
package builds the ISO 7816-4 command set on top of those three.

# File Selection and FCI

One of the most complex aspects of ISO 7816 is the SELECT command (0xA4). The
response to a selection depends heavily on the P2 parameter. This package
abstracts this complexity via the SelectResult and ParseSelectData utilities,
which handle:

  - FCP (File Control Parameters) - Tag '62'
  - FMD (File Management Data) - Tag '64'
  - FCI (File Control Information) - Tag '6F'
  - Proprietary Data - Tag 'C0' or above

# Usage Example: Analyzing a Select Response

	trace, err := client.Send(cmd)
	if err != nil {
	    log.Fatal(err)
	}
	result, err := iso7816.NewSelectResult(trace)
	if err != nil {
	    log.Fatal(err)
	}

	if result.IsSuccess() {
	    fmt.Println("Application Selected Successfully")
	}

	fci, err := result.FCI()
	if err != nil {
	    log.Printf("Could not parse FCI: %v", err)
	    return
	}
	if aid := fci.GetAID(); aid != nil {
	    fmt.Printf("Selected AID: %X\n", aid)
	}
*/
package iso7816
