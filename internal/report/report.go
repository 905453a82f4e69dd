// Package report renders a probe.Report either as JSON or as a series of
// go-pretty/v6/table tables, styled the way the example reader renders its
// USIM/ISIM tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/gregLibert/smart-card/pkg/probe"
)

var (
	colorHeader  = text.Colors{text.FgCyan, text.Bold}
	colorLabel   = text.Colors{text.FgYellow}
	colorValue   = text.Colors{text.FgWhite}
	colorWarn    = text.Colors{text.FgYellow}
	colorError   = text.Colors{text.FgRed}
	colorSuccess = text.Colors{text.FgGreen}
)

func getTableStyle() table.Style {
	style := table.StyleRounded
	style.Color.Header = colorHeader
	style.Color.Row = text.Colors{text.FgWhite}
	style.Color.RowAlternate = text.Colors{text.FgHiWhite}
	style.Options.SeparateRows = false
	return style
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(getTableStyle())
	return t
}

// WriteJSON marshals r as indented JSON.
func WriteJSON(w io.Writer, r *probe.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteTables renders r as a sequence of tables: reader/ATR summary, then
// either the EMV application table or the FeliCa system/service/block
// tables, whichever branch ran.
func WriteTables(w io.Writer, r *probe.Report) {
	writeSummaryTable(w, r)

	switch {
	case r.EMV != nil:
		writeEMVTable(w, r.EMV)
	case r.FeliCa != nil:
		writeFeliCaTables(w, r.FeliCa)
	}
}

// PrintError prints a single colored error line.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, colorError.Sprintf("✗ Error: %s", msg))
}

// PrintSuccess prints a single colored success line.
func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, colorSuccess.Sprintf("✓ %s", msg))
}

// PrintWarning prints a single colored warning line.
func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, colorWarn.Sprintf("⚠ %s", msg))
}

// WriteReaderList renders the list of readers available to attach to.
func WriteReaderList(w io.Writer, readers []string) {
	fmt.Fprintln(w)
	t := newTable(w)
	t.SetTitle("AVAILABLE SMART CARD READERS")
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: colorLabel, WidthMin: 8},
		{Number: 2, Colors: colorValue, WidthMin: 50},
	})
	if len(readers) == 0 {
		t.AppendRow(table.Row{"Status", colorWarn.Sprint("No readers found")})
	} else {
		for i, r := range readers {
			t.AppendRow(table.Row{fmt.Sprintf("[%d]", i), r})
		}
	}
	t.Render()
}

func writeSummaryTable(w io.Writer, r *probe.Report) {
	t := newTable(w)
	t.SetTitle("READER & CARD INFO")
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: colorLabel, WidthMin: 18},
		{Number: 2, Colors: colorValue, WidthMin: 50},
	})

	if r.ReaderAttrs.FriendlyName != "" {
		t.AppendRow(table.Row{"Reader", r.ReaderAttrs.FriendlyName})
	}
	if r.ReaderAttrs.VendorName != "" {
		t.AppendRow(table.Row{"Vendor", r.ReaderAttrs.VendorName})
	}
	if len(r.CID) > 0 {
		t.AppendRow(table.Row{"Card ID", fmt.Sprintf("%X", r.CID)})
	}
	t.AppendRow(table.Row{"ATR Convention", r.ATR.TS.Verbose()})
	if r.ATR.HistoricalBytes != nil {
		t.AppendRow(table.Row{"Historical Bytes", fmt.Sprintf("%X", r.ATR.HistoricalBytes.Raw)})
	}
	t.Render()
}

func writeEMVTable(w io.Writer, r *probe.EMVReport) {
	fmt.Fprintln(w)
	t := newTable(w)
	t.SetTitle("EMV APPLICATIONS")
	t.AppendHeader(table.Row{"AID", "Label", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: colorValue, WidthMin: 20},
		{Number: 2, Colors: colorLabel, WidthMin: 20},
		{Number: 3, WidthMin: 30},
	})

	if len(r.Applications) == 0 {
		t.AppendRow(table.Row{"-", "(no applications found)", "-"})
	}
	for _, app := range r.Applications {
		status := "OK"
		if app.Error != nil {
			status = colorError.Sprintf("%v", app.Error)
		}
		t.AppendRow(table.Row{fmt.Sprintf("%X", app.AID), app.Label, status})
	}
	t.Render()
}

func writeFeliCaTables(w io.Writer, r *probe.FeliCaReport) {
	fmt.Fprintln(w)
	if r.LiteS != nil {
		t := newTable(w)
		t.SetTitle("FELICA LITE-S BLOCKS (fallback)")
		t.AppendHeader(table.Row{"Block", "Data"})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Colors: colorLabel, WidthMin: 10},
			{Number: 2, Colors: colorValue, WidthMin: 40},
		})
		for name, data := range r.LiteS.Blocks {
			t.AppendRow(table.Row{name, fmt.Sprintf("%X", data)})
		}
		t.Render()
		return
	}

	t := newTable(w)
	t.SetTitle("FELICA SYSTEMS & SERVICES")
	t.AppendHeader(table.Row{"System", "Service", "Blocks"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: colorLabel, WidthMin: 20},
		{Number: 2, Colors: colorValue, WidthMin: 20},
		{Number: 3, WidthMin: 10},
	})

	if len(r.Systems) == 0 {
		t.AppendRow(table.Row{colorWarn.Sprint("(no systems found)"), "-", "-"})
	}
	for _, sys := range r.Systems {
		if len(sys.Services) == 0 {
			t.AppendRow(table.Row{sys.Code.String(), "-", "0"})
			continue
		}
		for _, svc := range sys.Services {
			t.AppendRow(table.Row{sys.Code.String(), fmt.Sprintf("%04X (%s)", svc.Service.Code, svc.Service.Kind), len(svc.Blocks)})
		}
	}
	t.Render()
}
