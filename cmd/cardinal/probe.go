package cardinal

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/gregLibert/smart-card/internal/report"
	"github.com/gregLibert/smart-card/pkg/probe"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Interrogate the card in the selected reader",
	RunE:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	card, err := connectReader()
	if err != nil {
		return err
	}
	defer card.Close()

	if !outputJSON {
		report.PrintSuccess(os.Stdout, fmt.Sprintf("Connected: %s", card.Name()))
	}

	logger := log.New(os.Stderr, "", 0)
	result, err := probe.Run(card, logger)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}

	if outputJSON {
		return report.WriteJSON(os.Stdout, result)
	}
	report.WriteTables(os.Stdout, result)
	return nil
}
