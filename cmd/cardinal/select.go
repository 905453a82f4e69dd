package cardinal

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gregLibert/smart-card/pkg/apdu"
	"github.com/gregLibert/smart-card/pkg/command"
	"github.com/gregLibert/smart-card/pkg/iso7816"
)

var sweepRecords bool

var selectCmd = &cobra.Command{
	Use:   "select <aid-hex>",
	Short: "Select an application by AID and describe the raw FCI/FCP/FMD response",
	Long: `select issues a generic ISO 7816-4 SELECT by DF name (AID) and prints the
parsed FCI/FCP/FMD response. Unlike "cardinal probe", which drives the
EMV-specific directory/application pipeline, this is a raw diagnostic tool
for any selectable application or file, not just EMV payment applications.`,
	Args: cobra.ExactArgs(1),
	RunE: runSelect,
}

func init() {
	selectCmd.Flags().BoolVar(&sweepRecords, "read-records", false,
		"after selecting, sweep every SFI (1..30) and dump all records found")
	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) error {
	aid, err := hex.DecodeString(args[0])
	if err != nil {
		return fmt.Errorf("invalid AID hex: %w", err)
	}

	card, err := connectReader()
	if err != nil {
		return err
	}
	defer card.Close()

	cls, err := apdu.NewClass(0x00)
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}
	client := command.NewClient(card)

	selCmd, err := iso7816.SelectByAID(cls, aid)
	if err != nil {
		return fmt.Errorf("select: building SELECT: %w", err)
	}

	trace, sendErr := client.Send(selCmd)
	if len(trace) == 0 {
		return fmt.Errorf("select: %w", sendErr)
	}

	result, err := iso7816.NewSelectResult(trace)
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}
	fmt.Fprintln(os.Stdout, result.Describe())
	if sendErr != nil {
		return fmt.Errorf("select: %w", sendErr)
	}

	if sweepRecords {
		return sweepAllRecords(client, cls)
	}
	return nil
}

func sweepAllRecords(client *command.Client, cls apdu.Class) error {
	results, err := iso7816.ReadAllRecordsDetailed(client, cls)
	if err != nil {
		return fmt.Errorf("select: sweeping records: %w", err)
	}
	for _, result := range results {
		fmt.Fprintln(os.Stdout, result.Describe())
	}
	return nil
}
