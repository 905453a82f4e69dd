package cardinal

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gregLibert/smart-card/internal/report"
	"github.com/gregLibert/smart-card/pkg/transport"
)

var readersCmd = &cobra.Command{
	Use:   "readers",
	Short: "List available PCSC readers",
	RunE:  runReaders,
}

func init() {
	rootCmd.AddCommand(readersCmd)
}

func runReaders(cmd *cobra.Command, args []string) error {
	readers, err := transport.ListReaders()
	if err != nil {
		return fmt.Errorf("failed to list readers: %w", err)
	}
	report.WriteReaderList(os.Stdout, readers)
	return nil
}
