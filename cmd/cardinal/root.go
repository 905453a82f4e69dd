// Package cardinal implements the cardinal command line tool: connect to a
// PCSC reader, run the probe pipeline against whatever card is present, and
// render the result as tables or JSON.
package cardinal

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gregLibert/smart-card/internal/report"
	"github.com/gregLibert/smart-card/pkg/transport"
)

var (
	version = "0.1.0"

	readerIndex int
	outputJSON  bool
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "cardinal",
	Short: "Smart card interrogation toolkit",
	Long: `cardinal v` + version + `
Identify and interrogate a smart card through a PCSC reader.

Supports contact EMV payment applications (PSE/AID discovery and SELECT)
and contactless FeliCa cards (system/service/block enumeration, with a
FeliCa Lite-S fallback).`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&readerIndex, "reader", "r", -1,
		"reader index (use 'cardinal readers' to list available readers)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false,
		"output in JSON format")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0,
		"reader/card call timeout (accepted but not applied: the PCSC transport has no per-call deadline)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// connectReader connects to the reader named by readerIndex, auto-selecting
// it when exactly one reader is attached and none was specified.
func connectReader() (*transport.Card, error) {
	if readerIndex < 0 {
		readers, err := transport.ListReaders()
		if err != nil {
			return nil, fmt.Errorf("failed to list readers: %w", err)
		}
		if len(readers) == 0 {
			return nil, fmt.Errorf("no smart card readers found")
		}
		if len(readers) == 1 {
			readerIndex = 0
			if !outputJSON {
				report.PrintSuccess(os.Stdout, fmt.Sprintf("Auto-selected reader: %s", readers[0]))
			}
		} else {
			report.WriteReaderList(os.Stdout, readers)
			return nil, fmt.Errorf("multiple readers found, use -r <index> to select one")
		}
	}

	card, err := transport.Connect(readerIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return card, nil
}
