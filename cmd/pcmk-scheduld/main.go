package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pcmk-scheduld",
	Short: "Pacemaker scheduler core - computes a transition graph from a CIB",
	Long: `pcmk-scheduld computes a transition graph from a cluster's CIB
configuration and status documents.

The scheduling function itself is pure: given the same configuration_xml,
status_xml and "now", it always produces the same transition graph. This
binary is a thin CLI shell around that function - it reads input, invokes
Schedule, and reports the result.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"pcmk-scheduld version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(historyCmd)
}
