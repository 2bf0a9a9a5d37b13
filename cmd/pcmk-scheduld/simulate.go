package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/pcmk-scheduler/pkg/config"
	"github.com/cuemby/pcmk-scheduler/pkg/diag"
	"github.com/cuemby/pcmk-scheduler/pkg/scheduler"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Compute a transition graph without serving metrics or writing history",
	Long: `simulate runs one scheduling pass over the given CIB files and
prints a human-readable summary plus diagnostics. It starts no servers and
touches no history file - the tool for "what would happen if I applied
this CIB document right now", e.g. in a CI check against a candidate
configuration_xml.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().String("config", "", "path to configuration_xml")
	simulateCmd.Flags().String("status", "", "path to status_xml")
	simulateCmd.Flags().Bool("xml", false, "print the transition graph XML instead of a summary")
	_ = simulateCmd.MarkFlagRequired("config")
	_ = simulateCmd.MarkFlagRequired("status")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	initLogging(cfg)

	configPath, _ := cmd.Flags().GetString("config")
	statusPath, _ := cmd.Flags().GetString("status")
	asXML, _ := cmd.Flags().GetBool("xml")

	configXML, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", configPath, err)
	}
	statusXML, err := os.ReadFile(statusPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", statusPath, err)
	}

	result, err := scheduler.Schedule(configXML, statusXML, time.Now())
	if err != nil {
		printDiagnostics(result)
		return err
	}

	if asXML {
		graphXML, err := scheduler.EncodeGraph(result)
		if err != nil {
			return err
		}
		fmt.Println(string(graphXML))
		return nil
	}

	fmt.Printf("transition %s: %d action(s), next recheck at %s\n",
		result.Graph.TransitionID, len(result.Graph.Actions), result.NextRecheck.Format(time.RFC3339))
	for _, a := range result.Graph.Actions {
		fmt.Printf("  %-12s %-20s node=%s pseudo=%v\n", a.Task, a.ResourceID, a.Node, a.Pseudo)
	}
	if errs := diag.SortBySeverity(result.Diagnostics); len(errs) > 0 {
		fmt.Println("diagnostics:")
		for _, d := range errs {
			fmt.Printf("  [%s] %s: %s\n", d.Severity, d.ObjectID, d.Message)
		}
	}
	if diag.HasErrors(result.Diagnostics) {
		return fmt.Errorf("simulate: configuration_xml produced at least one error-or-above diagnostic")
	}
	return nil
}
