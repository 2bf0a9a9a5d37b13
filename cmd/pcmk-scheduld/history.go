package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/pcmk-scheduler/pkg/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded past scheduling passes",
	Long: `history lists transition graphs recorded by a prior "run" with
--cfg pointing at a config file that sets history_path. It reads the
bbolt-backed ring buffer directly and never invokes the scheduler.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("path", "", "path to the history.db directory")
	historyCmd.Flags().Int("limit", 20, "maximum number of records to list, newest first")
	_ = historyCmd.MarkFlagRequired("path")
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("path")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.NewBoltStore(path, 0)
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.List(limit)
	if err != nil {
		return err
	}

	for _, rec := range recs {
		fmt.Printf("%s  recorded=%s  actions=%d  diagnostics=%d\n",
			rec.TransitionID, rec.RecordedAt.Format("2006-01-02T15:04:05Z07:00"),
			len(rec.Graph.Actions), len(rec.Diagnostics))
	}
	return nil
}
