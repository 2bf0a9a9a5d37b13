package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/pcmk-scheduler/pkg/config"
	"github.com/cuemby/pcmk-scheduler/pkg/diag"
	"github.com/cuemby/pcmk-scheduler/pkg/history"
	"github.com/cuemby/pcmk-scheduler/pkg/log"
	"github.com/cuemby/pcmk-scheduler/pkg/metrics"
	"github.com/cuemby/pcmk-scheduler/pkg/scheduler"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute a transition graph from CIB files and print it",
	Long: `run reads configuration_xml and status_xml from disk, computes one
transition graph, and writes it to stdout (or --out). With --watch it
re-reads both files and recomputes on every --interval tick, serving
/metrics and /health in the background until interrupted - useful for
driving this scheduler from a shell loop during development.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("config", "", "path to configuration_xml")
	runCmd.Flags().String("status", "", "path to status_xml")
	runCmd.Flags().String("out", "", "path to write the transition graph XML (default stdout)")
	runCmd.Flags().String("cfg", "", "path to a pcmk-scheduld YAML config file")
	runCmd.Flags().Bool("watch", false, "keep running, recomputing on an interval")
	runCmd.Flags().Duration("interval", 15*time.Second, "recompute interval when --watch is set")
	_ = runCmd.MarkFlagRequired("config")
	_ = runCmd.MarkFlagRequired("status")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("cfg")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	initLogging(cfg)

	configPath, _ := cmd.Flags().GetString("config")
	statusPath, _ := cmd.Flags().GetString("status")
	outPath, _ := cmd.Flags().GetString("out")
	watch, _ := cmd.Flags().GetBool("watch")
	interval, _ := cmd.Flags().GetDuration("interval")

	var hist history.Store
	if cfg.HistoryPath != "" {
		h, err := history.NewBoltStore(cfg.HistoryPath, cfg.HistoryRetain)
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		defer h.Close()
		hist = h
	}

	if !watch {
		return runOnce(configPath, statusPath, outPath, hist)
	}
	return runWatch(configPath, statusPath, outPath, interval, cfg, hist)
}

func runOnce(configPath, statusPath, outPath string, hist history.Store) error {
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

	graphXML, err := scheduler.EncodeGraph(result)
	if err != nil {
		return err
	}
	if err := writeOutput(outPath, graphXML); err != nil {
		return err
	}
	printDiagnostics(result)
	recordHistory(hist, result)
	return nil
}

func runWatch(configPath, statusPath, outPath string, interval time.Duration, cfg *config.Config, hist history.Store) error {
	if interval < cfg.MinRecheckInterval {
		interval = cfg.MinRecheckInterval
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		mux.Handle("/health", metrics.HealthHandler())
		mux.Handle("/ready", metrics.ReadyHandler())
		mux.Handle("/live", metrics.LivenessHandler())
		server := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error(fmt.Sprintf("metrics server stopped: %v", err))
			}
		}()
		defer server.Close()
	}

	metrics.RegisterComponent("api", true, "")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	if err := runOnce(configPath, statusPath, outPath, hist); err != nil {
		log.Error(fmt.Sprintf("scheduling pass failed: %v", err))
	}

	for {
		select {
		case <-ticker.C:
			if err := runOnce(configPath, statusPath, outPath, hist); err != nil {
				log.Error(fmt.Sprintf("scheduling pass failed: %v", err))
			}
		case <-sigCh:
			log.Info("shutting down")
			return nil
		}
	}
}

func writeOutput(outPath string, graphXML []byte) error {
	if outPath == "" {
		_, err := os.Stdout.Write(append(graphXML, '\n'))
		return err
	}
	return os.WriteFile(outPath, graphXML, 0644)
}

func printDiagnostics(result *scheduler.Result) {
	if result == nil {
		return
	}
	for _, d := range diag.SortBySeverity(result.Diagnostics) {
		fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", d.Severity, d.ObjectID, d.Message)
	}
}

func recordHistory(hist history.Store, result *scheduler.Result) {
	if hist == nil || result == nil || result.Graph == nil {
		return
	}
	rec := &history.Record{
		TransitionID: result.Graph.TransitionID,
		RecordedAt:   time.Now(),
		Graph:        result.Graph,
		Diagnostics:  result.Diagnostics,
	}
	if err := hist.Append(rec); err != nil {
		log.Error(fmt.Sprintf("failed to record history: %v", err))
		metrics.UpdateComponent("history", false, err.Error())
		return
	}
	metrics.UpdateComponent("history", true, "")
}

func initLogging(cfg *config.Config) {
	level := log.InfoLevel
	switch cfg.LogLevel {
	case "trace":
		level = log.TraceLevel
	case "debug":
		level = log.DebugLevel
	case "warn":
		level = log.WarnLevel
	case "error":
		level = log.ErrorLevel
	}
	log.Init(log.Config{
		Level:      level,
		JSONOutput: cfg.LogJSON,
		Output:     os.Stdout,
	})
}
