/*
Package log provides structured logging for the scheduler using zerolog.

The log package wraps zerolog to provide JSON-structured logging with
component-specific loggers, configurable log levels, and helper functions
for common logging patterns. All logs include timestamps and support
filtering by severity level for production debugging.

# Architecture

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │            Global Logger                    │          │
	│  │  - Zerolog instance                         │          │
	│  │  - Initialized via log.Init()               │          │
	│  │  - Thread-safe for concurrent use           │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Configuration                     │          │
	│  │  - Level: trace/debug/info/warn/error       │          │
	│  │  - Format: JSON or console (human)          │          │
	│  │  - Output: stdout, file, or custom writer   │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │         Context Loggers                     │          │
	│  │  - WithComponent("scheduler")               │          │
	│  │  - WithNodeID("node1")                      │          │
	│  │  - WithResourceID("rsc1")                   │          │
	│  │  - WithActionID(42)                         │          │
	│  │  - WithConstraintID("loc1")                 │          │
	│  │  - WithTransitionID(uuid)                   │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │            Log Output                       │          │
	│  │                                              │          │
	│  │  JSON Format:                               │          │
	│  │  {                                           │          │
	│  │    "level": "info",                         │          │
	│  │    "component": "scheduler",                │          │
	│  │    "time": "2026-08-02T12:00:00Z",         │          │
	│  │    "message": "scheduling pass complete"    │          │
	│  │  }                                           │          │
	│  │                                              │          │
	│  │  Console Format:                            │          │
	│  │  12:00PM INF scheduling pass complete component=scheduler │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Core Components

Global Logger:
  - Package-level zerolog.Logger instance
  - Initialized once via log.Init()
  - Accessible from all packages
  - Thread-safe concurrent writes

Log Levels:
  - Trace: Per-rule / per-node scoring detail
  - Debug: Detailed decision tracing
  - Info: General informational messages (one line per scheduling pass)
  - Warn: Warning messages (recoverable config errors)
  - Error: Error messages (invariant violations, decode failures)
  - Fatal: Critical errors (process exits)

Context Loggers:
  - WithComponent: Add component name to all logs
  - WithNodeID: Add node ID context
  - WithResourceID: Add resource ID context
  - WithActionID: Add transition-graph action ID context
  - WithConstraintID: Add constraint ID context
  - WithTransitionID: Add transition ID context

# Usage

Initializing the Logger:

	import "github.com/cuemby/pcmk-scheduler/pkg/log"

	// JSON output (production)
	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

	// Console output (development)
	log.Init(log.Config{
		Level:      log.DebugLevel,
		JSONOutput: false,
		Output:     os.Stdout,
	})

Simple Logging:

	log.Info("scheduling pass complete")
	log.Debug("evaluating rule tree")
	log.Warn("unsupported feature ignored")
	log.Error("decode failed")
	log.Fatal("cannot start without a config file") // exits process

Structured Logging:

	log.Logger.Info().
		Str("resource_id", "rsc1").
		Int("actions", 3).
		Msg("resource allocated")

	log.Logger.Error().
		Err(err).
		Str("constraint_id", "loc1").
		Msg("constraint failed to unpack")

Component and Context Loggers:

	schedLog := log.WithComponent("scheduler")
	schedLog.Info().Msg("scheduling pass starting")

	rscLog := log.WithResourceID("rsc1")
	rscLog.Debug().Str("node_id", "node1").Msg("candidate scored")

	txLog := log.WithTransitionID(ws.TransitionID)
	txLog.Info().Int("actions", len(graph.Actions)).Msg("scheduling pass complete")

# Integration Points

This package integrates with:

  - pkg/scheduler: logs the end of every scheduling pass, every
    config-error or error diagnostic the pass produced, and an ordering
    cycle; it is the only pipeline package that logs
  - cmd/pcmk-scheduld: initializes the logger from pkg/config before any
    other package runs

Every config-error Diagnostic a scheduling pass produces (spec.md §7) is
both appended to the pure function's returned Diagnostics slice and
emitted as a warn/error log line through this package - the structural
return value is authoritative, the log line is for humans watching the
process.

# Log Output Examples

JSON Format (production):

	{"level":"info","component":"scheduler","transition_id":"a1b2","time":"2026-08-02T12:00:00Z","message":"scheduling pass complete"}
	{"level":"warn","constraint_id":"loc1","time":"2026-08-02T12:00:00Z","message":"rule references unknown attribute"}
	{"level":"error","component":"cib","time":"2026-08-02T12:00:00Z","message":"malformed status_xml"}

Console Format (development):

	12:00:00 INF scheduling pass complete component=scheduler transition_id=a1b2
	12:00:00 WRN rule references unknown attribute constraint_id=loc1
	12:00:00 ERR malformed status_xml component=cib

# Design Patterns

Global Logger Pattern:
  - Single package-level Logger instance, initialized once at startup
  - Accessible from all packages without passing a logger through call chains

Context Logger Pattern:
  - Create child loggers with context fields, pass them down instead of
    repeating fields at every call site

Structured Logging Pattern:
  - Typed fields (.Str, .Int, .Err) instead of string concatenation,
    parseable by log aggregation tools

# Security

Log Content:
  - Never log full CIB documents at info level - they may carry
    operator-supplied attribute values. Use debug/trace, and only
    resource/constraint IDs at info.

# See Also

  - Zerolog documentation: https://github.com/rs/zerolog
  - Structured logging: https://www.thoughtworks.com/radar/techniques/structured-logging
*/
package log
