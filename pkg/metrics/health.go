package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/cuemby/pcmk-scheduler/pkg/diag"
	"github.com/cuemby/pcmk-scheduler/pkg/types"
)

// staleAfter bounds how long a scheduling pass may go unreported before
// the "scheduler" component is treated as unhealthy: pcmk-scheduld's watch
// loop recomputes on every --interval tick, so a live daemon should never
// actually go this long without a pass completing.
const staleAfter = 5 * time.Minute

// HealthStatus represents the health status of a component
type HealthStatus struct {
	Status     string            `json:"status"` // "healthy", "degraded", "unhealthy"
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components,omitempty"`
	Message    string            `json:"message,omitempty"`
	Version    string            `json:"version,omitempty"`
	Uptime     string            `json:"uptime,omitempty"`
	StartTime  time.Time         `json:"-"`
}

var (
	healthChecker = &HealthChecker{
		components: make(map[string]ComponentHealth),
		startTime:  time.Now(),
	}
)

// ComponentHealth tracks the health of a single component
type ComponentHealth struct {
	Name     string
	Healthy  bool
	Degraded bool
	Message  string
	Updated  time.Time
}

// HealthChecker manages health checks for various components
type HealthChecker struct {
	mu         sync.RWMutex
	components map[string]ComponentHealth
	startTime  time.Time
	version    string
}

// SetVersion sets the version string for health responses
func SetVersion(version string) {
	healthChecker.mu.Lock()
	defer healthChecker.mu.Unlock()
	healthChecker.version = version
}

// RegisterComponent registers a component for health checking
func RegisterComponent(name string, healthy bool, message string) {
	healthChecker.mu.Lock()
	defer healthChecker.mu.Unlock()

	healthChecker.components[name] = ComponentHealth{
		Name:    name,
		Healthy: healthy,
		Message: message,
		Updated: time.Now(),
	}
}

// UpdateComponent updates the health status of a component
func UpdateComponent(name string, healthy bool, message string) {
	RegisterComponent(name, healthy, message) // Same implementation
}

// RecordSchedulingPass folds one completed scheduling pass's diagnostics
// into the "scheduler" component: any config-error or error-severity
// diagnostic marks the pass unhealthy (spec.md §7's cycle-abort case), a
// warn-only pass is reported degraded rather than fully healthy, and a
// clean pass clears both. pkg/metrics.Observe calls this once per pass, so
// GetReadiness's staleness check (staleAfter) has a timestamp to compare
// against even when every pass has been clean.
func RecordSchedulingPass(diags []types.Diagnostic) {
	counts := diag.CountBySeverity(diags)
	healthy := counts[types.SeverityError] == 0 && counts[types.SeverityConfigError] == 0
	degraded := counts[types.SeverityWarn] > 0

	message := ""
	switch {
	case !healthy:
		message = "last pass produced an error-or-above diagnostic"
	case degraded:
		message = "last pass produced a warning diagnostic"
	}

	healthChecker.mu.Lock()
	defer healthChecker.mu.Unlock()
	healthChecker.components["scheduler"] = ComponentHealth{
		Name:     "scheduler",
		Healthy:  healthy,
		Degraded: degraded,
		Message:  message,
		Updated:  time.Now(),
	}
}

// GetHealth returns the overall health status
func GetHealth() HealthStatus {
	healthChecker.mu.RLock()
	defer healthChecker.mu.RUnlock()

	status := "healthy"
	components := make(map[string]string)

	for name, comp := range healthChecker.components {
		switch {
		case !comp.Healthy:
			status = "unhealthy"
			components[name] = "unhealthy: " + comp.Message
		case isStale(comp):
			status = "unhealthy"
			components[name] = "unhealthy: no update since " + comp.Updated.Format(time.RFC3339)
		case comp.Degraded:
			if status == "healthy" {
				status = "degraded"
			}
			components[name] = "degraded: " + comp.Message
		default:
			components[name] = "healthy"
		}
	}

	uptime := time.Since(healthChecker.startTime)

	return HealthStatus{
		Status:     status,
		Timestamp:  time.Now(),
		Components: components,
		Version:    healthChecker.version,
		Uptime:     uptime.String(),
		StartTime:  healthChecker.startTime,
	}
}

func isStale(comp ComponentHealth) bool {
	return comp.Name == "scheduler" && time.Since(comp.Updated) > staleAfter
}

// GetReadiness returns readiness status (checks if critical components are ready)
func GetReadiness() HealthStatus {
	healthChecker.mu.RLock()
	defer healthChecker.mu.RUnlock()

	status := "ready"
	message := ""
	components := make(map[string]string)

	// Check critical components: the scheduler must have completed at
	// least one clean-or-degraded pass, and the history store must be
	// writable, before this instance can safely serve traffic.
	criticalComponents := []string{"scheduler", "history"}

	for _, name := range criticalComponents {
		comp, exists := healthChecker.components[name]
		switch {
		case !exists:
			status = "not_ready"
			message = "waiting for " + name + " initialization"
			components[name] = "not registered"
		case !comp.Healthy:
			status = "not_ready"
			message = "waiting for " + name
			components[name] = "not ready: " + comp.Message
		case isStale(comp):
			status = "not_ready"
			message = name + " has not reported in " + staleAfter.String()
			components[name] = "stale"
		default:
			components[name] = "ready"
		}
	}

	uptime := time.Since(healthChecker.startTime)

	return HealthStatus{
		Status:     status,
		Timestamp:  time.Now(),
		Components: components,
		Message:    message,
		Version:    healthChecker.version,
		Uptime:     uptime.String(),
		StartTime:  healthChecker.startTime,
	}
}

// HealthHandler returns an HTTP handler for the /health endpoint
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := GetHealth()

		w.Header().Set("Content-Type", "application/json")

		statusCode := http.StatusOK
		if health.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}
		w.WriteHeader(statusCode)

		_ = json.NewEncoder(w).Encode(health)
	}
}

// ReadyHandler returns an HTTP handler for the /ready endpoint
func ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		readiness := GetReadiness()

		w.Header().Set("Content-Type", "application/json")

		statusCode := http.StatusOK
		if readiness.Status != "ready" {
			statusCode = http.StatusServiceUnavailable
		}
		w.WriteHeader(statusCode)

		_ = json.NewEncoder(w).Encode(readiness)
	}
}

// LivenessHandler returns a simple liveness check (always returns 200 if process is running)
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "alive",
			"uptime": time.Since(healthChecker.startTime).String(),
		})
	}
}
