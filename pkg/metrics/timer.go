package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Timer measures elapsed wall-clock time for one operation and reports it
// to a Prometheus histogram. Unlike the rest of this package, Timer
// legitimately calls time.Now(): it measures real scheduling-pass latency
// for observability, which is orthogonal to the scheduler's pure-function
// determinism over its (configuration, status, now) inputs.
type Timer struct {
	start time.Time
}

// NewTimer starts a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer started. Safe to call
// more than once; each call reflects the time elapsed up to that call.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed duration, in seconds, on histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(t.Duration().Seconds())
}

// ObserveDurationVec records the elapsed duration, in seconds, on vec
// under the given label value.
func (t *Timer) ObserveDurationVec(vec *prometheus.HistogramVec, label string) {
	vec.WithLabelValues(label).Observe(t.Duration().Seconds())
}
