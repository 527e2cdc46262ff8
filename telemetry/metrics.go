// Package telemetry provides Prometheus metrics, OpenTelemetry tracing
// setup, and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	CommandsResolved     prometheus.Counter
	PermissionRejections prometheus.Counter
	CooldownRejections   prometheus.Counter
	MutationsApplied     prometheus.Counter
	MilestonesCrossed    prometheus.Counter
	RepliesSent          prometheus.Counter
	NotifyFailures       *prometheus.CounterVec

	// Histograms (seconds)
	ProcessDuration prometheus.Observer

	// Gauges
	CooldownEntriesGauge prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		CommandsResolved = promauto.NewCounter(prometheus.CounterOpts{Name: "tally_commands_resolved_total", Help: "Chat messages resolved to a command"})
		PermissionRejections = promauto.NewCounter(prometheus.CounterOpts{Name: "tally_permission_rejections_total", Help: "Commands rejected by the permission gate"})
		CooldownRejections = promauto.NewCounter(prometheus.CounterOpts{Name: "tally_cooldown_rejections_total", Help: "Commands rejected by the cooldown tracker"})
		MutationsApplied = promauto.NewCounter(prometheus.CounterOpts{Name: "tally_mutations_applied_total", Help: "Counter mutations persisted"})
		MilestonesCrossed = promauto.NewCounter(prometheus.CounterOpts{Name: "tally_milestones_crossed_total", Help: "Milestone thresholds crossed"})
		RepliesSent = promauto.NewCounter(prometheus.CounterOpts{Name: "tally_replies_sent_total", Help: "Chat replies rendered and sent"})
		NotifyFailures = promauto.NewCounterVec(prometheus.CounterOpts{Name: "tally_notify_failures_total", Help: "Notification sink delivery failures"}, []string{"sink"})
		ProcessDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "tally_process_duration_seconds", Help: "Per-message pipeline duration seconds", Buckets: prometheus.DefBuckets})
		CooldownEntriesGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "tally_cooldown_entries", Help: "Live entries in the cooldown map"})
	})
}

// SetCooldownEntries records the current cooldown map size.
func SetCooldownEntries(n int) {
	if CooldownEntriesGauge != nil {
		CooldownEntriesGauge.Set(float64(n))
	}
}

// TimeFunc measures the duration of fn and records it in obs if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

// Correlation ID helpers ----------------------------------------------------

type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a context carrying the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns the correlation id or an empty string.
func GetCorrelation(ctx context.Context) string {
	if s, ok := ctx.Value(corrKey).(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with a corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
