package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "library_manager"

// Migration outcomes used as the "outcome" label.
const (
	OutcomeSuccess  = "success"
	OutcomeDryRun   = "dry_run"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	registerOnce sync.Once

	migrations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "migrations_total",
		Help:      "Total number of migrations by outcome",
	}, []string{"outcome"})
	migrationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "migration_duration_seconds",
		Help:      "Histogram of migration durations in seconds by outcome",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"outcome"})
	syncFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "episode_sync_failures_total",
		Help:      "Episode syncs that failed during a migration",
	})
	tracksDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracks_dropped_total",
		Help:      "Tracks dropped because their tracker could not follow the new source",
	})
	inFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "migrations_in_flight",
		Help:      "Migrations currently running",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(migrations, migrationDuration, syncFailures, tracksDropped, inFlight)
	})
}

func ObserveMigration(outcome string, d time.Duration) {
	migrations.WithLabelValues(outcome).Inc()
	migrationDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func IncSyncFailures()       { syncFailures.Inc() }
func AddTracksDropped(n int) { tracksDropped.Add(float64(n)) }
func MigrationStarted()      { inFlight.Inc() }
func MigrationFinished()     { inFlight.Dec() }
