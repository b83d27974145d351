// Package metrics holds the Prometheus instruments of the service. All
// collectors are registered with the default registry and exposed on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	InstallationsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "installations_completed_total",
			Help: "Installations marked complete.",
		})

	CredentialCaptureFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "credential_capture_failures_total",
			Help: "Best-effort credential captures that failed after completion.",
		})

	MetaCleanupFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "site_meta_cleanup_failures_total",
			Help: "Site metadata deletions that failed after the site was removed.",
		})

	StepRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "install_step_runs_total",
			Help: "Install steps executed by the worker, by type and outcome.",
		}, []string{"step_type", "status"})

	OutboxEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_events_total",
			Help: "Outbox events handled by the poller, by event and final status.",
		}, []string{"event", "status"})

	StepRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "install_step_run_seconds",
			Help:    "Time spent executing an install step.",
			Buckets: prometheus.DefBuckets,
		}, []string{"step_type"})
)

func init() {
	prometheus.MustRegister(
		InstallationsCompleted,
		CredentialCaptureFailures,
		MetaCleanupFailures,
		StepRuns,
		OutboxEvents,
		StepRunDuration,
	)
}
