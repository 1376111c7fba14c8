package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "sitecheck"

	metricLabelHandler  = "handler"
	metricLabelStatus   = "status"
	metricLabelSource   = "source"
	metricLabelKind     = "kind"
	metricLabelOutcome  = "outcome"
	metricLabelSeverity = "severity"
)

// Metrics is the structure that holds all prometheus metrics
var (
	// ServiceRequestCounter count the number of requests for each handler
	ServiceRequestCounter = newCounterVec(
		"service_request_count",
		"Count of requests for each handler",
		metricLabelHandler, metricLabelStatus, metricLabelSource,
	)
	// ServiceRequestDuration observe the duration of requests for each handler
	ServiceRequestDuration = newSummaryVec(
		"service_request_duration_seconds",
		"Seconds to execute a handler and write its response",
		metricLabelHandler, metricLabelStatus, metricLabelSource,
	)
	// UpdatesCompletedCounter count the number of successful bundle updates
	UpdatesCompletedCounter = newCounterVec(
		"updates_completed_count",
		"Number of updates that were successfully completed",
	)
	// UpdatesFailedCounter count the number of updates that had an error
	UpdatesFailedCounter = newCounterVec(
		"updates_failed_count",
		"Number of updates that failed due to an error",
	)
	// UpdateDuration observe the duration of each repo.update() call
	UpdateDuration = newSummaryVec(
		"update_duration_seconds",
		"Duration in seconds for each repo.update() call",
	)
	// HistoryPersistFailedCounter count the number of failed attempts to persist the bundle history
	HistoryPersistFailedCounter = newCounterVec(
		"history_persist_failed_count",
		"Number of failures to store the bundle history",
	)
	// SnapshotNodesGauge number of page nodes of the current bundle
	SnapshotNodesGauge = newGaugeVec(
		"snapshot_nodes",
		"Number of page nodes in the current bundle",
	)
	// ValidationRunCounter count validation runs by resulting status
	ValidationRunCounter = newCounterVec(
		"validation_run_count",
		"Number of validation runs by resulting status",
		metricLabelStatus,
	)
	// ValidationIssuesGauge number of errors and warnings of the last validation run
	ValidationIssuesGauge = newGaugeVec(
		"validation_issues",
		"Number of issues found by the last validation run",
		metricLabelSeverity,
	)
	// ValidationHealthScoreGauge health score of the last validation run
	ValidationHealthScoreGauge = newGaugeVec(
		"validation_health_score",
		"Health score (0-100) of the last validation run",
	)
	// ProbeCounter count reachability probes
	ProbeCounter = newCounterVec(
		"probe_count",
		"Number of reachability probes by kind and outcome",
		metricLabelKind, metricLabelOutcome,
	)
	// ProbeDuration observe the duration of reachability probes
	ProbeDuration = newSummaryVec(
		"probe_duration_seconds",
		"Duration in seconds of reachability probes",
		metricLabelKind,
	)
)

func newSummaryVec(name, help string, labels ...string) *prometheus.SummaryVec {
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newGaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	vec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}
