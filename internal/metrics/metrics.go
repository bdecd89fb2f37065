package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all the Prometheus metrics for the anomaly engine
type Metrics struct {
	SnapshotsTotal        prometheus.Counter
	SnapshotsInvalidTotal prometheus.Counter
	DetectorRunsTotal     *prometheus.CounterVec
	FindingsTotal         *prometheus.CounterVec
	FindingsDedupedTotal  prometheus.Counter
	PublishErrorsTotal    prometheus.Counter
	DetectionDuration     prometheus.Histogram
	OverallScore          prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all collectors registered
func NewMetrics() *Metrics {
	return &Metrics{
		SnapshotsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "anomaly_snapshots_total",
			Help: "Total number of flow snapshots analyzed",
		}),
		SnapshotsInvalidTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "anomaly_snapshots_invalid_total",
			Help: "Total number of snapshots rejected as unparseable",
		}),
		DetectorRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "anomaly_detector_runs_total",
			Help: "Total number of detector invocations",
		}, []string{"detector"}),
		FindingsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "anomaly_findings_total",
			Help: "Total number of findings generated",
		}, []string{"type"}),
		FindingsDedupedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "anomaly_findings_deduplicated_total",
			Help: "Total number of findings dropped by the store dedupe cache",
		}),
		PublishErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "anomaly_publish_errors_total",
			Help: "Total number of NATS finding publish errors",
		}),
		DetectionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "anomaly_detection_duration_seconds",
			Help:    "Duration of full detection passes",
			Buckets: prometheus.DefBuckets,
		}),
		OverallScore: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "anomaly_overall_score",
			Help: "Overall anomaly score of the most recent detection pass",
		}),
	}
}

// IncSnapshots increments the snapshots counter
func (m *Metrics) IncSnapshots() {
	m.SnapshotsTotal.Inc()
}

// IncSnapshotsInvalid increments the invalid snapshots counter
func (m *Metrics) IncSnapshotsInvalid() {
	m.SnapshotsInvalidTotal.Inc()
}

// IncDetectorRuns increments the run counter for one detector
func (m *Metrics) IncDetectorRuns(detector string) {
	m.DetectorRunsTotal.WithLabelValues(detector).Inc()
}

// IncFindings increments the findings counter for one anomaly type
func (m *Metrics) IncFindings(anomalyType string) {
	m.FindingsTotal.WithLabelValues(anomalyType).Inc()
}

// IncFindingsDeduplicated increments the dedupe drop counter
func (m *Metrics) IncFindingsDeduplicated() {
	m.FindingsDedupedTotal.Inc()
}

// IncPublishErrors increments the publish error counter
func (m *Metrics) IncPublishErrors() {
	m.PublishErrorsTotal.Inc()
}

// ObserveDetectionDuration records the duration of one detection pass
func (m *Metrics) ObserveDetectionDuration(seconds float64) {
	m.DetectionDuration.Observe(seconds)
}

// SetOverallScore records the most recent overall anomaly score
func (m *Metrics) SetOverallScore(score float64) {
	m.OverallScore.Set(score)
}
