package detect

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/and3rn3t/net-traffic-sub002/internal/metrics"
	"github.com/and3rn3t/net-traffic-sub002/internal/model"
)

// Engine runs the full detection pass: aggregate the flow window, run every
// registered detector against the shared aggregates, normalize severities,
// rank the merged findings, and compute the overall anomaly score.
//
// Analyze is a pure function of its input snapshot and the injected clock; it
// keeps no state between runs, so independent snapshots can be analyzed
// concurrently from separate goroutines.
type Engine struct {
	mu         sync.RWMutex
	thresholds Thresholds
	detectors  []Detector
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics attaches Prometheus metrics to the engine.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides the detection timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithDetectors replaces the default detector set. Order is preserved and
// used for tie-breaking during ranking.
func WithDetectors(detectors []Detector) Option {
	return func(e *Engine) { e.detectors = detectors }
}

// NewEngine creates a detection engine with the default detector set.
func NewEngine(th Thresholds, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		thresholds: th,
		detectors:  defaultDetectors(),
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Thresholds returns the active thresholds.
func (e *Engine) Thresholds() Thresholds {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.thresholds
}

// SetThresholds swaps the active thresholds. In-flight passes keep the
// thresholds they started with; the next pass picks up the new values.
func (e *Engine) SetThresholds(th Thresholds) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.thresholds = th
}

// Analyze runs one detection pass over a flow/device snapshot. Empty input
// yields an empty report with overall score 0, never an error.
func (e *Engine) Analyze(snap model.Snapshot) model.Report {
	start := e.now()
	th := e.Thresholds()

	devices := make(map[string]model.Device, len(snap.Devices))
	for _, dev := range snap.Devices {
		devices[dev.ID] = dev
	}

	in := Input{
		Flows:      snap.Flows,
		Devices:    devices,
		Aggregates: Aggregate(snap.Flows, len(snap.Devices), th),
		Thresholds: th,
	}

	var findings []model.Finding
	for _, det := range e.detectors {
		if e.metrics != nil {
			e.metrics.IncDetectorRuns(det.Name())
		}
		findings = append(findings, e.runDetector(det, in)...)
	}

	for i := range findings {
		f := &findings[i]
		f.Severity = NormalizeSeverity(f.Severity)
		f.Score = clampScore(f.Score)
		f.Timestamp = start
		f.ID = fmt.Sprintf("%s-%s-%d", f.Type, firstDevice(f.AffectedDeviceIDs), i)
		if e.metrics != nil {
			e.metrics.IncFindings(string(f.Type))
		}
	}

	// Stable sort keeps detector declaration order on equal scores.
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Score > findings[j].Score
	})

	report := model.Report{
		Findings:     findings,
		OverallScore: overallScore(findings),
		FlowCount:    len(snap.Flows),
		DeviceCount:  len(snap.Devices),
		GeneratedAt:  start,
	}

	if e.metrics != nil {
		e.metrics.SetOverallScore(report.OverallScore)
		e.metrics.ObserveDetectionDuration(time.Since(start).Seconds())
	}

	e.logger.Debug("Detection pass completed",
		"flows", report.FlowCount,
		"devices", report.DeviceCount,
		"findings", len(report.Findings),
		"overall_score", report.OverallScore)

	return report
}

// runDetector isolates one detector so an internal inconsistency in it
// cannot abort the rest of the pass.
func (e *Engine) runDetector(det Detector, in Input) (findings []model.Finding) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Detector panicked, skipping its findings",
				"detector", det.Name(),
				"panic", r)
			findings = nil
		}
	}()
	return det.Detect(in)
}

// overallScore combines all finding scores into one 0-100 number: the top
// score plus 5 per additional finding, capped at 100. Zero findings score 0,
// and adding findings or raising any score never lowers the result.
func overallScore(findings []model.Finding) float64 {
	if len(findings) == 0 {
		return 0
	}
	max := 0.0
	for _, f := range findings {
		if f.Score > max {
			max = f.Score
		}
	}
	return clampScore(max + 5*float64(len(findings)-1))
}

func firstDevice(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return ids[0]
}
