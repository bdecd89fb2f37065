package detect

import (
	"github.com/and3rn3t/net-traffic-sub002/internal/model"
)

// Input is the shared read-only view handed to every detector: the raw flow
// window, the device inventory keyed by ID, the precomputed aggregates, and
// the active thresholds. Detectors must not modify any of it.
type Input struct {
	Flows      []model.FlowRecord
	Devices    map[string]model.Device
	Aggregates *Aggregates
	Thresholds Thresholds
}

// Detector is one heuristic rule: a pure function over the shared input that
// returns zero or more findings. Implementations are stateless and must be
// safe for concurrent Detect calls across independent inputs.
type Detector interface {
	// Name returns the detector identifier used for logging and metrics.
	Name() string

	// Detect analyzes the window and returns findings with type, severity,
	// score, and affected devices populated. IDs and timestamps are assigned
	// by the engine afterwards.
	Detect(in Input) []model.Finding
}

// defaultDetectors returns the detector set in declaration order. Ranking
// relies on this order for deterministic tie-breaking, so new detectors are
// appended, never inserted.
func defaultDetectors() []Detector {
	return []Detector{
		BandwidthDetector{},
		UnusualHoursDetector{},
		PortScanDetector{},
		ExfiltrationDetector{},
		RepetitiveConnectionDetector{},
	}
}

// DeviceName resolves a device ID to its display name, falling back to
// "Unknown" for flows whose device is absent from the inventory.
func DeviceName(devices map[string]model.Device, id string) string {
	if dev, ok := devices[id]; ok && dev.Name != "" {
		return dev.Name
	}
	return "Unknown"
}
