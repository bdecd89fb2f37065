package model

import (
	"time"
)

// ThreatLevel is the capture pipeline's per-flow classification. It is
// informational to the detection engine and never recomputed here.
type ThreatLevel string

const (
	ThreatSafe     ThreatLevel = "safe"
	ThreatLow      ThreatLevel = "low"
	ThreatMedium   ThreatLevel = "medium"
	ThreatHigh     ThreatLevel = "high"
	ThreatCritical ThreatLevel = "critical"
)

// FlowRecord represents one observed network flow from the capture pipeline.
// Records are immutable once captured; the engine only reads them.
type FlowRecord struct {
	ID          string      `json:"id"`
	DeviceID    string      `json:"device_id"`
	SourceIP    string      `json:"source_ip"`
	DestIP      string      `json:"dest_ip"`
	Protocol    string      `json:"protocol"`
	BytesIn     int64       `json:"bytes_in"`
	BytesOut    int64       `json:"bytes_out"`
	PacketsIn   int64       `json:"packets_in"`
	PacketsOut  int64       `json:"packets_out"`
	Timestamp   int64       `json:"timestamp"` // epoch millis
	ThreatLevel ThreatLevel `json:"threat_level"`
}

// Time returns the flow timestamp as a time.Time in the local zone.
func (f FlowRecord) Time() time.Time {
	return time.UnixMilli(f.Timestamp)
}

// TotalBytes returns bytes in both directions.
func (f FlowRecord) TotalBytes() int64 {
	return f.BytesIn + f.BytesOut
}

// DeviceBehavior carries external behavioral bookkeeping for a device.
// The engine reads it for display only and never writes it.
type DeviceBehavior struct {
	AnomalyCount int `json:"anomaly_count"`
}

// Device represents a network endpoint that originates flows.
type Device struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ThreatScore int            `json:"threat_score"` // 0-100, informational
	Behavioral  DeviceBehavior `json:"behavioral"`
}

// AnomalyType identifies which heuristic produced a finding.
type AnomalyType string

const (
	AnomalyExcessiveBandwidth   AnomalyType = "excessive-bandwidth"
	AnomalyUnusualHours         AnomalyType = "unusual-hours"
	AnomalyPortScan             AnomalyType = "port-scan"
	AnomalyExfiltration         AnomalyType = "exfiltration"
	AnomalyRepetitiveConnection AnomalyType = "repetitive-connection"
)

// Severity is a coarse importance tier for a finding.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical" // reserved for future detectors
)

// Finding is one detector's output: a typed, scored, severity-tagged
// observation about flows or devices in the analyzed window.
type Finding struct {
	ID                string      `json:"id"`
	Type              AnomalyType `json:"type"`
	Severity          Severity    `json:"severity"`
	Score             float64     `json:"score"` // 0-100
	Description       string      `json:"description"`
	Recommendation    string      `json:"recommendation"`
	AffectedDeviceIDs []string    `json:"affected_device_ids"` // unique, detection order
	CorrelationID     string      `json:"correlation_id"`
	Timestamp         time.Time   `json:"timestamp"` // detection time, not flow time
}

// Report is the result of one detection pass over a flow/device snapshot.
type Report struct {
	Findings     []Finding `json:"findings"`
	OverallScore float64   `json:"overall_score"` // 0-100
	FlowCount    int       `json:"flow_count"`
	DeviceCount  int       `json:"device_count"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Snapshot is the input contract handed to the engine: one window of flows
// plus the devices that originated them.
type Snapshot struct {
	Flows   []FlowRecord `json:"flows"`
	Devices []Device     `json:"devices"`
}
