package detect

// Thresholds collects every tunable constant the detectors use. Detectors
// read thresholds only through their Input; there are no package-level
// tunables.
type Thresholds struct {
	// Excessive bandwidth: a device fires above BandwidthRatio times the
	// per-device average, escalating to high above BandwidthHighRatio times.
	BandwidthRatio      float64 `yaml:"bandwidth_ratio" json:"bandwidth_ratio"`
	BandwidthHighRatio  float64 `yaml:"bandwidth_high_ratio" json:"bandwidth_high_ratio"`
	BandwidthScoreScale float64 `yaml:"bandwidth_score_scale" json:"bandwidth_score_scale"`

	// Unusual hours: the night window is [NightStartHour, NightEndHour) in
	// local time. The detector fires when the night-flow count exceeds both
	// NightMinFlows and NightFlowFraction of all flows.
	NightStartHour    int     `yaml:"night_start_hour" json:"night_start_hour"`
	NightEndHour      int     `yaml:"night_end_hour" json:"night_end_hour"`
	NightMinFlows     int     `yaml:"night_min_flows" json:"night_min_flows"`
	NightFlowFraction float64 `yaml:"night_flow_fraction" json:"night_flow_fraction"`

	// Port scan: a flow is scan-like when PacketsOut exceeds ScanPacketsOut
	// while BytesOut stays under ScanMaxBytesOut. The detector fires above
	// ScanMinFlows scan-like flows, escalating at ScanMediumFlows and double
	// that count.
	ScanPacketsOut  int64 `yaml:"scan_packets_out" json:"scan_packets_out"`
	ScanMaxBytesOut int64 `yaml:"scan_max_bytes_out" json:"scan_max_bytes_out"`
	ScanMinFlows    int   `yaml:"scan_min_flows" json:"scan_min_flows"`
	ScanMediumFlows int   `yaml:"scan_medium_flows" json:"scan_medium_flows"`

	// Exfiltration: a flow fires when bytesOut/max(bytesIn,1) exceeds
	// ExfilRatio and BytesOut itself exceeds ExfilMinBytesOut.
	ExfilRatio       float64 `yaml:"exfil_ratio" json:"exfil_ratio"`
	ExfilMinBytesOut int64   `yaml:"exfil_min_bytes_out" json:"exfil_min_bytes_out"`

	// Repetitive connection: a (device, destination) pair fires at
	// RepeatMinFlows flows or more.
	RepeatMinFlows int `yaml:"repeat_min_flows" json:"repeat_min_flows"`

	// DisplayDeviceCap limits how many device names the presentation layer
	// spells out before collapsing to a "+N more" suffix.
	DisplayDeviceCap int `yaml:"display_device_cap" json:"display_device_cap"`
}

// DefaultThresholds returns the reference detection thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BandwidthRatio:      2.5,
		BandwidthHighRatio:  5.0,
		BandwidthScoreScale: 20.0,
		NightStartHour:      2,
		NightEndHour:        5,
		NightMinFlows:       20,
		NightFlowFraction:   0.15,
		ScanPacketsOut:      100,
		ScanMaxBytesOut:     10_000,
		ScanMinFlows:        20,
		ScanMediumFlows:     40,
		ExfilRatio:          5.0,
		ExfilMinBytesOut:    10_000_000,
		RepeatMinFlows:      50,
		DisplayDeviceCap:    3,
	}
}
