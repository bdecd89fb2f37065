package detect

import (
	"fmt"

	"github.com/and3rn3t/net-traffic-sub002/internal/model"
)

// PortScanDetector flags windows dominated by scan-like flows: many outbound
// packets carrying almost no payload, the signature of probing rather than
// data transfer.
type PortScanDetector struct{}

func (PortScanDetector) Name() string { return "port_scan" }

func (PortScanDetector) Detect(in Input) []model.Finding {
	agg := in.Aggregates

	total := 0
	var affected []string
	for _, deviceID := range agg.DeviceOrder {
		dev := agg.Devices[deviceID]
		if dev.ScanLikeFlows > 0 {
			total += dev.ScanLikeFlows
			affected = append(affected, deviceID)
		}
	}
	if total <= in.Thresholds.ScanMinFlows {
		return nil
	}

	severity := model.SeverityLow
	switch {
	case total > in.Thresholds.ScanMediumFlows*2:
		severity = model.SeverityHigh
	case total > in.Thresholds.ScanMediumFlows:
		severity = model.SeverityMedium
	}

	return []model.Finding{{
		Type:     model.AnomalyPortScan,
		Severity: severity,
		Score:    clampScore(float64(total) * 2),
		Description: fmt.Sprintf("%d flows show port scan characteristics: over %d outbound packets but under %s transferred",
			total, in.Thresholds.ScanPacketsOut, FormatBytes(in.Thresholds.ScanMaxBytesOut)),
		Recommendation:    "Isolate the scanning devices and check them for malware or unauthorized scanning tools",
		AffectedDeviceIDs: affected,
	}}
}
