package detect

import (
	"fmt"

	"github.com/and3rn3t/net-traffic-sub002/internal/model"
)

// ExfiltrationDetector flags individual large flows whose upload volume dwarfs
// their download volume. Findings are emitted per offending flow so each
// suspicious transfer surfaces separately.
type ExfiltrationDetector struct{}

func (ExfiltrationDetector) Name() string { return "exfiltration" }

func (ExfiltrationDetector) Detect(in Input) []model.Finding {
	var findings []model.Finding
	for _, flow := range in.Flows {
		if flow.BytesOut <= in.Thresholds.ExfilMinBytesOut {
			continue
		}
		bytesIn := flow.BytesIn
		if bytesIn < 1 {
			bytesIn = 1
		}
		ratio := float64(flow.BytesOut) / float64(bytesIn)
		if ratio <= in.Thresholds.ExfilRatio {
			continue
		}

		name := DeviceName(in.Devices, flow.DeviceID)
		findings = append(findings, model.Finding{
			Type:     model.AnomalyExfiltration,
			Severity: model.SeverityHigh,
			Score:    clampScore(ratio * 5),
			Description: fmt.Sprintf("Device %s uploaded %s to %s with an unusual upload/download ratio of %.1f:1",
				name, FormatBytes(flow.BytesOut), flow.DestIP, ratio),
			Recommendation:    fmt.Sprintf("Verify whether %s should be uploading this much data; large asymmetric transfers can indicate data exfiltration", name),
			AffectedDeviceIDs: []string{flow.DeviceID},
		})
	}
	return findings
}
