package detect

import (
	"fmt"

	"github.com/and3rn3t/net-traffic-sub002/internal/model"
)

// BandwidthDetector flags devices whose total transferred bytes stand far
// above the per-device average for the window. With a single active device
// the average equals that device's own total, so the detector never fires.
type BandwidthDetector struct{}

func (BandwidthDetector) Name() string { return "excessive_bandwidth" }

func (BandwidthDetector) Detect(in Input) []model.Finding {
	agg := in.Aggregates
	if agg.AverageBytes <= 0 {
		return nil
	}

	var findings []model.Finding
	for _, deviceID := range agg.DeviceOrder {
		dev := agg.Devices[deviceID]
		ratio := float64(dev.TotalBytes) / agg.AverageBytes
		if ratio <= in.Thresholds.BandwidthRatio {
			continue
		}

		severity := model.SeverityMedium
		if ratio > in.Thresholds.BandwidthHighRatio {
			severity = model.SeverityHigh
		}

		name := DeviceName(in.Devices, deviceID)
		findings = append(findings, model.Finding{
			Type:     model.AnomalyExcessiveBandwidth,
			Severity: severity,
			Score:    clampScore(ratio * in.Thresholds.BandwidthScoreScale),
			Description: fmt.Sprintf("Device %s transferred %s across %d flows, %.1fx the per-device average of %s",
				name, FormatBytes(dev.TotalBytes), dev.FlowCount, ratio, FormatBytes(int64(agg.AverageBytes))),
			Recommendation:    fmt.Sprintf("Review what %s is transferring and whether the volume is expected for this device", name),
			AffectedDeviceIDs: []string{deviceID},
		})
	}

	return findings
}
