package detect

import (
	"fmt"

	"github.com/and3rn3t/net-traffic-sub002/internal/model"
)

// RepetitiveConnectionDetector flags device/destination pairs with an
// abnormally high connection count, the beaconing pattern of command and
// control channels.
type RepetitiveConnectionDetector struct{}

func (RepetitiveConnectionDetector) Name() string { return "repetitive_connection" }

func (RepetitiveConnectionDetector) Detect(in Input) []model.Finding {
	agg := in.Aggregates

	var findings []model.Finding
	for _, pair := range agg.PairOrder {
		count := agg.Pairs[pair]
		if count < in.Thresholds.RepeatMinFlows {
			continue
		}

		name := DeviceName(in.Devices, pair.DeviceID)
		findings = append(findings, model.Finding{
			Type:     model.AnomalyRepetitiveConnection,
			Severity: model.SeverityLow,
			Score:    clampScore(float64(count)),
			Description: fmt.Sprintf("Device %s connected to %s %d times in this window; possible C&C communication",
				name, pair.DestIP, count),
			Recommendation:    fmt.Sprintf("Check the reputation of %s and whether %s has a legitimate reason to poll it", pair.DestIP, name),
			AffectedDeviceIDs: []string{pair.DeviceID},
		})
	}
	return findings
}
