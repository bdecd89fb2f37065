package detect

import (
	"fmt"

	"github.com/and3rn3t/net-traffic-sub002/internal/model"
)

// UnusualHoursDetector flags traffic concentrated in the overnight window
// when most devices should be idle. It fires when the night-flow count
// exceeds both an absolute floor and a fraction of the whole window, so a
// handful of scheduled jobs on a quiet network does not page anyone.
type UnusualHoursDetector struct{}

func (UnusualHoursDetector) Name() string { return "unusual_hours" }

func (UnusualHoursDetector) Detect(in Input) []model.Finding {
	agg := in.Aggregates
	if agg.TotalFlows == 0 {
		return nil
	}

	nightCount := agg.NightFlowCount(in.Thresholds.NightStartHour, in.Thresholds.NightEndHour)
	floor := in.Thresholds.NightMinFlows
	if fractional := int(in.Thresholds.NightFlowFraction * float64(agg.TotalFlows)); fractional > floor {
		floor = fractional
	}
	if nightCount <= floor {
		return nil
	}

	// Devices that contributed night flows, in flow order.
	var affected []string
	seen := make(map[string]struct{})
	for _, flow := range in.Flows {
		hour := flow.Time().Hour()
		if hour < in.Thresholds.NightStartHour || hour >= in.Thresholds.NightEndHour {
			continue
		}
		if _, ok := seen[flow.DeviceID]; ok {
			continue
		}
		seen[flow.DeviceID] = struct{}{}
		affected = append(affected, flow.DeviceID)
	}

	pct := float64(nightCount) / float64(agg.TotalFlows) * 100
	window := fmt.Sprintf("%dAM-%dAM", in.Thresholds.NightStartHour, in.Thresholds.NightEndHour)
	return []model.Finding{{
		Type:     model.AnomalyUnusualHours,
		Severity: model.SeverityLow,
		Score:    clampScore(pct * 2),
		Description: fmt.Sprintf("%d flows (%.0f%% of the window) occurred between %s when the network is normally quiet",
			nightCount, pct, window),
		Recommendation:    "Check whether overnight activity matches scheduled backups or updates",
		AffectedDeviceIDs: affected,
	}}
}
