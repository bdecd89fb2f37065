package detect

import (
	"github.com/and3rn3t/net-traffic-sub002/internal/model"
)

// DeviceAggregate holds per-device rollups for one detection pass. Aggregates
// are created fresh on every pass and discarded after ranking.
type DeviceAggregate struct {
	TotalBytes    int64
	FlowCount     int
	DestIPs       map[string]struct{}
	ScanLikeFlows int
}

// PairKey identifies a (device, destination) connection pair.
type PairKey struct {
	DeviceID string
	DestIP   string
}

// Aggregates is the shared rollup every detector consumes. Device and pair
// iteration orders record first appearance in the flow list so detector
// output stays deterministic across runs.
type Aggregates struct {
	Devices      map[string]*DeviceAggregate
	DeviceOrder  []string
	AverageBytes float64
	HourCounts   [24]int
	Pairs        map[PairKey]int
	PairOrder    []PairKey
	TotalFlows   int
}

// Aggregate builds per-device, per-destination, and per-hour summaries from
// the raw flow list in a single O(n) pass. Devices are keyed by the device ID
// carried on each flow; flows without a matching Device record still
// aggregate under their ID.
//
// deviceCount is the size of the device inventory the snapshot was taken
// over. The byte average is distributed across the whole inventory, so idle
// devices pull it down; when the inventory is unknown (zero), the average
// falls back to the devices actually seen in the flows.
func Aggregate(flows []model.FlowRecord, deviceCount int, th Thresholds) *Aggregates {
	agg := &Aggregates{
		Devices: make(map[string]*DeviceAggregate),
		Pairs:   make(map[PairKey]int),
	}

	for _, flow := range flows {
		agg.TotalFlows++

		dev, ok := agg.Devices[flow.DeviceID]
		if !ok {
			dev = &DeviceAggregate{DestIPs: make(map[string]struct{})}
			agg.Devices[flow.DeviceID] = dev
			agg.DeviceOrder = append(agg.DeviceOrder, flow.DeviceID)
		}

		dev.TotalBytes += flow.TotalBytes()
		dev.FlowCount++
		if flow.DestIP != "" {
			dev.DestIPs[flow.DestIP] = struct{}{}
		}
		if flow.PacketsOut > th.ScanPacketsOut && flow.BytesOut < th.ScanMaxBytesOut {
			dev.ScanLikeFlows++
		}

		hour := flow.Time().Hour()
		agg.HourCounts[hour]++

		pair := PairKey{DeviceID: flow.DeviceID, DestIP: flow.DestIP}
		if _, seen := agg.Pairs[pair]; !seen {
			agg.PairOrder = append(agg.PairOrder, pair)
		}
		agg.Pairs[pair]++
	}

	var totalBytes int64
	for _, dev := range agg.Devices {
		totalBytes += dev.TotalBytes
	}
	if deviceCount < 1 {
		deviceCount = len(agg.Devices)
	}
	if deviceCount < 1 {
		deviceCount = 1
	}
	agg.AverageBytes = float64(totalBytes) / float64(deviceCount)

	return agg
}

// NightFlowCount returns how many aggregated flows fall inside the
// [start, end) local-hour window.
func (a *Aggregates) NightFlowCount(startHour, endHour int) int {
	count := 0
	for hour := startHour; hour < endHour && hour < len(a.HourCounts); hour++ {
		if hour >= 0 {
			count += a.HourCounts[hour]
		}
	}
	return count
}
