package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/and3rn3t/net-traffic-sub002/internal/model"
)

func TestAggregate_PerDeviceRollups(t *testing.T) {
	th := DefaultThresholds()
	flows := []model.FlowRecord{
		dayFlow("dev-a", "1.1.1.1", 1000, 2000, 10),
		dayFlow("dev-a", "1.1.1.2", 500, 500, 10),
		dayFlow("dev-b", "1.1.1.1", 100, 100, 10),
	}

	agg := Aggregate(flows, 2, th)

	assert.Equal(t, 3, agg.TotalFlows)
	assert.Len(t, agg.Devices, 2)
	assert.Equal(t, []string{"dev-a", "dev-b"}, agg.DeviceOrder)

	devA := agg.Devices["dev-a"]
	assert.Equal(t, int64(4000), devA.TotalBytes)
	assert.Equal(t, 2, devA.FlowCount)
	assert.Len(t, devA.DestIPs, 2)

	// (4000 + 200) / 2 devices
	assert.InDelta(t, 2100.0, agg.AverageBytes, 0.001)
}

func TestAggregate_AverageFallsBackToActiveDevices(t *testing.T) {
	flows := []model.FlowRecord{
		dayFlow("dev-a", "1.1.1.1", 0, 1000, 10),
		dayFlow("dev-b", "1.1.1.1", 0, 3000, 10),
	}

	// Unknown inventory size: distribute over the two devices seen in flows.
	agg := Aggregate(flows, 0, DefaultThresholds())
	assert.InDelta(t, 2000.0, agg.AverageBytes, 0.001)
}

func TestAggregate_EmptyFlows(t *testing.T) {
	agg := Aggregate(nil, 0, DefaultThresholds())

	assert.Equal(t, 0, agg.TotalFlows)
	assert.Empty(t, agg.Devices)
	assert.Equal(t, 0.0, agg.AverageBytes)
}

func TestAggregate_ScanLikeFlowCount(t *testing.T) {
	th := DefaultThresholds()
	flows := []model.FlowRecord{
		dayFlow("dev-a", "1.1.1.1", 0, 5000, 200),  // scan-like
		dayFlow("dev-a", "1.1.1.2", 0, 50000, 200), // too many bytes
		dayFlow("dev-a", "1.1.1.3", 0, 5000, 50),   // too few packets
	}

	agg := Aggregate(flows, 1, th)
	assert.Equal(t, 1, agg.Devices["dev-a"].ScanLikeFlows)
}

func TestAggregate_HourCountsAndPairs(t *testing.T) {
	th := DefaultThresholds()
	flows := []model.FlowRecord{
		nightFlow("dev-a", "9.9.9.9", 100, 100, 1),
		nightFlow("dev-a", "9.9.9.9", 100, 100, 1),
		dayFlow("dev-a", "9.9.9.9", 100, 100, 1),
	}

	agg := Aggregate(flows, 1, th)

	assert.Equal(t, 2, agg.NightFlowCount(th.NightStartHour, th.NightEndHour))
	assert.Equal(t, 3, agg.Pairs[PairKey{DeviceID: "dev-a", DestIP: "9.9.9.9"}])
	assert.Equal(t, []PairKey{{DeviceID: "dev-a", DestIP: "9.9.9.9"}}, agg.PairOrder)
}

func TestAggregate_OrphanFlowsAggregateByID(t *testing.T) {
	flows := []model.FlowRecord{
		dayFlow("ghost", "1.1.1.1", 100, 100, 1),
	}

	agg := Aggregate(flows, 0, DefaultThresholds())
	assert.Contains(t, agg.Devices, "ghost")
}
