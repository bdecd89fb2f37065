package detect

import (
	"io"
	"log/slog"
	"time"

	"github.com/and3rn3t/net-traffic-sub002/internal/model"
)

var (
	afternoon = time.Date(2024, 3, 12, 14, 0, 0, 0, time.Local)
	nightTime = time.Date(2024, 3, 12, 3, 0, 0, 0, time.Local)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEngine(th Thresholds) *Engine {
	return NewEngine(th, testLogger(), WithClock(func() time.Time { return afternoon }))
}

func flowAt(ts time.Time, deviceID, destIP string, bytesIn, bytesOut, packetsOut int64) model.FlowRecord {
	return model.FlowRecord{
		ID:          deviceID + "-" + destIP,
		DeviceID:    deviceID,
		SourceIP:    "10.0.0.2",
		DestIP:      destIP,
		Protocol:    "tcp",
		BytesIn:     bytesIn,
		BytesOut:    bytesOut,
		PacketsIn:   bytesIn / 100,
		PacketsOut:  packetsOut,
		Timestamp:   ts.UnixMilli(),
		ThreatLevel: model.ThreatSafe,
	}
}

func dayFlow(deviceID, destIP string, bytesIn, bytesOut, packetsOut int64) model.FlowRecord {
	return flowAt(afternoon, deviceID, destIP, bytesIn, bytesOut, packetsOut)
}

func nightFlow(deviceID, destIP string, bytesIn, bytesOut, packetsOut int64) model.FlowRecord {
	return flowAt(nightTime, deviceID, destIP, bytesIn, bytesOut, packetsOut)
}

func testInput(flows []model.FlowRecord, devices []model.Device, th Thresholds) Input {
	byID := make(map[string]model.Device, len(devices))
	for _, dev := range devices {
		byID[dev.ID] = dev
	}
	return Input{
		Flows:      flows,
		Devices:    byID,
		Aggregates: Aggregate(flows, len(devices), th),
		Thresholds: th,
	}
}
