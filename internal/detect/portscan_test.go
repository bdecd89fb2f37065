package detect

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and3rn3t/net-traffic-sub002/internal/model"
)

func scanFlows(deviceID string, count int) []model.FlowRecord {
	flows := make([]model.FlowRecord, 0, count)
	for i := 0; i < count; i++ {
		flows = append(flows, dayFlow(deviceID, fmt.Sprintf("1.1.1.%d", i%250), 0, 5000, 200))
	}
	return flows
}

func TestPortScanDetector_ScanBurstFires(t *testing.T) {
	th := DefaultThresholds()
	devices := []model.Device{{ID: "dev-a", Name: "Workstation"}}

	findings := PortScanDetector{}.Detect(testInput(scanFlows("dev-a", 30), devices, th))
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, model.AnomalyPortScan, f.Type)
	assert.Equal(t, model.SeverityLow, f.Severity)
	assert.Equal(t, []string{"dev-a"}, f.AffectedDeviceIDs)
}

func TestPortScanDetector_SeverityScalesWithCount(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name     string
		count    int
		severity model.Severity
	}{
		{name: "just above trigger stays low", count: 21, severity: model.SeverityLow},
		{name: "at medium floor stays low", count: 40, severity: model.SeverityLow},
		{name: "above medium floor", count: 41, severity: model.SeverityMedium},
		{name: "above doubled floor", count: 81, severity: model.SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := PortScanDetector{}.Detect(testInput(scanFlows("dev-a", tt.count), nil, th))
			require.Len(t, findings, 1)
			assert.Equal(t, tt.severity, findings[0].Severity)
		})
	}
}

func TestPortScanDetector_FloorIsExclusive(t *testing.T) {
	th := DefaultThresholds()

	findings := PortScanDetector{}.Detect(testInput(scanFlows("dev-a", 20), nil, th))
	assert.Empty(t, findings)
}

func TestPortScanDetector_BulkTransferIsNotScanLike(t *testing.T) {
	th := DefaultThresholds()

	// Many packets but real payload: not probing.
	var flows []model.FlowRecord
	for i := 0; i < 30; i++ {
		flows = append(flows, dayFlow("dev-a", "1.1.1.1", 0, 500_000, 200))
	}

	findings := PortScanDetector{}.Detect(testInput(flows, nil, th))
	assert.Empty(t, findings)
}

func TestPortScanDetector_AffectedDevicesInDetectionOrder(t *testing.T) {
	th := DefaultThresholds()

	flows := append(scanFlows("dev-b", 15), scanFlows("dev-a", 15)...)
	findings := PortScanDetector{}.Detect(testInput(flows, nil, th))
	require.Len(t, findings, 1)
	assert.Equal(t, []string{"dev-b", "dev-a"}, findings[0].AffectedDeviceIDs)
}
