package detect

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and3rn3t/net-traffic-sub002/internal/model"
)

func TestEngine_EmptyInputYieldsEmptyReport(t *testing.T) {
	engine := testEngine(DefaultThresholds())

	tests := []struct {
		name string
		snap model.Snapshot
	}{
		{name: "no flows no devices", snap: model.Snapshot{}},
		{name: "devices without flows", snap: model.Snapshot{
			Devices: []model.Device{{ID: "dev-a", Name: "Idle"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := engine.Analyze(tt.snap)
			assert.Empty(t, report.Findings)
			assert.Equal(t, 0.0, report.OverallScore)
		})
	}
}

func TestEngine_FindingsSortedByDescendingScore(t *testing.T) {
	engine := testEngine(DefaultThresholds())

	// Trigger several detectors at once: a beaconing device, a scanning
	// device, and one large asymmetric upload.
	var flows []model.FlowRecord
	flows = append(flows, repeatFlows("dev-a", "192.168.1.100", 60)...)
	flows = append(flows, scanFlows("dev-b", 30)...)
	flows = append(flows, dayFlow("dev-c", "203.0.113.9", 1_000_000, 20_000_000, 100))

	report := engine.Analyze(model.Snapshot{
		Flows: flows,
		Devices: []model.Device{
			{ID: "dev-a", Name: "Thermostat"},
			{ID: "dev-b", Name: "Workstation"},
			{ID: "dev-c", Name: "File Server"},
		},
	})

	require.NotEmpty(t, report.Findings)
	assert.True(t, sort.SliceIsSorted(report.Findings, func(i, j int) bool {
		return report.Findings[i].Score > report.Findings[j].Score
	}))

	types := make(map[model.AnomalyType]bool)
	for _, f := range report.Findings {
		types[f.Type] = true
	}
	assert.True(t, types[model.AnomalyRepetitiveConnection])
	assert.True(t, types[model.AnomalyPortScan])
	assert.True(t, types[model.AnomalyExfiltration])
}

func TestEngine_DeterministicAcrossRuns(t *testing.T) {
	snap := model.Snapshot{
		Flows: append(
			append(repeatFlows("dev-a", "192.168.1.100", 55), scanFlows("dev-b", 45)...),
			dayFlow("dev-c", "203.0.113.9", 1_000_000, 20_000_000, 100),
		),
		Devices: []model.Device{
			{ID: "dev-a", Name: "Thermostat"},
			{ID: "dev-b", Name: "Workstation"},
			{ID: "dev-c", Name: "File Server"},
		},
	}

	engine := testEngine(DefaultThresholds())
	first, err := json.Marshal(engine.Analyze(snap))
	require.NoError(t, err)
	second, err := json.Marshal(engine.Analyze(snap))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestEngine_OverallScoreMonotonic(t *testing.T) {
	tests := []struct {
		name     string
		findings []model.Finding
		expected float64
	}{
		{name: "no findings", findings: nil, expected: 0},
		{name: "single finding is its score", findings: []model.Finding{{Score: 40}}, expected: 40},
		{
			name:     "additional findings add weight",
			findings: []model.Finding{{Score: 40}, {Score: 10}, {Score: 5}},
			expected: 50,
		},
		{
			name:     "capped at 100",
			findings: []model.Finding{{Score: 100}, {Score: 90}},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, overallScore(tt.findings))
		})
	}
}

func TestEngine_OverallScoreReflectsFindings(t *testing.T) {
	engine := testEngine(DefaultThresholds())

	quiet := engine.Analyze(model.Snapshot{
		Flows:   []model.FlowRecord{dayFlow("dev-a", "1.1.1.1", 1000, 1000, 1)},
		Devices: []model.Device{{ID: "dev-a"}, {ID: "dev-b"}},
	})
	assert.Equal(t, 0.0, quiet.OverallScore)

	noisy := engine.Analyze(model.Snapshot{
		Flows:   repeatFlows("dev-a", "192.168.1.100", 80),
		Devices: []model.Device{{ID: "dev-a"}},
	})
	assert.Greater(t, noisy.OverallScore, quiet.OverallScore)
}

type panickyDetector struct{}

func (panickyDetector) Name() string { return "panicky" }
func (panickyDetector) Detect(in Input) []model.Finding {
	panic("internal inconsistency")
}

func TestEngine_DetectorPanicDoesNotAbortOthers(t *testing.T) {
	detectors := append([]Detector{panickyDetector{}}, defaultDetectors()...)
	engine := NewEngine(DefaultThresholds(), testLogger(), WithDetectors(detectors))

	report := engine.Analyze(model.Snapshot{
		Flows:   repeatFlows("dev-a", "192.168.1.100", 60),
		Devices: []model.Device{{ID: "dev-a", Name: "Thermostat"}},
	})

	require.Len(t, report.Findings, 1)
	assert.Equal(t, model.AnomalyRepetitiveConnection, report.Findings[0].Type)
}

func TestEngine_TiesKeepDetectorDeclarationOrder(t *testing.T) {
	// Two findings with equal scores: one scan burst and one beaconing pair
	// tuned to the same magnitude. Port scan is declared before repetitive
	// connection, so it must come first.
	var flows []model.FlowRecord
	flows = append(flows, scanFlows("dev-a", 30)...) // score 60
	flows = append(flows, repeatFlows("dev-b", "192.168.1.100", 60)...) // score 60

	engine := testEngine(DefaultThresholds())
	report := engine.Analyze(model.Snapshot{
		Flows:   flows,
		Devices: []model.Device{{ID: "dev-a"}, {ID: "dev-b"}},
	})

	require.Len(t, report.Findings, 2)
	assert.Equal(t, report.Findings[0].Score, report.Findings[1].Score)
	assert.Equal(t, model.AnomalyPortScan, report.Findings[0].Type)
	assert.Equal(t, model.AnomalyRepetitiveConnection, report.Findings[1].Type)
}

func TestEngine_SetThresholdsTakesEffect(t *testing.T) {
	engine := testEngine(DefaultThresholds())
	snap := model.Snapshot{
		Flows:   repeatFlows("dev-a", "192.168.1.100", 30),
		Devices: []model.Device{{ID: "dev-a"}},
	}

	assert.Empty(t, engine.Analyze(snap).Findings)

	tightened := DefaultThresholds()
	tightened.RepeatMinFlows = 25
	engine.SetThresholds(tightened)

	assert.Len(t, engine.Analyze(snap).Findings, 1)
}
