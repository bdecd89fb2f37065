// Package present formats findings for the view layer. It is pure string
// shaping on top of the engine's output and performs no I/O.
package present

import (
	"fmt"
	"strings"
	"time"

	"github.com/and3rn3t/net-traffic-sub002/internal/detect"
	"github.com/and3rn3t/net-traffic-sub002/internal/model"
)

// Row is one display-ready finding for the dashboard's anomaly table.
type Row struct {
	ID             string `json:"id"`
	Icon           string `json:"icon"`
	Label          string `json:"label"`
	Severity       string `json:"severity"`
	Score          int    `json:"score"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
	Devices        string `json:"devices"`
	Timestamp      string `json:"timestamp"`
}

var typeIcons = map[model.AnomalyType]string{
	model.AnomalyExcessiveBandwidth:   "trending-up",
	model.AnomalyUnusualHours:         "clock",
	model.AnomalyPortScan:             "radar",
	model.AnomalyExfiltration:         "upload",
	model.AnomalyRepetitiveConnection: "repeat",
}

var typeLabels = map[model.AnomalyType]string{
	model.AnomalyExcessiveBandwidth:   "Excessive Bandwidth",
	model.AnomalyUnusualHours:         "Unusual Activity Hours",
	model.AnomalyPortScan:             "Port Scan",
	model.AnomalyExfiltration:         "Data Exfiltration",
	model.AnomalyRepetitiveConnection: "Repetitive Connections",
}

// Icon returns the dashboard icon identifier for an anomaly type.
func Icon(t model.AnomalyType) string {
	if icon, ok := typeIcons[t]; ok {
		return icon
	}
	return "alert-triangle"
}

// Label returns the human-readable label for an anomaly type.
func Label(t model.AnomalyType) string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return "Anomaly"
}

// DeviceSummary renders the affected-device list as display names, spelling
// out at most maxNames names and collapsing the rest into a "+N more" suffix.
func DeviceSummary(ids []string, devices map[string]model.Device, maxNames int) string {
	if len(ids) == 0 {
		return ""
	}
	if maxNames < 1 {
		maxNames = 1
	}

	shown := ids
	if len(shown) > maxNames {
		shown = shown[:maxNames]
	}

	names := make([]string, 0, len(shown))
	for _, id := range shown {
		names = append(names, detect.DeviceName(devices, id))
	}

	summary := strings.Join(names, ", ")
	if extra := len(ids) - len(shown); extra > 0 {
		summary = fmt.Sprintf("%s +%d more", summary, extra)
	}
	return summary
}

// Rows converts a report into display rows, resolving device IDs against the
// supplied inventory.
func Rows(report model.Report, devices []model.Device, maxNames int) []Row {
	byID := make(map[string]model.Device, len(devices))
	for _, dev := range devices {
		byID[dev.ID] = dev
	}

	rows := make([]Row, 0, len(report.Findings))
	for _, f := range report.Findings {
		rows = append(rows, Row{
			ID:             f.ID,
			Icon:           Icon(f.Type),
			Label:          Label(f.Type),
			Severity:       string(f.Severity),
			Score:          int(f.Score),
			Description:    f.Description,
			Recommendation: f.Recommendation,
			Devices:        DeviceSummary(f.AffectedDeviceIDs, byID, maxNames),
			Timestamp:      f.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return rows
}
