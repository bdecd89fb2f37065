package detect

import (
	"fmt"

	"github.com/and3rn3t/net-traffic-sub002/internal/model"
)

// severityRank orders severities for comparisons and API filtering.
var severityRank = map[model.Severity]int{
	model.SeverityLow:      1,
	model.SeverityMedium:   2,
	model.SeverityHigh:     3,
	model.SeverityCritical: 4,
}

// NormalizeSeverity clamps a severity value to the closed set
// {low, medium, high, critical}. Anything unrecognized becomes low so a
// misbehaving detector can only under-report, never invent a new tier.
func NormalizeSeverity(s model.Severity) model.Severity {
	if _, ok := severityRank[s]; ok {
		return s
	}
	return model.SeverityLow
}

// SeverityAtLeast reports whether s meets or exceeds min.
func SeverityAtLeast(s, min model.Severity) bool {
	return severityRank[NormalizeSeverity(s)] >= severityRank[NormalizeSeverity(min)]
}

// clampScore bounds a raw detector magnitude to the [0,100] scoring range.
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// FormatBytes renders a byte count in the unit the dashboard shows,
// one decimal place from KB upward.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
