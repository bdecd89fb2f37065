package store

import (
	"container/ring"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/and3rn3t/net-traffic-sub002/internal/detect"
	"github.com/and3rn3t/net-traffic-sub002/internal/model"
)

// MemoryStore provides thread-safe storage for findings with a ring buffer
// and LRU deduplication. It is a display buffer for the dashboard only; the
// engine itself carries no state between detection passes, and nothing here
// survives a restart.
type MemoryStore struct {
	mu          sync.RWMutex
	findings    *ring.Ring
	dedupe      *lru.Cache[string, time.Time]
	maxFindings int
	dedupeCap   int
	cooldown    time.Duration
	lastReport  *model.Report
	lastDevices []model.Device
}

// NewMemoryStore creates a memory store with the given ring and dedupe
// capacities. Findings repeating the same dedupe key within cooldown are
// dropped.
func NewMemoryStore(maxFindings, dedupeCap int, cooldown time.Duration) *MemoryStore {
	dedupeCache, _ := lru.New[string, time.Time](dedupeCap)

	return &MemoryStore{
		findings:    ring.New(maxFindings),
		dedupe:      dedupeCache,
		maxFindings: maxFindings,
		dedupeCap:   dedupeCap,
		cooldown:    cooldown,
	}
}

// AddFinding adds a finding to the ring buffer unless an equivalent finding
// was stored within the cooldown window. Returns whether it was added.
func (s *MemoryStore) AddFinding(finding model.Finding) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dedupeKey(finding)
	if last, exists := s.dedupe.Get(key); exists && finding.Timestamp.Sub(last) < s.cooldown {
		return false
	}
	s.dedupe.Add(key, finding.Timestamp)

	s.findings.Value = finding
	s.findings = s.findings.Next()

	return true
}

// SetLastReport records the most recent detection report and the device
// inventory it was computed against, for the overview endpoint.
func (s *MemoryStore) SetLastReport(report model.Report, devices []model.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReport = &report
	s.lastDevices = devices
}

// LastReport returns the most recent detection report and its devices.
func (s *MemoryStore) LastReport() (model.Report, []model.Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastReport == nil {
		return model.Report{}, nil, false
	}
	return *s.lastReport, s.lastDevices, true
}

// Filter selects findings matching all non-zero criteria.
type Filter struct {
	Severity model.Severity // minimum severity
	Type     model.AnomalyType
	DeviceID string
	Limit    int
}

// GetFindings returns stored findings in insertion order (oldest first),
// filtered by the given criteria.
func (s *MemoryStore) GetFindings(filter Filter) []model.Finding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var findings []model.Finding
	s.findings.Do(func(value interface{}) {
		if value == nil {
			return
		}
		finding, ok := value.(model.Finding)
		if !ok {
			return
		}
		if filter.Severity != "" && !detect.SeverityAtLeast(finding.Severity, filter.Severity) {
			return
		}
		if filter.Type != "" && finding.Type != filter.Type {
			return
		}
		if filter.DeviceID != "" && !affectsDevice(finding, filter.DeviceID) {
			return
		}
		findings = append(findings, finding)
	})

	if filter.Limit > 0 && filter.Limit < len(findings) {
		findings = findings[len(findings)-filter.Limit:]
	}
	return findings
}

// Clear removes all findings and resets the dedupe cache.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < s.findings.Len(); i++ {
		s.findings.Value = nil
		s.findings = s.findings.Next()
	}
	s.dedupe.Purge()
	s.lastReport = nil
	s.lastDevices = nil
}

// Stats returns store statistics for the health endpoint.
func (s *MemoryStore) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	s.findings.Do(func(value interface{}) {
		if value != nil {
			count++
		}
	})

	return map[string]interface{}{
		"total_findings": count,
		"max_findings":   s.maxFindings,
		"dedupe_cap":     s.dedupeCap,
		"dedupe_size":    s.dedupe.Len(),
	}
}

func affectsDevice(finding model.Finding, deviceID string) bool {
	for _, id := range finding.AffectedDeviceIDs {
		if id == deviceID {
			return true
		}
	}
	return false
}

// dedupeKey identifies equivalent findings across passes: same type, same
// severity, same affected devices.
func dedupeKey(finding model.Finding) string {
	return string(finding.Type) + ":" + string(finding.Severity) + ":" + strings.Join(finding.AffectedDeviceIDs, ",")
}
