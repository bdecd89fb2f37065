package config

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/and3rn3t/net-traffic-sub002/internal/detect"
)

// Manager holds the current detection thresholds and applies live updates
// pushed over NATS, so thresholds can be tuned without restarting.
type Manager struct {
	nats        *nats.Conn
	subject     string
	logger      *slog.Logger
	mu          sync.RWMutex
	current     detect.Thresholds
	subscribers []func(detect.Thresholds)
	sub         *nats.Subscription
}

// ThresholdUpdate is the message shape accepted on the config subject: a
// full thresholds document plus provenance fields for logging.
type ThresholdUpdate struct {
	Thresholds detect.Thresholds `json:"thresholds"`
	UpdatedBy  string            `json:"updated_by"`
	Timestamp  int64             `json:"timestamp"`
}

// NewManager creates a threshold manager seeded with the given thresholds.
func NewManager(nc *nats.Conn, subject string, initial detect.Thresholds, logger *slog.Logger) *Manager {
	return &Manager{
		nats:    nc,
		subject: subject,
		logger:  logger,
		current: initial,
	}
}

// Current returns the active thresholds.
func (m *Manager) Current() detect.Thresholds {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Subscribe registers a callback invoked whenever the thresholds change.
func (m *Manager) Subscribe(callback func(detect.Thresholds)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, callback)
}

// Start begins listening for threshold updates. It returns immediately; the
// subscription is torn down when ctx is cancelled.
func (m *Manager) Start(ctx context.Context) error {
	if m.nats == nil {
		m.logger.Info("No NATS connection, threshold updates disabled")
		return nil
	}

	sub, err := m.nats.Subscribe(m.subject, m.handleUpdate)
	if err != nil {
		return err
	}
	m.sub = sub
	m.logger.Info("Subscribed to threshold updates", "subject", m.subject)

	go func() {
		<-ctx.Done()
		if err := sub.Unsubscribe(); err != nil {
			m.logger.Error("Failed to unsubscribe from threshold updates", "error", err)
		}
	}()

	return nil
}

func (m *Manager) handleUpdate(msg *nats.Msg) {
	var update ThresholdUpdate
	if err := json.Unmarshal(msg.Data, &update); err != nil {
		m.logger.Error("Failed to parse threshold update", "error", err)
		return
	}

	m.mu.Lock()
	m.current = update.Thresholds
	subscribers := make([]func(detect.Thresholds), len(m.subscribers))
	copy(subscribers, m.subscribers)
	m.mu.Unlock()

	m.logger.Info("Applied threshold update",
		"updated_by", update.UpdatedBy,
		"bandwidth_ratio", update.Thresholds.BandwidthRatio,
		"repeat_min_flows", update.Thresholds.RepeatMinFlows)

	for _, callback := range subscribers {
		callback(update.Thresholds)
	}
}
