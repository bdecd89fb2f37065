package natsio

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/and3rn3t/net-traffic-sub002/internal/detect"
	"github.com/and3rn3t/net-traffic-sub002/internal/metrics"
	"github.com/and3rn3t/net-traffic-sub002/internal/model"
	"github.com/and3rn3t/net-traffic-sub002/internal/store"
)

// Subscriber listens for flow snapshots, runs a detection pass on each, and
// stores and publishes the resulting findings.
type Subscriber struct {
	nc        *nats.Conn
	engine    *detect.Engine
	store     *store.MemoryStore
	publisher *Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	subject   string
	queue     string

	sub *nats.Subscription
}

// NewSubscriber creates a snapshot subscriber.
func NewSubscriber(nc *nats.Conn, engine *detect.Engine, findingStore *store.MemoryStore, publisher *Publisher, subject, queue string, m *metrics.Metrics, logger *slog.Logger) *Subscriber {
	return &Subscriber{
		nc:        nc,
		engine:    engine,
		store:     findingStore,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		subject:   subject,
		queue:     queue,
	}
}

// Subscribe starts listening for flow snapshots and blocks until ctx is
// cancelled, then drains the subscription.
func (s *Subscriber) Subscribe(ctx context.Context) error {
	s.logger.Info("Subscribing to flow snapshots", "subject", s.subject, "queue", s.queue)

	sub, err := s.nc.QueueSubscribe(s.subject, s.queue, s.handleSnapshot)
	if err != nil {
		s.logger.Error("Failed to subscribe to flow snapshots", "error", err)
		return err
	}
	s.sub = sub

	<-ctx.Done()

	s.logger.Info("Draining snapshot subscription")
	if err := sub.Drain(); err != nil {
		s.logger.Error("Failed to drain snapshot subscription", "error", err)
		return err
	}

	s.logger.Info("Snapshot subscription drained")
	return nil
}

// handleSnapshot processes one incoming flow/device snapshot.
func (s *Subscriber) handleSnapshot(msg *nats.Msg) {
	s.logger.Debug("Received flow snapshot", "subject", msg.Subject, "data_length", len(msg.Data))

	snap, err := parseSnapshot(msg.Data)
	if err != nil {
		s.logger.Error("Failed to parse flow snapshot", "error", err)
		if s.metrics != nil {
			s.metrics.IncSnapshotsInvalid()
		}
		return
	}

	if s.metrics != nil {
		s.metrics.IncSnapshots()
	}

	report := s.engine.Analyze(snap)
	s.store.SetLastReport(report, snap.Devices)

	for _, finding := range report.Findings {
		if added := s.store.AddFinding(finding); !added {
			if s.metrics != nil {
				s.metrics.IncFindingsDeduplicated()
			}
			continue
		}

		if err := s.publisher.PublishFinding(finding); err != nil {
			s.logger.Error("Failed to publish finding",
				"finding_id", finding.ID,
				"error", err)
			if s.metrics != nil {
				s.metrics.IncPublishErrors()
			}
		}
	}

	s.logger.Info("Snapshot analyzed",
		"flows", report.FlowCount,
		"devices", report.DeviceCount,
		"findings", len(report.Findings),
		"overall_score", report.OverallScore)
}

// parseSnapshot converts snapshot JSON to the engine's input model.
func parseSnapshot(data []byte) (model.Snapshot, error) {
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, nil
}
