package natsio

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/and3rn3t/net-traffic-sub002/internal/model"
)

// Publisher handles publishing findings to NATS for downstream consumers
// (the dashboard's WebSocket fanout, alerting, report generation).
type Publisher struct {
	natsConn *nats.Conn
	subject  string
	logger   *slog.Logger
}

// NewPublisher creates a finding publisher for the given subject.
func NewPublisher(natsConn *nats.Conn, subject string, logger *slog.Logger) *Publisher {
	return &Publisher{
		natsConn: natsConn,
		subject:  subject,
		logger:   logger,
	}
}

// PublishFinding publishes one finding. A transport correlation ID is
// assigned at publish time so the detection core stays deterministic.
func (p *Publisher) PublishFinding(finding model.Finding) error {
	if p.natsConn == nil || !p.natsConn.IsConnected() {
		return fmt.Errorf("NATS connection not available")
	}

	if finding.CorrelationID == "" {
		finding.CorrelationID = uuid.New().String()
	}

	findingJSON, err := json.Marshal(finding)
	if err != nil {
		return fmt.Errorf("failed to marshal finding: %w", err)
	}

	headers := nats.Header{}
	headers.Set("x-finding-id", finding.ID)
	headers.Set("x-anomaly-type", string(finding.Type))
	headers.Set("x-severity", string(finding.Severity))
	headers.Set("x-correlation-id", finding.CorrelationID)
	headers.Set("x-timestamp", finding.Timestamp.UTC().Format(time.RFC3339))

	msg := &nats.Msg{
		Subject: p.subject,
		Data:    findingJSON,
		Header:  headers,
	}

	if err := p.natsConn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish finding: %w", err)
	}

	p.logger.Info("Published finding",
		"finding_id", finding.ID,
		"type", finding.Type,
		"severity", finding.Severity,
		"subject", p.subject)

	return nil
}

// PublishFindings publishes a batch, continuing past individual failures.
func (p *Publisher) PublishFindings(findings []model.Finding) error {
	var errs []error
	successCount := 0

	for _, finding := range findings {
		if err := p.PublishFinding(finding); err != nil {
			errs = append(errs, fmt.Errorf("finding %s: %w", finding.ID, err))
		} else {
			successCount++
		}
	}

	p.logger.Info("Published findings batch",
		"total", len(findings),
		"successful", successCount,
		"failed", len(errs))

	if len(errs) > 0 {
		return fmt.Errorf("failed to publish %d findings: %v", len(errs), errs)
	}
	return nil
}
