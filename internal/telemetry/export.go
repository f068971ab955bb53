package telemetry

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"rsvp-service/internal/models"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// ExportEmitter publishes event snapshots for downstream consumers (for
// example a spreadsheet sync worker) whenever a host edits an event. The
// export path fails independently: a publish error is logged and never
// propagated to the mutation that triggered it.
type ExportEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
}

type ExportEnvelope struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	OccurredAt    string       `json:"occurred_at"`
	Service       string       `json:"service"`
	Environment   string       `json:"environment"`
	RequestID     string       `json:"request_id"`
	Payload       models.Event `json:"payload"`
}

func NewExportEmitter(publisher Publisher, routingKey, service, environment string) *ExportEmitter {
	return &ExportEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
	}
}

func (e *ExportEmitter) Emit(ctx context.Context, event models.Event, requestID string) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := ExportEnvelope{
		SchemaVersion: 1,
		EventType:     "event_export",
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     requestID,
		Payload:       event,
	}

	if err := e.publisher.Publish(ctx, e.routingKey, envelope); err != nil {
		logrus.WithError(err).WithField("event_id", event.ID).Warn("export publish failed")
	}
}
