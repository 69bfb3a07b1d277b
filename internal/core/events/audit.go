package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRecordCreated       = "record.created"
	EventTypeRecordUpdated       = "record.updated"
	EventTypeRecordDeleted       = "record.deleted"
	EventTypePermissionsReplaced = "permissions.replaced"
)

// Audit describes a mutation performed by an actor on a module.
type Audit struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Module     string    `json:"module"`
	RecordID   string    `json:"record_id"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewAudit(eventType, module, recordID, actorID string) Audit {
	return Audit{
		ID:         uuid.NewString(),
		Type:       eventType,
		Module:     module,
		RecordID:   recordID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}

// AuditLogger writes every audit record to the structured log.
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

func (a *AuditLogger) Register(bus *Bus) {
	bus.SubscribeAll(a.Handle)
}

func (a *AuditLogger) Handle(ctx context.Context, e Audit) error {
	a.logger.InfoContext(ctx, "audit",
		"event_type", e.Type,
		"event_id", e.ID,
		"occurred_at", e.OccurredAt,
		"module", e.Module,
		"record_id", e.RecordID,
		"actor_id", e.ActorID)
	return nil
}

// Publisher is the subset of the bus that services publish through.
type Publisher interface {
	Publish(ctx context.Context, a Audit) error
}

// Emit publishes an audit record and logs, rather than returns, a failure.
func Emit(ctx context.Context, pub Publisher, logger *slog.Logger, eventType, module, recordID, actorID string) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, NewAudit(eventType, module, recordID, actorID)); err != nil {
		logger.WarnContext(ctx, "audit publish failed", "event_type", eventType, "error", err)
	}
}
