package telemetry

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Audit actions.
const (
	ActionLogin      = "auth.login"
	ActionUserBanned = "moderation.user_banned"
	ActionAdminWipe  = "admin.wipe_users"
	ActionProbe      = "debug.probe"
)

// Audit levels.
const (
	LevelInfo = "INFO"
	LevelWarn = "WARN"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// AuditRecord is one security-relevant action. ActorID is nil for anonymous
// or system callers.
type AuditRecord struct {
	Action    string
	Level     string
	Text      string
	RequestID string
	ActorID   *int64
	TargetID  *int64
}

// AuditEmitter ships audit records (logins, bans, admin wipes) to the audit
// routing key.
type AuditEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
	now         func() time.Time
}

type AuditEnvelope struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	Action        string       `json:"action"`
	OccurredAt    string       `json:"occurred_at"`
	Service       string       `json:"service"`
	Environment   string       `json:"environment"`
	RequestID     string       `json:"request_id"`
	TraceID       string       `json:"trace_id,omitempty"`
	ActorID       *int64       `json:"actor_id,omitempty"`
	TargetID      *int64       `json:"target_id,omitempty"`
	Payload       AuditPayload `json:"payload"`
}

type AuditPayload struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Correlation exposes the ids copied into transport headers.
func (e AuditEnvelope) Correlation() (requestID, traceID string) {
	return e.RequestID, e.TraceID
}

func NewAuditEmitter(publisher Publisher, routingKey, service, environment string) *AuditEmitter {
	return &AuditEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
		now:         time.Now,
	}
}

// Emit is safe on a nil emitter. Publish failures are logged only.
func (e *AuditEmitter) Emit(ctx context.Context, rec AuditRecord) {
	if e == nil || e.publisher == nil {
		return
	}
	if rec.Level == "" {
		rec.Level = LevelInfo
	}

	entry := log.Info().Str("action", rec.Action).Str("level", rec.Level).Str("request_id", rec.RequestID)
	if rec.ActorID != nil {
		entry = entry.Int64("user_id", *rec.ActorID)
	}
	if rec.TargetID != nil {
		entry = entry.Int64("target_id", *rec.TargetID)
	}
	entry.Msg(rec.Text)

	envelope := AuditEnvelope{
		SchemaVersion: 2,
		EventType:     "audit_log",
		Action:        rec.Action,
		OccurredAt:    e.now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     rec.RequestID,
		ActorID:       rec.ActorID,
		TargetID:      rec.TargetID,
		Payload:       AuditPayload{Level: rec.Level, Text: rec.Text},
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		envelope.TraceID = sc.TraceID().String()
	}

	if err := e.publisher.Publish(ctx, e.routingKey, envelope); err != nil {
		log.Error().Err(err).Str("action", rec.Action).Msg("audit publish failed")
	}
}
