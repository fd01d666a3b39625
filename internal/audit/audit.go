package audit

import (
	"context"
	"time"

	"hr-console/internal/shared/contextutil"

	"go.uber.org/zap"
)

const (
	ActionEmployeeCreated   = "EMPLOYEE_CREATED"
	ActionEmployeeDeleted   = "EMPLOYEE_DELETED"
	ActionAttendanceMarked  = "ATTENDANCE_MARKED"
	ActionAttendanceDeleted = "ATTENDANCE_DELETED"
	ActionServerShutdown    = "SERVER_SHUTDOWN"
)

type Entry struct {
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type,omitempty"`
	EntityID   string         `json:"entity_id,omitempty"`
	Message    string         `json:"message"`
	RequestID  string         `json:"request_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// Logger records admin actions. Implementations must not fail the caller.
type Logger interface {
	Log(ctx context.Context, entry Entry)
}

func fill(ctx context.Context, entry Entry) Entry {
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	if entry.RequestID == "" {
		entry.RequestID = contextutil.GetRequestID(ctx)
	}
	return entry
}

type StdoutLogger struct {
	logger *zap.Logger
}

func NewStdoutLogger(logger ...*zap.Logger) *StdoutLogger {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &StdoutLogger{logger: l.Named("audit")}
}

func (l *StdoutLogger) Log(ctx context.Context, entry Entry) {
	entry = fill(ctx, entry)
	l.logger.Info("audit event",
		zap.String("timestamp", entry.OccurredAt.Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("entity_type", entry.EntityType),
		zap.String("entity_id", entry.EntityID),
		zap.String("request_id", entry.RequestID),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}

// Multi fans an entry out to every sink.
type Multi []Logger

func (m Multi) Log(ctx context.Context, entry Entry) {
	entry = fill(ctx, entry)
	for _, l := range m {
		if l != nil {
			l.Log(ctx, entry)
		}
	}
}

type Nop struct{}

func (Nop) Log(context.Context, Entry) {}
