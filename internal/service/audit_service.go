package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/access-control-api/internal/events"
)

// AuditService writes auth audit events to the structured log. Event
// payloads never contain passwords or hashes.
type AuditService struct {
	logger *zap.Logger
}

// NewAuditService builds the service.
func NewAuditService(logger *zap.Logger) *AuditService {
	return &AuditService{logger: logger}
}

// RegisterHandlers subscribes the audit log to all auth events.
func (s *AuditService) RegisterHandlers(dispatcher events.Dispatcher) {
	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventLoginSucceeded,
		events.EventLoginFailed,
		events.EventUserDeactivated,
		events.EventUserActivated,
	} {
		dispatcher.Subscribe(eventType, s.handle)
	}
}

func (s *AuditService) handle(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("username", event.Username),
		zap.Time("occurred_at", event.Timestamp),
	}
	for key, val := range event.Metadata {
		fields = append(fields, zap.String(key, val))
	}
	s.logger.Info("audit", fields...)
	return nil
}
