package worker

import (
	"github.com/spec-kit/access-control-api/internal/events"
	"github.com/spec-kit/access-control-api/internal/service"
)

// StartAuditWorker registers audit log handlers on the dispatcher.
func StartAuditWorker(auditService *service.AuditService, dispatcher events.Dispatcher) {
	if auditService == nil || dispatcher == nil {
		return
	}
	auditService.RegisterHandlers(dispatcher)
}
