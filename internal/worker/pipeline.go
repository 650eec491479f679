package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-assignment/internal/events"
	"github.com/spec-kit/ticket-assignment/internal/service"
)

// AssignmentPipeline lists the stages that consume ticket_assigned events
// after a decision has been made. Nil stages are skipped.
type AssignmentPipeline struct {
	Dispatcher    events.Dispatcher
	Stream        *events.StreamPublisher
	Notifications *service.NotificationService
}

// StartAssignmentPipeline subscribes the configured stages. The stream is
// registered first so an event is durable before anyone is emailed.
func StartAssignmentPipeline(p AssignmentPipeline, logger *zap.Logger) int {
	if logger == nil {
		logger = zap.NewNop()
	}
	if p.Dispatcher == nil {
		logger.Warn("no event dispatcher; assignment pipeline disabled")
		return 0
	}

	stages := 0
	if p.Stream != nil {
		p.Stream.Register(p.Dispatcher, events.EventTicketAssigned)
		stages++
	}
	if p.Notifications != nil {
		p.Notifications.RegisterHandlers()
		stages++
	}
	logger.Info("assignment pipeline started", zap.Int("stages", stages))
	return stages
}
