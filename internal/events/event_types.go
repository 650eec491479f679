package events

import (
	"time"

	"github.com/spec-kit/ticket-assignment/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketAssigned EventType = "ticket_assigned"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type    domain.SubjectType `json:"type"`
	StaffID *string            `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketAssignedPayload carries the decision to downstream stages.
type TicketAssignedPayload struct {
	Result   domain.AssignmentResult `json:"assignment_result"`
	RecordID string                  `json:"record_id,omitempty"`
}
