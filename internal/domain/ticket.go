package domain

// TicketPriority is the priority label set by the upstream classifier.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// IsStandard reports whether the priority is one of the four known labels.
func (p TicketPriority) IsStandard() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// Ticket is a classified support request awaiting assignment.
// It is owned by the caller and never mutated by the engine.
type Ticket struct {
	ID             string         `json:"ticket_id" validate:"required"`
	Issue          string         `json:"issue" validate:"required"`
	Description    string         `json:"description" validate:"required"`
	IssueType      string         `json:"issue_type" validate:"required"`
	SubIssueType   string         `json:"sub_issue_type" validate:"required"`
	Category       string         `json:"ticket_category" validate:"required"`
	Priority       TicketPriority `json:"priority" validate:"required"`
	DueDate        string         `json:"due_date" validate:"required"`
	RequesterName  string         `json:"user_name" validate:"required"`
	RequesterEmail string         `json:"user_email" validate:"required"`
}
