package dto

import (
	"github.com/spec-kit/ticket-assignment/internal/domain"
)

// AssignTicketRequest is the classified ticket submitted for assignment.
type AssignTicketRequest struct {
	TicketID       string `json:"ticket_id"`
	Issue          string `json:"issue"`
	Description    string `json:"description"`
	IssueType      string `json:"issue_type"`
	SubIssueType   string `json:"sub_issue_type"`
	TicketCategory string `json:"ticket_category"`
	Priority       string `json:"priority"`
	DueDate        string `json:"due_date"`
	UserName       string `json:"user_name"`
	UserEmail      string `json:"user_email"`
}

// ToDomain converts the payload without validating it.
func (r AssignTicketRequest) ToDomain() domain.Ticket {
	return domain.Ticket{
		ID:             r.TicketID,
		Issue:          r.Issue,
		Description:    r.Description,
		IssueType:      r.IssueType,
		SubIssueType:   r.SubIssueType,
		Category:       r.TicketCategory,
		Priority:       domain.TicketPriority(r.Priority),
		DueDate:        r.DueDate,
		RequesterName:  r.UserName,
		RequesterEmail: r.UserEmail,
	}
}

// CandidateResponse is one ranked technician in a preview.
type CandidateResponse struct {
	TechnicianID      string                  `json:"technician_id"`
	Name              string                  `json:"name"`
	Email             string                  `json:"email"`
	Tier              domain.PriorityTier     `json:"priority_tier"`
	CalendarAvailable bool                    `json:"calendar_available"`
	CurrentWorkload   int                     `json:"current_workload"`
	SkillMatch        domain.SkillMatchResult `json:"skill_match"`
	Reasoning         string                  `json:"reasoning"`
}

// ExcludedResponse is a technician left out of the candidate pool.
type ExcludedResponse struct {
	TechnicianID      string                  `json:"technician_id"`
	Name              string                  `json:"name"`
	CalendarAvailable bool                    `json:"calendar_available"`
	SkillMatch        domain.SkillMatchResult `json:"skill_match"`
	Reason            string                  `json:"reason"`
}

// AssignmentPreviewResponse exposes a full evaluation.
type AssignmentPreviewResponse struct {
	SkillAnalysis domain.SkillAnalysis    `json:"skill_analysis"`
	Candidates    []CandidateResponse     `json:"candidates"`
	Excluded      []ExcludedResponse      `json:"excluded"`
	Result        domain.AssignmentResult `json:"assignment_result"`
}

// AssignmentRecordResponse is one entry of a ticket's assignment log.
type AssignmentRecordResponse struct {
	ID        string                  `json:"id"`
	TicketID  string                  `json:"ticket_id"`
	CreatedAt string                  `json:"created_at"`
	Result    domain.AssignmentResult `json:"assignment_result"`
}

// TechnicianResponse is the public view of a roster entry.
type TechnicianResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	Skills          []string `json:"skills"`
	CurrentWorkload int      `json:"current_workload"`
	Specializations []string `json:"specializations"`
}
