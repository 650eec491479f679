package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// AssignmentStatus is the outcome label of an assignment.
type AssignmentStatus string

const (
	AssignmentStatusAssigned AssignmentStatus = "Assigned"
	AssignmentStatusFallback AssignmentStatus = "Assigned (Fallback)"
)

// FallbackReasoning is the fixed reasoning for fallback assignments.
const FallbackReasoning = "No suitable technician found, assigned to fallback"

// ErrInvalidTicketData is the only error that aborts an assignment.
var ErrInvalidTicketData = errors.New("invalid ticket data")

// InvalidTicketDataError lists the ticket fields that failed validation.
type InvalidTicketDataError struct {
	Fields []string
}

func (e *InvalidTicketDataError) Error() string {
	return fmt.Sprintf("%s: missing or empty fields: %s", ErrInvalidTicketData, strings.Join(e.Fields, ", "))
}

func (e *InvalidTicketDataError) Unwrap() error {
	return ErrInvalidTicketData
}

// FallbackIdentity is the technician used when nobody is eligible.
type FallbackIdentity struct {
	Name  string
	Email string
}

// AssignmentCandidate lives for the duration of one assignment call.
type AssignmentCandidate struct {
	Technician        Technician
	Match             SkillMatchResult
	CalendarAvailable bool
	Tier              PriorityTier
	Reasoning         string
}

// AssignmentResult is the record handed to the downstream pipeline.
type AssignmentResult struct {
	TicketID                 string              `json:"ticket_id"`
	AssignedTechnician       string              `json:"assigned_technician"`
	TechnicianEmail          string              `json:"technician_email"`
	TechnicianID             string              `json:"technician_id"`
	AssignmentDate           string              `json:"assignment_date"`
	AssignmentTime           string              `json:"assignment_time"`
	AssignedAt               time.Time           `json:"assigned_at"`
	Priority                 TicketPriority      `json:"priority"`
	IssueType                string              `json:"issue_type"`
	SubIssueType             string              `json:"sub_issue_type"`
	TicketCategory           string              `json:"ticket_category"`
	DueDate                  string              `json:"due_date"`
	RequesterName            string              `json:"requester_name"`
	RequesterEmail           string              `json:"requester_email"`
	Status                   AssignmentStatus    `json:"status"`
	AssignmentTier           PriorityTier        `json:"assignment_tier"`
	SkillMatchPercentage     int                 `json:"skill_match_percentage"`
	SkillMatchClassification MatchClassification `json:"skill_match_classification,omitempty"`
	CalendarAvailable        bool                `json:"calendar_available"`
	MatchedSkills            []string            `json:"matched_skills"`
	MissingSkills            []string            `json:"missing_skills"`
	Reasoning                string              `json:"reasoning"`
}

// IsFallback reports whether the result went to the fallback identity.
func (r *AssignmentResult) IsFallback() bool {
	return r.Status == AssignmentStatusFallback
}

// AssignmentRecord is a persisted AssignmentResult.
type AssignmentRecord struct {
	ID        string
	TicketID  string
	Result    AssignmentResult
	CreatedAt time.Time
}
