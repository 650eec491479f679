package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/ticket-assignment/internal/domain"
)

// CandidateReasoning summarizes why a technician ranks where it does.
func CandidateReasoning(tech domain.Technician, match domain.SkillMatchResult, available bool) string {
	return fmt.Sprintf("Technician: %s, Skill Match: %s (%d%%), Available: %t, Current Workload: %d, Matched Skills: [%s]",
		tech.Name,
		match.Classification,
		match.MatchPercentage,
		available,
		tech.CurrentWorkload,
		strings.Join(match.MatchedSkills, ", "),
	)
}

// BuildAssignmentResult materializes a decision. A nil candidate produces
// the fallback assignment. now is the build timestamp.
func BuildAssignmentResult(ticket domain.Ticket, candidate *domain.AssignmentCandidate, fallback domain.FallbackIdentity, now time.Time) domain.AssignmentResult {
	result := domain.AssignmentResult{
		TicketID:       ticket.ID,
		AssignmentDate: now.Format("2006-01-02"),
		AssignmentTime: now.Format("15:04:05"),
		AssignedAt:     now,
		Priority:       ticket.Priority,
		IssueType:      ticket.IssueType,
		SubIssueType:   ticket.SubIssueType,
		TicketCategory: ticket.Category,
		DueDate:        ticket.DueDate,
		RequesterName:  ticket.RequesterName,
		RequesterEmail: ticket.RequesterEmail,
	}

	if candidate == nil {
		result.AssignedTechnician = fallback.Name
		result.TechnicianEmail = fallback.Email
		result.Status = domain.AssignmentStatusFallback
		result.AssignmentTier = domain.TierFallback
		result.SkillMatchPercentage = 0
		result.CalendarAvailable = true
		result.MatchedSkills = []string{}
		result.MissingSkills = []string{}
		result.Reasoning = domain.FallbackReasoning
		return result
	}

	result.AssignedTechnician = candidate.Technician.Name
	result.TechnicianEmail = candidate.Technician.Email
	result.TechnicianID = candidate.Technician.ID
	result.Status = domain.AssignmentStatusAssigned
	result.AssignmentTier = candidate.Tier
	result.SkillMatchPercentage = candidate.Match.MatchPercentage
	result.SkillMatchClassification = candidate.Match.Classification
	result.CalendarAvailable = candidate.CalendarAvailable
	result.MatchedSkills = nonNil(candidate.Match.MatchedSkills)
	result.MissingSkills = nonNil(candidate.Match.MissingSkills)
	result.Reasoning = candidate.Reasoning
	if result.Reasoning == "" {
		result.Reasoning = CandidateReasoning(candidate.Technician, candidate.Match, candidate.CalendarAvailable)
	}
	return result
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
