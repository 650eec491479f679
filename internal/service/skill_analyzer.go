package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-assignment/internal/domain"
	"github.com/spec-kit/ticket-assignment/internal/observability"
)

const (
	defaultComplexity = 3
	genericSkill      = "General IT Support"
)

// SkillInferrer completes a free-text prompt. Implementations may retry
// internally but must honour ctx.
type SkillInferrer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var fallbackSkillsByIssueType = map[string][]string{
	"Hardware":      {"Hardware Troubleshooting", "PC Repair", "Printer Support"},
	"Software/SaaS": {"Software Installation", "Application Support", "Troubleshooting"},
	"Network":       {"Network Troubleshooting", "Router Configuration", "WiFi Setup"},
	"Security":      {"Security Analysis", "Antivirus Support", "Access Control"},
	"Database":      {"SQL Database", "Database Administration", "Data Recovery"},
	"Email":         {"Email Configuration", "Outlook Support", "Exchange Server"},
	"Server":        {"Windows Server", "Linux Server", "Server Administration"},
}

var complexityByPriority = map[domain.TicketPriority]int{
	domain.TicketPriorityLow:      2,
	domain.TicketPriorityMedium:   3,
	domain.TicketPriorityHigh:     4,
	domain.TicketPriorityCritical: 5,
}

// SkillAnalyzer derives skill requirements for a ticket.
type SkillAnalyzer struct {
	inferrer SkillInferrer
	timeout  time.Duration
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewSkillAnalyzer builds an analyzer. A nil inferrer means every ticket uses
// the static skill table.
func NewSkillAnalyzer(inferrer SkillInferrer, timeout time.Duration, logger *zap.Logger, metrics *observability.Metrics) *SkillAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SkillAnalyzer{inferrer: inferrer, timeout: timeout, logger: logger, metrics: metrics}
}

type completion struct {
	raw string
	err error
}

// Analyze never fails: any inference problem yields FallbackSkillAnalysis.
func (a *SkillAnalyzer) Analyze(ctx context.Context, ticket domain.Ticket) domain.SkillAnalysis {
	if a.inferrer == nil {
		return a.fallback(ticket, "skill inference not configured")
	}

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan completion, 1)
	go func() {
		raw, err := a.inferrer.Complete(callCtx, BuildSkillPrompt(ticket))
		done <- completion{raw: raw, err: err}
	}()

	var res completion
	select {
	case res = <-done:
	case <-callCtx.Done():
		res.err = callCtx.Err()
	}
	a.metrics.ObserveDependency("skill_inference", res.err, time.Since(start))

	if res.err != nil {
		a.logger.Warn("skill inference failed",
			zap.String("ticket_id", ticket.ID),
			zap.Error(res.err))
		return a.fallback(ticket, "inference error")
	}

	analysis, err := ParseSkillAnalysis(res.raw)
	if err != nil {
		a.logger.Warn("skill inference returned unusable payload",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
		return a.fallback(ticket, "parse error")
	}

	a.metrics.RecordSkillAnalysis(domain.SkillAnalysisInference)
	a.logger.Debug("skill analysis inferred",
		zap.String("ticket_id", ticket.ID),
		zap.Strings("required_skills", analysis.RequiredSkills),
		zap.Int("complexity_level", analysis.ComplexityLevel))
	return analysis
}

func (a *SkillAnalyzer) fallback(ticket domain.Ticket, reason string) domain.SkillAnalysis {
	analysis := FallbackSkillAnalysis(ticket)
	a.metrics.RecordSkillAnalysis(domain.SkillAnalysisFallback)
	a.logger.Info("using fallback skill analysis",
		zap.String("ticket_id", ticket.ID),
		zap.String("issue_type", ticket.IssueType),
		zap.String("reason", reason),
		zap.Strings("required_skills", analysis.RequiredSkills))
	return analysis
}

// FallbackSkillAnalysis maps the issue type onto the static skill table and
// derives complexity from the ticket priority.
func FallbackSkillAnalysis(ticket domain.Ticket) domain.SkillAnalysis {
	skills, ok := fallbackSkillsByIssueType[strings.TrimSpace(ticket.IssueType)]
	if !ok {
		skills = []string{genericSkill}
	}

	complexity, ok := complexityByPriority[ticket.Priority]
	if !ok {
		complexity = defaultComplexity
	}

	knowledge := []string{}
	if issueType := strings.TrimSpace(ticket.IssueType); issueType != "" {
		knowledge = append(knowledge, issueType)
	}

	return domain.SkillAnalysis{
		RequiredSkills:       append([]string(nil), skills...),
		ComplexityLevel:      complexity,
		SpecializedKnowledge: knowledge,
		Source:               domain.SkillAnalysisFallback,
	}
}

// BuildSkillPrompt renders the inference prompt for a ticket.
func BuildSkillPrompt(ticket domain.Ticket) string {
	var b strings.Builder
	b.WriteString("You are an IT support dispatcher. Analyze the ticket below and list the technical skills a technician needs to resolve it.\n\n")
	fmt.Fprintf(&b, "Ticket ID: %s\n", ticket.ID)
	fmt.Fprintf(&b, "Issue: %s\n", ticket.Issue)
	fmt.Fprintf(&b, "Description: %s\n", ticket.Description)
	fmt.Fprintf(&b, "Issue Type: %s\n", ticket.IssueType)
	fmt.Fprintf(&b, "Sub-Issue Type: %s\n", ticket.SubIssueType)
	fmt.Fprintf(&b, "Category: %s\n", ticket.Category)
	fmt.Fprintf(&b, "Priority: %s\n", ticket.Priority)
	fmt.Fprintf(&b, "Due Date: %s\n", ticket.DueDate)
	fmt.Fprintf(&b, "Requester: %s <%s>\n\n", ticket.RequesterName, ticket.RequesterEmail)
	b.WriteString("Respond with a single JSON object and nothing else:\n")
	b.WriteString(`{"required_skills": ["skill", "..."], "complexity_level": 1-5, "specialized_knowledge": ["area", "..."]}`)
	b.WriteString("\n")
	return b.String()
}
