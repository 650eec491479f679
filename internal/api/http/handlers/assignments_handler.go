package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-assignment/internal/api/dto"
	"github.com/spec-kit/ticket-assignment/internal/domain"
	"github.com/spec-kit/ticket-assignment/internal/repository"
	"github.com/spec-kit/ticket-assignment/internal/service"
	apperrors "github.com/spec-kit/ticket-assignment/pkg/util/errorutil"
)

// AssignmentsHandler exposes the assignment engine.
type AssignmentsHandler struct {
	service *service.AssignmentService
}

// NewAssignmentsHandler constructs handler.
func NewAssignmentsHandler(assignmentService *service.AssignmentService) *AssignmentsHandler {
	return &AssignmentsHandler{service: assignmentService}
}

// Assign handles POST /api/v1/assignments.
func (h *AssignmentsHandler) Assign(c *fiber.Ctx) error {
	ticket, err := parseTicket(c)
	if err != nil {
		return err
	}
	result, err := h.service.AssignTicket(c.UserContext(), ticket)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Preview handles POST /api/v1/assignments/preview.
func (h *AssignmentsHandler) Preview(c *fiber.Ctx) error {
	ticket, err := parseTicket(c)
	if err != nil {
		return err
	}
	eval, err := h.service.EvaluateTicket(c.UserContext(), ticket)
	if err != nil {
		return err
	}

	resp := dto.AssignmentPreviewResponse{
		SkillAnalysis: eval.Analysis,
		Candidates:    make([]dto.CandidateResponse, 0, len(eval.Candidates)),
		Excluded:      make([]dto.ExcludedResponse, 0, len(eval.Excluded)),
		Result:        eval.Result,
	}
	for _, cand := range eval.Candidates {
		resp.Candidates = append(resp.Candidates, dto.CandidateResponse{
			TechnicianID:      cand.Technician.ID,
			Name:              cand.Technician.Name,
			Email:             cand.Technician.Email,
			Tier:              cand.Tier,
			CalendarAvailable: cand.CalendarAvailable,
			CurrentWorkload:   cand.Technician.CurrentWorkload,
			SkillMatch:        cand.Match,
			Reasoning:         cand.Reasoning,
		})
	}
	for _, ex := range eval.Excluded {
		resp.Excluded = append(resp.Excluded, dto.ExcludedResponse{
			TechnicianID:      ex.Technician.ID,
			Name:              ex.Technician.Name,
			CalendarAvailable: ex.CalendarAvailable,
			SkillMatch:        ex.Match,
			Reason:            ex.Reason,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ListForTicket handles GET /api/v1/tickets/:ticket_id/assignments.
func (h *AssignmentsHandler) ListForTicket(c *fiber.Ctx) error {
	ticketID := strings.TrimSpace(c.Params("ticket_id"))
	if ticketID == "" {
		return apperrors.NewValidationError("ticket_id required", nil)
	}
	records, err := h.service.ListAssignments(c.UserContext(), ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDatabase) {
			return apperrors.NewDomainError("ASSIGNMENT_LOG_DISABLED", "assignment log not configured", fiber.StatusServiceUnavailable, nil)
		}
		return err
	}
	if len(records) == 0 {
		return apperrors.NewNotFound("assignments", map[string]any{"ticket_id": ticketID})
	}

	items := make([]dto.AssignmentRecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.AssignmentRecordResponse{
			ID:        rec.ID,
			TicketID:  rec.TicketID,
			CreatedAt: rec.CreatedAt.Format(time.RFC3339),
			Result:    rec.Result,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Tiers handles GET /api/v1/assignment-tiers.
func (h *AssignmentsHandler) Tiers(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.TierDefinitions()})
}

// Technicians handles GET /api/v1/technicians.
func (h *AssignmentsHandler) Technicians(c *fiber.Ctx) error {
	technicians, err := h.service.ListTechnicians(c.UserContext())
	if err != nil {
		if errors.Is(err, repository.ErrNoDatabase) {
			return c.JSON(fiber.Map{"data": []dto.TechnicianResponse{}})
		}
		return err
	}
	items := make([]dto.TechnicianResponse, 0, len(technicians))
	for i := range technicians {
		items = append(items, technicianResponse(&technicians[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseTicket(c *fiber.Ctx) (domain.Ticket, error) {
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.Ticket{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return req.ToDomain(), nil
}

func technicianResponse(tech *domain.Technician) dto.TechnicianResponse {
	return dto.TechnicianResponse{
		ID:              tech.ID,
		Name:            tech.Name,
		Email:           tech.Email,
		Role:            tech.Role,
		Skills:          nonNilStrings(tech.Skills),
		CurrentWorkload: tech.CurrentWorkload,
		Specializations: nonNilStrings(tech.Specializations),
	}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
