package service

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/ticket-assignment/internal/domain"
	"github.com/spec-kit/ticket-assignment/internal/events"
	"github.com/spec-kit/ticket-assignment/internal/observability"
	"github.com/spec-kit/ticket-assignment/internal/repository"
)

const defaultAvailabilityConcurrency = 8

// TechnicianDirectory returns the current active roster.
type TechnicianDirectory interface {
	ListActive(ctx context.Context) ([]domain.Technician, error)
}

// ExcludedTechnician is a roster entry that did not make the candidate pool.
type ExcludedTechnician struct {
	Technician        domain.Technician       `json:"-"`
	Match             domain.SkillMatchResult `json:"skill_match"`
	CalendarAvailable bool                    `json:"calendar_available"`
	Reason            string                  `json:"reason"`
}

// AssignmentEvaluation is the full trace of one assignment decision.
type AssignmentEvaluation struct {
	Analysis   domain.SkillAnalysis
	Candidates []domain.AssignmentCandidate
	Excluded   []ExcludedTechnician
	Selected   *domain.AssignmentCandidate
	Result     domain.AssignmentResult
}

// AssignmentService picks a technician for a classified ticket.
type AssignmentService struct {
	analyzer     *SkillAnalyzer
	directory    TechnicianDirectory
	availability *AvailabilityChecker
	policy       TierPolicy
	fallback     domain.FallbackIdentity
	records      repository.AssignmentRepository
	dispatcher   events.Dispatcher
	validate     *validator.Validate
	concurrency  int
	logger       *zap.Logger
	metrics      *observability.Metrics
	now          func() time.Time
}

// AssignmentDependencies bundles collaborators. Records and Dispatcher are
// optional.
type AssignmentDependencies struct {
	Analyzer     *SkillAnalyzer
	Directory    TechnicianDirectory
	Availability *AvailabilityChecker
	Policy       *TierPolicy
	Fallback     domain.FallbackIdentity
	Records      repository.AssignmentRepository
	Dispatcher   events.Dispatcher
	Concurrency  int
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	Clock        func() time.Time
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	s := &AssignmentService{
		analyzer:     deps.Analyzer,
		directory:    deps.Directory,
		availability: deps.Availability,
		fallback:     deps.Fallback,
		records:      deps.Records,
		dispatcher:   deps.Dispatcher,
		validate:     newTicketValidator(),
		concurrency:  deps.Concurrency,
		logger:       deps.Logger,
		metrics:      deps.Metrics,
		now:          deps.Clock,
	}
	if deps.Policy != nil {
		s.policy = *deps.Policy
	} else {
		s.policy = DefaultTierPolicy()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.analyzer == nil {
		s.analyzer = NewSkillAnalyzer(nil, 0, s.logger, s.metrics)
	}
	if s.availability == nil {
		s.availability = NewAvailabilityChecker(nil, 0, s.logger, s.metrics)
	}
	if s.concurrency <= 0 {
		s.concurrency = defaultAvailabilityConcurrency
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.fallback.Name == "" {
		s.fallback.Name = "Fallback Support"
	}
	if s.fallback.Email == "" {
		s.fallback.Email = "fallback@company.com"
	}
	return s
}

func newTicketValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateTicket returns *domain.InvalidTicketDataError for missing or blank
// required fields. A non-standard priority is only logged.
func (s *AssignmentService) ValidateTicket(ticket domain.Ticket) error {
	var missing []string
	if err := s.validate.Struct(ticket); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return &domain.InvalidTicketDataError{Fields: []string{err.Error()}}
		}
		for _, fe := range verrs {
			missing = append(missing, fe.Field())
		}
	}

	// required accepts whitespace-only strings
	v := reflect.ValueOf(ticket)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.String || f.Len() == 0 {
			continue
		}
		if strings.TrimSpace(f.String()) == "" {
			name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return &domain.InvalidTicketDataError{Fields: missing}
	}

	if !ticket.Priority.IsStandard() {
		s.logger.Warn("non-standard ticket priority",
			zap.String("ticket_id", ticket.ID),
			zap.String("priority", string(ticket.Priority)))
	}
	return nil
}

// EvaluateTicket runs the whole decision without recording or publishing it.
func (s *AssignmentService) EvaluateTicket(ctx context.Context, ticket domain.Ticket) (*AssignmentEvaluation, error) {
	if err := s.ValidateTicket(ticket); err != nil {
		return nil, err
	}

	analysis := s.analyzer.Analyze(ctx, ticket)
	technicians := s.fetchTechnicians(ctx, ticket.ID)

	available := s.checkAvailability(ctx, technicians, ticket.DueDate)

	eval := &AssignmentEvaluation{Analysis: analysis}
	pool := make([]domain.AssignmentCandidate, 0, len(technicians))
	for i, tech := range technicians {
		match := ScoreSkills(analysis.RequiredSkills, tech.Skills)
		tier, ok := s.policy.TierFor(available[i], match.Classification)
		if !ok {
			reason := "tier disabled by policy"
			if !available[i] {
				reason = "calendar unavailable before due date"
			}
			eval.Excluded = append(eval.Excluded, ExcludedTechnician{
				Technician:        tech,
				Match:             match,
				CalendarAvailable: available[i],
				Reason:            reason,
			})
			s.logger.Debug("technician excluded",
				zap.String("ticket_id", ticket.ID),
				zap.String("technician_id", tech.ID),
				zap.Int("tier", int(tier)),
				zap.String("reason", reason))
			continue
		}
		pool = append(pool, domain.AssignmentCandidate{
			Technician:        tech,
			Match:             match,
			CalendarAvailable: available[i],
			Tier:              tier,
			Reasoning:         CandidateReasoning(tech, match, available[i]),
		})
	}

	eval.Candidates = RankCandidates(pool)
	if best, ok := SelectBestCandidate(eval.Candidates); ok {
		eval.Selected = best
	}
	eval.Result = BuildAssignmentResult(ticket, eval.Selected, s.fallback, s.now())
	return eval, nil
}

// AssignTicket decides, records and publishes an assignment. Only invalid
// ticket data is returned as an error.
func (s *AssignmentService) AssignTicket(ctx context.Context, ticket domain.Ticket) (*domain.AssignmentResult, error) {
	eval, err := s.EvaluateTicket(ctx, ticket)
	if err != nil {
		return nil, err
	}
	result := eval.Result

	s.metrics.RecordAssignment(result.Status, result.AssignmentTier)
	logFields := []zap.Field{
		zap.String("ticket_id", result.TicketID),
		zap.String("technician", result.AssignedTechnician),
		zap.String("status", string(result.Status)),
		zap.Int("tier", int(result.AssignmentTier)),
		zap.Int("skill_match_percentage", result.SkillMatchPercentage),
		zap.Int("candidates", len(eval.Candidates)),
		zap.Int("excluded", len(eval.Excluded)),
	}
	if result.IsFallback() {
		s.logger.Warn("ticket assigned to fallback", logFields...)
	} else {
		s.logger.Info("ticket assigned", logFields...)
	}

	recordID := s.recordAssignment(ctx, result)
	s.publishAssignmentEvent(ctx, result, recordID)
	return &result, nil
}

// ListAssignments returns the assignment log for a ticket.
func (s *AssignmentService) ListAssignments(ctx context.Context, ticketID string) ([]domain.AssignmentRecord, error) {
	if s.records == nil {
		return nil, repository.ErrNoDatabase
	}
	return s.records.ListByTicket(ctx, ticketID)
}

// ListTechnicians exposes the roster the engine would see.
func (s *AssignmentService) ListTechnicians(ctx context.Context) ([]domain.Technician, error) {
	if s.directory == nil {
		return []domain.Technician{}, nil
	}
	return s.directory.ListActive(ctx)
}

// TierDefinitions returns the active policy table.
func (s *AssignmentService) TierDefinitions() []domain.TierDefinition {
	return s.policy.Definitions()
}

func (s *AssignmentService) fetchTechnicians(ctx context.Context, ticketID string) []domain.Technician {
	if s.directory == nil {
		return nil
	}
	start := time.Now()
	technicians, err := s.directory.ListActive(ctx)
	s.metrics.ObserveDependency("technician_directory", err, time.Since(start))
	if err != nil {
		s.logger.Error("technician directory unavailable, treating roster as empty",
			zap.String("ticket_id", ticketID),
			zap.Error(err))
		return nil
	}
	return technicians
}

// checkAvailability fans out calendar checks; slot i belongs to technicians[i].
func (s *AssignmentService) checkAvailability(ctx context.Context, technicians []domain.Technician, dueDate string) []bool {
	available := make([]bool, len(technicians))
	if len(technicians) == 0 {
		return available
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range technicians {
		i := i
		g.Go(func() error {
			available[i] = s.availability.IsAvailable(gctx, technicians[i].Email, dueDate)
			return nil
		})
	}
	_ = g.Wait()
	return available
}

func (s *AssignmentService) recordAssignment(ctx context.Context, result domain.AssignmentResult) string {
	if s.records == nil {
		return ""
	}
	record := &domain.AssignmentRecord{
		ID:       uuid.NewString(),
		TicketID: result.TicketID,
		Result:   result,
	}
	if err := s.records.Create(ctx, record); err != nil {
		s.metrics.RecordPipelineFailure("record")
		s.logger.Error("failed to record assignment",
			zap.String("ticket_id", result.TicketID),
			zap.Error(err))
		return ""
	}
	return record.ID
}

func (s *AssignmentService) publishAssignmentEvent(ctx context.Context, result domain.AssignmentResult, recordID string) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketAssigned,
		TicketID:  result.TicketID,
		Actor:     events.Actor{Type: domain.SubjectTypeSystem},
		Timestamp: s.now(),
		Payload:   events.TicketAssignedPayload{Result: result, RecordID: recordID},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.metrics.RecordPipelineFailure("publish")
		s.logger.Error("failed to publish assignment event",
			zap.String("ticket_id", result.TicketID),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}
