package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-assignment/internal/domain"
)

// AssignmentRepository is the append-only assignment log.
type AssignmentRepository interface {
	Create(ctx context.Context, record *domain.AssignmentRecord) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.AssignmentRecord, error)
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository builds repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

func (r *assignmentRepository) Create(ctx context.Context, record *domain.AssignmentRecord) error {
	if r.pool == nil {
		return ErrNoDatabase
	}
	payload, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("encode assignment result: %w", err)
	}

	var technicianID *string
	if record.Result.TechnicianID != "" {
		technicianID = &record.Result.TechnicianID
	}

	const query = `
        INSERT INTO ticket_assignments (id, ticket_id, technician_id, technician_name, technician_email, status, assignment_tier, skill_match_percentage, result, assigned_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		record.ID,
		record.TicketID,
		technicianID,
		record.Result.AssignedTechnician,
		record.Result.TechnicianEmail,
		string(record.Result.Status),
		int(record.Result.AssignmentTier),
		record.Result.SkillMatchPercentage,
		payload,
		record.Result.AssignedAt,
	).Scan(&record.CreatedAt)
}

func (r *assignmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.AssignmentRecord, error) {
	if r.pool == nil {
		return nil, ErrNoDatabase
	}
	const query = `
        SELECT id, ticket_id, result, created_at
        FROM ticket_assignments WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AssignmentRecord
	for rows.Next() {
		var (
			record  domain.AssignmentRecord
			payload []byte
		)
		if err := rows.Scan(&record.ID, &record.TicketID, &payload, &record.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &record.Result); err != nil {
			return nil, fmt.Errorf("decode assignment %s: %w", record.ID, err)
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
