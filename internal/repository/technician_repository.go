package repository

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-assignment/internal/domain"
)

// TechnicianRepository reads the technician roster.
type TechnicianRepository interface {
	ListActive(ctx context.Context) ([]domain.Technician, error)
}

type technicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository instantiates the repository.
func NewTechnicianRepository(pool *pgxpool.Pool) TechnicianRepository {
	return &technicianRepository{pool: pool}
}

// ListActive returns the full active roster, least loaded first.
func (r *technicianRepository) ListActive(ctx context.Context) ([]domain.Technician, error) {
	if r.pool == nil {
		return nil, ErrNoDatabase
	}

	const query = `
        SELECT id, name, email, role, skills, current_workload, specializations, active_flag, created_at, updated_at
        FROM technicians
        WHERE active_flag = TRUE
        ORDER BY current_workload ASC, name ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Technician
	for rows.Next() {
		tech, err := scanTechnician(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *tech)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTechnician(row rowScanner) (*domain.Technician, error) {
	var (
		tech            domain.Technician
		skills          *string
		specializations *string
	)
	if err := row.Scan(
		&tech.ID,
		&tech.Name,
		&tech.Email,
		&tech.Role,
		&skills,
		&tech.CurrentWorkload,
		&specializations,
		&tech.Active,
		&tech.CreatedAt,
		&tech.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if skills != nil {
		tech.Skills = ParseSkillList(*skills)
	}
	if specializations != nil {
		tech.Specializations = ParseSkillList(*specializations)
	}
	if tech.CurrentWorkload < 0 {
		tech.CurrentWorkload = 0
	}
	return &tech, nil
}

// ParseSkillList reads a skill column stored either as a JSON array or as a
// comma separated string.
func ParseSkillList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return trimAll(list)
		}
		raw = strings.Trim(raw, "[]")
	}
	return trimAll(strings.Split(raw, ","))
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.Trim(strings.TrimSpace(v), `"'`)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
