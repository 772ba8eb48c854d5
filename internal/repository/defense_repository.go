package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pfe-platform/defense-api/internal/models"
)

// DefenseRepository provides persistence for scheduled defenses.
type DefenseRepository struct {
	db *sqlx.DB
}

// NewDefenseRepository creates a new defense repository.
func NewDefenseRepository(db *sqlx.DB) *DefenseRepository {
	return &DefenseRepository{db: db}
}

const defenseJoinQuery = `SELECT d.id, d.project_id, d.defense_date, d.start_time, d.end_time, d.room_id, d.jury_president_id, d.jury_reporter_id, d.created_at, d.updated_at,
	p.title AS project_title, p.supervisor_id,
	s.full_name AS student_name,
	sup.full_name AS supervisor_name,
	r.name AS room_name,
	jp.full_name AS jury_president_name,
	jr.full_name AS jury_reporter_name
	FROM defenses d
	JOIN projects p ON p.id = d.project_id
	JOIN students s ON s.id = p.student_id
	JOIN professors sup ON sup.id = p.supervisor_id
	JOIN rooms r ON r.id = d.room_id
	JOIN professors jp ON jp.id = d.jury_president_id
	JOIN professors jr ON jr.id = d.jury_reporter_id`

// List returns defenses matching the filter, ordered chronologically.
func (r *DefenseRepository) List(ctx context.Context, filter models.DefenseFilter) ([]models.Defense, error) {
	base := defenseJoinQuery + " WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("d.defense_date >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("d.defense_date <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}
	if filter.ProfessorID != "" {
		conditions = append(conditions, fmt.Sprintf("(d.jury_president_id = $%d OR d.jury_reporter_id = $%d OR p.supervisor_id = $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, filter.ProfessorID)
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("p.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("d.room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}
	base += " ORDER BY d.defense_date ASC, d.start_time ASC"

	var defenses []models.Defense
	if err := r.db.SelectContext(ctx, &defenses, base, args...); err != nil {
		return nil, fmt.Errorf("list defenses: %w", err)
	}
	return defenses, nil
}

// DeleteRange purges defenses whose date falls inside [from, to]. Each
// generation run replaces the window wholesale before re-placing.
func (r *DefenseRepository) DeleteRange(ctx context.Context, from, to time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM defenses WHERE defense_date >= $1 AND defense_date <= $2`, from, to)
	if err != nil {
		return 0, fmt.Errorf("delete defenses in range: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}

// Create stores a new defense record.
func (r *DefenseRepository) Create(ctx context.Context, defense *models.Defense) error {
	if defense.ID == "" {
		defense.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	defense.CreatedAt = now
	defense.UpdatedAt = now

	const query = `INSERT INTO defenses (id, project_id, defense_date, start_time, end_time, room_id, jury_president_id, jury_reporter_id, created_at, updated_at) VALUES (:id, :project_id, :defense_date, :start_time, :end_time, :room_id, :jury_president_id, :jury_reporter_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, defense); err != nil {
		return fmt.Errorf("create defense: %w", err)
	}
	return nil
}
