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

// ProfessorRepository provides persistence for professors and their
// recurring availability windows.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository creates a new professor repository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

const professorColumns = "id, full_name, email, department, created_at, updated_at"

// List returns professors with optional filtering and pagination.
func (r *ProfessorRepository) List(ctx context.Context, filter models.ProfessorFilter) ([]models.Professor, int, error) {
	base := "FROM professors WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at ASC LIMIT %d OFFSET %d", professorColumns, base, size, offset)
	var professors []models.Professor
	if err := r.db.SelectContext(ctx, &professors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list professors: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count professors: %w", err)
	}

	return professors, total, nil
}

// ListAll returns every professor with availability windows attached,
// ordered by creation time. The scheduler depends on this ordering for
// deterministic jury selection.
func (r *ProfessorRepository) ListAll(ctx context.Context) ([]models.Professor, error) {
	query := fmt.Sprintf("SELECT %s FROM professors ORDER BY created_at ASC", professorColumns)
	var professors []models.Professor
	if err := r.db.SelectContext(ctx, &professors, query); err != nil {
		return nil, fmt.Errorf("list all professors: %w", err)
	}
	if len(professors) == 0 {
		return professors, nil
	}

	ids := make([]string, len(professors))
	for i, p := range professors {
		ids[i] = p.ID
	}
	windowQuery, windowArgs, err := sqlx.In(`SELECT id, professor_id, day_of_week, start_time, end_time FROM professor_availability WHERE professor_id IN (?) ORDER BY professor_id, day_of_week, start_time`, ids)
	if err != nil {
		return nil, fmt.Errorf("build availability query: %w", err)
	}
	windowQuery = r.db.Rebind(windowQuery)

	var windows []models.AvailabilityWindow
	if err := r.db.SelectContext(ctx, &windows, windowQuery, windowArgs...); err != nil {
		return nil, fmt.Errorf("list availability windows: %w", err)
	}

	byProfessor := make(map[string][]models.AvailabilityWindow, len(professors))
	for _, w := range windows {
		byProfessor[w.ProfessorID] = append(byProfessor[w.ProfessorID], w)
	}
	for i := range professors {
		professors[i].Availability = byProfessor[professors[i].ID]
	}
	return professors, nil
}

// FindByID loads a professor with availability windows.
func (r *ProfessorRepository) FindByID(ctx context.Context, id string) (*models.Professor, error) {
	query := fmt.Sprintf("SELECT %s FROM professors WHERE id = $1", professorColumns)
	var prof models.Professor
	if err := r.db.GetContext(ctx, &prof, query, id); err != nil {
		return nil, err
	}
	windows, err := r.ListAvailability(ctx, id)
	if err != nil {
		return nil, err
	}
	prof.Availability = windows
	return &prof, nil
}

// FindByEmail loads a professor by email.
func (r *ProfessorRepository) FindByEmail(ctx context.Context, email string) (*models.Professor, error) {
	query := fmt.Sprintf("SELECT %s FROM professors WHERE email = $1", professorColumns)
	var prof models.Professor
	if err := r.db.GetContext(ctx, &prof, query, email); err != nil {
		return nil, err
	}
	return &prof, nil
}

// Create stores a new professor record.
func (r *ProfessorRepository) Create(ctx context.Context, prof *models.Professor) error {
	if prof.ID == "" {
		prof.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	prof.CreatedAt = now
	prof.UpdatedAt = now

	const query = `INSERT INTO professors (id, full_name, email, department, created_at, updated_at) VALUES (:id, :full_name, :email, :department, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, prof); err != nil {
		return fmt.Errorf("create professor: %w", err)
	}
	return nil
}

// Update modifies a professor record.
func (r *ProfessorRepository) Update(ctx context.Context, prof *models.Professor) error {
	prof.UpdatedAt = time.Now().UTC()
	const query = `UPDATE professors SET full_name = :full_name, email = :email, department = :department, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, prof); err != nil {
		return fmt.Errorf("update professor: %w", err)
	}
	return nil
}

// Delete removes a professor and their availability windows.
func (r *ProfessorRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM professor_availability WHERE professor_id = $1`, id); err != nil {
		return fmt.Errorf("delete professor availability: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM professors WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete professor: %w", err)
	}
	return nil
}

// ListAvailability returns the professor's declared windows.
func (r *ProfessorRepository) ListAvailability(ctx context.Context, professorID string) ([]models.AvailabilityWindow, error) {
	const query = `SELECT id, professor_id, day_of_week, start_time, end_time FROM professor_availability WHERE professor_id = $1 ORDER BY day_of_week, start_time`
	var windows []models.AvailabilityWindow
	if err := r.db.SelectContext(ctx, &windows, query, professorID); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return windows, nil
}

// ReplaceAvailability swaps the professor's full window set inside a
// transaction.
func (r *ProfessorRepository) ReplaceAvailability(ctx context.Context, professorID string, windows []models.AvailabilityWindow) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace availability: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM professor_availability WHERE professor_id = $1`, professorID); err != nil {
		return fmt.Errorf("clear availability: %w", err)
	}
	for i := range windows {
		windows[i].ID = uuid.NewString()
		windows[i].ProfessorID = professorID
		if _, err = tx.NamedExecContext(ctx, `INSERT INTO professor_availability (id, professor_id, day_of_week, start_time, end_time) VALUES (:id, :professor_id, :day_of_week, :start_time, :end_time)`, &windows[i]); err != nil {
			return fmt.Errorf("insert availability window: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace availability: %w", err)
	}
	return nil
}
