package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pfe-platform/defense-api/internal/models"
)

// ProjectRepository provides persistence for thesis projects.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = "id, title, description, student_id, supervisor_id, created_at, updated_at"

type projectRow struct {
	models.Project
	StudentName       string `db:"student_name"`
	StudentEmail      string `db:"student_email"`
	SupervisorName    string `db:"supervisor_name"`
	SupervisorEmail   string `db:"supervisor_email"`
	SupervisorDept    string `db:"supervisor_department"`
	StudentNumberJoin string `db:"student_number"`
	StudentProgram    string `db:"program"`
}

const projectJoinQuery = `SELECT p.id, p.title, p.description, p.student_id, p.supervisor_id, p.created_at, p.updated_at,
	s.full_name AS student_name, s.email AS student_email, s.student_number, s.program,
	pr.full_name AS supervisor_name, pr.email AS supervisor_email, pr.department AS supervisor_department
	FROM projects p
	JOIN students s ON s.id = p.student_id
	JOIN professors pr ON pr.id = p.supervisor_id`

func (row projectRow) toProject() models.Project {
	project := row.Project
	project.Student = &models.Student{
		ID:            project.StudentID,
		FullName:      row.StudentName,
		Email:         row.StudentEmail,
		StudentNumber: row.StudentNumberJoin,
		Program:       row.StudentProgram,
	}
	project.Supervisor = &models.Professor{
		ID:         project.SupervisorID,
		FullName:   row.SupervisorName,
		Email:      row.SupervisorEmail,
		Department: row.SupervisorDept,
	}
	return project
}

// List returns projects with student and supervisor populated.
func (r *ProjectRepository) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int, error) {
	base := projectJoinQuery + " WHERE 1=1"
	countBase := "FROM projects p WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("p.title ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.SupervisorID != "" {
		conditions = append(conditions, fmt.Sprintf("p.supervisor_id = $%d", len(args)+1))
		args = append(args, filter.SupervisorID)
	}

	suffix := ""
	if len(conditions) > 0 {
		suffix = " AND " + strings.Join(conditions, " AND ")
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

	query := fmt.Sprintf("%s%s ORDER BY p.created_at ASC LIMIT %d OFFSET %d", base, suffix, size, offset)
	var rows []projectRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s%s", countBase, suffix), args...); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	projects := make([]models.Project, len(rows))
	for i, row := range rows {
		projects[i] = row.toProject()
	}
	return projects, total, nil
}

// ListAll returns every project with relations populated, ordered by
// creation time. The scheduler processes projects in this order.
func (r *ProjectRepository) ListAll(ctx context.Context) ([]models.Project, error) {
	var rows []projectRow
	if err := r.db.SelectContext(ctx, &rows, projectJoinQuery+" ORDER BY p.created_at ASC"); err != nil {
		return nil, fmt.Errorf("list all projects: %w", err)
	}
	projects := make([]models.Project, len(rows))
	for i, row := range rows {
		projects[i] = row.toProject()
	}
	return projects, nil
}

// FindByID loads a project with relations.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var row projectRow
	if err := r.db.GetContext(ctx, &row, projectJoinQuery+" WHERE p.id = $1", id); err != nil {
		return nil, err
	}
	project := row.toProject()
	return &project, nil
}

// FindByStudentID returns the student's project, if any. At most one
// project exists per student.
func (r *ProjectRepository) FindByStudentID(ctx context.Context, studentID string) (*models.Project, error) {
	query := fmt.Sprintf("SELECT %s FROM projects WHERE student_id = $1", projectColumns)
	var project models.Project
	if err := r.db.GetContext(ctx, &project, query, studentID); err != nil {
		return nil, err
	}
	return &project, nil
}

// ExistsForStudent reports whether the student already has a project,
// optionally excluding one project id (for updates).
func (r *ProjectRepository) ExistsForStudent(ctx context.Context, studentID, excludeID string) (bool, error) {
	project, err := r.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check project for student: %w", err)
	}
	return project.ID != excludeID, nil
}

// Create stores a new project record.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	const query = `INSERT INTO projects (id, title, description, student_id, supervisor_id, created_at, updated_at) VALUES (:id, :title, :description, :student_id, :supervisor_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, project); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// Update modifies a project record.
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now().UTC()
	const query = `UPDATE projects SET title = :title, description = :description, student_id = :student_id, supervisor_id = :supervisor_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, project); err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// Delete removes a project by id.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
