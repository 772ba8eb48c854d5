package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pfe-platform/defense-api/internal/dto"
	"github.com/pfe-platform/defense-api/internal/models"
	appErrors "github.com/pfe-platform/defense-api/pkg/errors"
)

type projectRepository interface {
	List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int, error)
	FindByID(ctx context.Context, id string) (*models.Project, error)
	ExistsForStudent(ctx context.Context, studentID, excludeID string) (bool, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id string) error
}

type projectStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type projectProfessorReader interface {
	FindByID(ctx context.Context, id string) (*models.Professor, error)
}

// ProjectService manages thesis projects. Each student carries at most
// one project.
type ProjectService struct {
	repo       projectRepository
	students   projectStudentReader
	professors projectProfessorReader
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewProjectService constructs a ProjectService.
func NewProjectService(repo projectRepository, students projectStudentReader, professors projectProfessorReader, validate *validator.Validate, logger *zap.Logger) *ProjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{repo: repo, students: students, professors: professors, validator: validate, logger: logger}
}

// List returns projects with pagination metadata.
func (s *ProjectService) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, *models.Pagination, error) {
	projects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projects")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return projects, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get loads one project with relations.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}
	return project, nil
}

// Create registers a project after checking that the student and the
// supervisor exist and the student has no project yet.
func (s *ProjectService) Create(ctx context.Context, req dto.CreateProjectRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid project payload")
	}
	if err := s.ensureRelations(ctx, req.StudentID, req.SupervisorID); err != nil {
		return nil, err
	}
	taken, err := s.repo.ExistsForStudent(ctx, req.StudentID, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student projects")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already has a registered project")
	}

	project := &models.Project{
		Title:        req.Title,
		Description:  req.Description,
		StudentID:    req.StudentID,
		SupervisorID: req.SupervisorID,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create project")
	}
	return s.Get(ctx, project.ID)
}

// Update modifies a project, keeping the one-project-per-student rule.
func (s *ProjectService) Update(ctx context.Context, id string, req dto.UpdateProjectRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid project payload")
	}
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureRelations(ctx, req.StudentID, req.SupervisorID); err != nil {
		return nil, err
	}
	taken, err := s.repo.ExistsForStudent(ctx, req.StudentID, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student projects")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already has a registered project")
	}

	project.Title = req.Title
	project.Description = req.Description
	project.StudentID = req.StudentID
	project.SupervisorID = req.SupervisorID
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update project")
	}
	return s.Get(ctx, id)
}

// Delete removes a project record.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete project")
	}
	return nil
}

func (s *ProjectService) ensureRelations(ctx context.Context, studentID, supervisorID string) error {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if _, err := s.professors.FindByID(ctx, supervisorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "supervisor not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load supervisor")
	}
	return nil
}
