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

type professorRepository interface {
	List(ctx context.Context, filter models.ProfessorFilter) ([]models.Professor, int, error)
	FindByID(ctx context.Context, id string) (*models.Professor, error)
	FindByEmail(ctx context.Context, email string) (*models.Professor, error)
	Create(ctx context.Context, prof *models.Professor) error
	Update(ctx context.Context, prof *models.Professor) error
	Delete(ctx context.Context, id string) error
	ListAvailability(ctx context.Context, professorID string) ([]models.AvailabilityWindow, error)
	ReplaceAvailability(ctx context.Context, professorID string, windows []models.AvailabilityWindow) error
}

// ProfessorService manages the professor directory and their recurring
// availability windows.
type ProfessorService struct {
	repo      professorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfessorService constructs a ProfessorService.
func NewProfessorService(repo professorRepository, validate *validator.Validate, logger *zap.Logger) *ProfessorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfessorService{repo: repo, validator: validate, logger: logger}
}

// List returns professors with pagination metadata.
func (s *ProfessorService) List(ctx context.Context, filter models.ProfessorFilter) ([]models.Professor, *models.Pagination, error) {
	professors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list professors")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return professors, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get loads a professor with availability windows.
func (s *ProfessorService) Get(ctx context.Context, id string) (*models.Professor, error) {
	professor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professor")
	}
	return professor, nil
}

// Create registers a professor, rejecting duplicate emails.
func (s *ProfessorService) Create(ctx context.Context, req dto.CreateProfessorRequest) (*models.Professor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid professor payload")
	}
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a professor with this email already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check professor email")
	}

	professor := &models.Professor{
		FullName:   req.FullName,
		Email:      req.Email,
		Department: req.Department,
	}
	if err := s.repo.Create(ctx, professor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create professor")
	}
	return professor, nil
}

// Update modifies directory fields.
func (s *ProfessorService) Update(ctx context.Context, id string, req dto.UpdateProfessorRequest) (*models.Professor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid professor payload")
	}
	professor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	professor.FullName = req.FullName
	professor.Email = req.Email
	professor.Department = req.Department
	if err := s.repo.Update(ctx, professor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update professor")
	}
	return professor, nil
}

// Delete removes a professor and their availability windows.
func (s *ProfessorService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete professor")
	}
	return nil
}

// UpdateAvailability replaces the professor's declared windows. Windows
// are validated but not deduplicated; overlapping windows are legal.
func (s *ProfessorService) UpdateAvailability(ctx context.Context, id string, req dto.UpdateAvailabilityRequest) ([]models.AvailabilityWindow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	windows := make([]models.AvailabilityWindow, 0, len(req.Availability))
	for _, item := range req.Availability {
		day, err := models.ParseWeekday(item.Day)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		start, err := models.ParseClock(item.StartTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		end, err := models.ParseClock(item.EndTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		if end <= start {
			return nil, appErrors.Clone(appErrors.ErrValidation, "availability end_time must be after start_time")
		}
		windows = append(windows, models.AvailabilityWindow{
			ProfessorID: id,
			Day:         day,
			StartTime:   start,
			EndTime:     end,
		})
	}

	if err := s.repo.ReplaceAvailability(ctx, id, windows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update availability")
	}
	stored, err := s.repo.ListAvailability(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload availability")
	}
	return stored, nil
}
