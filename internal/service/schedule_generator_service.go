package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pfe-platform/defense-api/internal/dto"
	"github.com/pfe-platform/defense-api/internal/models"
	appErrors "github.com/pfe-platform/defense-api/pkg/errors"
)

type schedulerProjectSource interface {
	ListAll(ctx context.Context) ([]models.Project, error)
}

type schedulerProfessorSource interface {
	ListAll(ctx context.Context) ([]models.Professor, error)
}

type schedulerRoomSource interface {
	ListAvailable(ctx context.Context) ([]models.Room, error)
}

type defenseStore interface {
	DeleteRange(ctx context.Context, from, to time.Time) (int64, error)
	Create(ctx context.Context, defense *models.Defense) error
}

type notificationBroadcaster interface {
	Broadcast(ctx context.Context, intents []NotificationIntent) BroadcastReport
}

type timetableCacheInvalidator interface {
	InvalidateTimetable(ctx context.Context)
}

type schedulingMetrics interface {
	RecordSchedulingRun(scheduled, unscheduled int, duration time.Duration)
}

// ScheduleGeneratorService orchestrates a full generation run: load
// inputs, purge the target window, plan day by day, persist placements
// and fan out notifications.
type ScheduleGeneratorService struct {
	projects      schedulerProjectSource
	professors    schedulerProfessorSource
	rooms         schedulerRoomSource
	defenses      defenseStore
	notifications notificationBroadcaster
	cache         timetableCacheInvalidator
	metrics       schedulingMetrics
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewScheduleGeneratorService wires the generator's dependencies. The
// notification, cache and metrics collaborators are optional.
func NewScheduleGeneratorService(
	projects schedulerProjectSource,
	professors schedulerProfessorSource,
	rooms schedulerRoomSource,
	defenses defenseStore,
	notifications notificationBroadcaster,
	cache timetableCacheInvalidator,
	metrics schedulingMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGeneratorService{
		projects:      projects,
		professors:    professors,
		rooms:         rooms,
		defenses:      defenses,
		notifications: notifications,
		cache:         cache,
		metrics:       metrics,
		validator:     validate,
		logger:        logger,
	}
}

const scheduleDateLayout = "2006-01-02"

// Generate runs the scheduler for a single date or an inclusive date
// range. The target window is purged first, so repeating a run with
// unchanged inputs reproduces the same timetable.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}

	from, to, err := resolveWindow(req)
	if err != nil {
		return nil, err
	}

	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load projects")
	}
	if len(projects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoProjects, "no projects to schedule")
	}

	professors, err := s.professors.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professors")
	}
	if len(professors) < 3 {
		return nil, appErrors.Clone(appErrors.ErrNotEnoughProfessors, "at least 3 professors are required to form juries")
	}

	rooms, err := s.rooms.ListAvailable(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	if len(rooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoRoomsAvailable, "no rooms available for defenses")
	}

	started := time.Now()

	purged, err := s.defenses.DeleteRange(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear existing defenses")
	}
	if purged > 0 {
		s.logger.Info("purged existing defenses before regeneration",
			zap.Int64("count", purged),
			zap.String("from", from.Format(scheduleDateLayout)),
			zap.String("to", to.Format(scheduleDateLayout)))
	}

	planner := newDefensePlanner(professors, rooms)
	remaining := projects
	rangeMode := req.DateRange != nil

	var defenses []models.Defense
	var intents []NotificationIntent
	totalDays := 0

	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if rangeMode && models.IsWeekend(date) {
			continue
		}
		if len(remaining) == 0 {
			break
		}
		totalDays++

		placed, leftover := planner.ScheduleDay(date, remaining)
		remaining = leftover

		for _, placement := range placed {
			defense := placementToDefense(placement)
			if err := s.defenses.Create(ctx, &defense); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist defense")
			}
			defenses = append(defenses, defense)
			intents = append(intents, notificationIntents(placement)...)
		}
	}

	if s.notifications != nil && len(intents) > 0 {
		report := s.notifications.Broadcast(ctx, intents)
		if report.Failed > 0 {
			s.logger.Warn("some defense notifications failed to dispatch",
				zap.Int("delivered", report.Delivered),
				zap.Int("failed", report.Failed))
		}
	}
	if s.cache != nil {
		s.cache.InvalidateTimetable(ctx)
	}
	if s.metrics != nil {
		s.metrics.RecordSchedulingRun(len(defenses), len(remaining), time.Since(started))
	}

	s.logger.Info("schedule generation completed",
		zap.Int("defenses", len(defenses)),
		zap.Int("days", totalDays),
		zap.Int("unscheduled", len(remaining)))

	return &dto.GenerateScheduleResponse{
		Defenses:            defenses,
		TotalDefenses:       len(defenses),
		TotalDays:           totalDays,
		UnscheduledProjects: len(remaining),
	}, nil
}

// resolveWindow validates the single-date versus range choice and
// returns the inclusive [from, to] bounds.
func resolveWindow(req dto.GenerateScheduleRequest) (time.Time, time.Time, error) {
	switch {
	case req.Date != "" && req.DateRange != nil:
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "provide either date or dateRange, not both")
	case req.Date != "":
		day, err := time.ParseInLocation(scheduleDateLayout, req.Date, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date must be formatted as YYYY-MM-DD")
		}
		return day, day, nil
	case req.DateRange != nil:
		from, err := time.ParseInLocation(scheduleDateLayout, req.DateRange.From, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "dateRange.from must be formatted as YYYY-MM-DD")
		}
		to, err := time.ParseInLocation(scheduleDateLayout, req.DateRange.To, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "dateRange.to must be formatted as YYYY-MM-DD")
		}
		if to.Before(from) {
			return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "dateRange.to must not precede dateRange.from")
		}
		return from, to, nil
	default:
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "either date or dateRange is required")
	}
}

func placementToDefense(placement Placement) models.Defense {
	defense := models.Defense{
		ProjectID:         placement.Project.ID,
		Date:              placement.Date,
		StartTime:         placement.Slot.Start,
		EndTime:           placement.Slot.End,
		RoomID:            placement.Room.ID,
		JuryPresidentID:   placement.President.ID,
		JuryReporterID:    placement.Reporter.ID,
		ProjectTitle:      placement.Project.Title,
		SupervisorID:      placement.Project.SupervisorID,
		RoomName:          placement.Room.Name,
		JuryPresidentName: placement.President.FullName,
		JuryReporterName:  placement.Reporter.FullName,
	}
	if placement.Project.Student != nil {
		defense.StudentName = placement.Project.Student.FullName
	}
	if placement.Project.Supervisor != nil {
		defense.SupervisorName = placement.Project.Supervisor.FullName
	}
	return defense
}
