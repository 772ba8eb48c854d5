package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/pfe-platform/defense-api/internal/models"
	appErrors "github.com/pfe-platform/defense-api/pkg/errors"
)

type notificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationUserResolver interface {
	FindByProfessorID(ctx context.Context, professorID string) (*models.User, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.User, error)
}

// BroadcastReport summarises an all-settled notification fan-out.
type BroadcastReport struct {
	Delivered int
	Failed    int
}

// NotificationService stores per-user notifications and dispatches
// scheduling fan-outs.
type NotificationService struct {
	repo    notificationRepository
	users   notificationUserResolver
	workers int
	logger  *zap.Logger
}

// NewNotificationService builds the service. workers bounds broadcast
// parallelism.
func NewNotificationService(repo notificationRepository, users notificationUserResolver, workers int, logger *zap.Logger) *NotificationService {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, users: users, workers: workers, logger: logger}
}

// Broadcast resolves each intent to a user account and stores the
// notification. Every intent is attempted regardless of earlier
// failures; the report counts both outcomes. A recipient without a
// linked account counts as a failure but never aborts the run.
func (s *NotificationService) Broadcast(ctx context.Context, intents []NotificationIntent) BroadcastReport {
	if len(intents) == 0 {
		return BroadcastReport{}
	}

	sem := make(chan struct{}, s.workers)
	results := make([]bool, len(intents))
	var wg sync.WaitGroup

	for i, intent := range intents {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, intent NotificationIntent) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = s.deliver(ctx, intent)
		}(i, intent)
	}
	wg.Wait()

	var report BroadcastReport
	for _, ok := range results {
		if ok {
			report.Delivered++
		} else {
			report.Failed++
		}
	}
	return report
}

func (s *NotificationService) deliver(ctx context.Context, intent NotificationIntent) bool {
	user, err := s.resolveRecipient(ctx, intent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("notification recipient has no linked account",
				zap.String("professor_id", intent.ProfessorID),
				zap.String("student_id", intent.StudentID))
		} else {
			s.logger.Error("failed to resolve notification recipient", zap.Error(err))
		}
		return false
	}

	notification := &models.Notification{
		UserID:  user.ID,
		Title:   intent.Title,
		Message: intent.Message,
		Link:    intent.Link,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Error("failed to store notification",
			zap.String("user_id", user.ID),
			zap.Error(err))
		return false
	}
	return true
}

func (s *NotificationService) resolveRecipient(ctx context.Context, intent NotificationIntent) (*models.User, error) {
	if intent.ProfessorID != "" {
		return s.users.FindByProfessorID(ctx, intent.ProfessorID)
	}
	if intent.StudentID != "" {
		return s.users.FindByStudentID(ctx, intent.StudentID)
	}
	return nil, sql.ErrNoRows
}

// ListForUser returns the user's notifications with the unread count.
func (s *NotificationService) ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, int, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count unread notifications")
	}
	return notifications, unread, nil
}

// MarkRead flags one notification as read for the user.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	affected, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
	}
	return nil
}

// MarkAllRead flags every unread notification for the user.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	return nil
}
