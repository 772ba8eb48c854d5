package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfe-platform/defense-api/internal/models"
)

type notificationRepoStub struct {
	mu        sync.Mutex
	created   []models.Notification
	createErr error
}

func (s *notificationRepoStub) Create(ctx context.Context, notification *models.Notification) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, *notification)
	return nil
}

func (s *notificationRepoStub) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	return s.created, nil
}

func (s *notificationRepoStub) CountUnread(ctx context.Context, userID string) (int, error) {
	return len(s.created), nil
}

func (s *notificationRepoStub) MarkRead(ctx context.Context, id, userID string) (int64, error) {
	for _, n := range s.created {
		if n.ID == id {
			return 1, nil
		}
	}
	return 0, nil
}

func (s *notificationRepoStub) MarkAllRead(ctx context.Context, userID string) error {
	return nil
}

type userResolverStub struct {
	byProfessor map[string]*models.User
	byStudent   map[string]*models.User
}

func (s *userResolverStub) FindByProfessorID(ctx context.Context, professorID string) (*models.User, error) {
	if user, ok := s.byProfessor[professorID]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userResolverStub) FindByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	if user, ok := s.byStudent[studentID]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func TestBroadcastDeliversToLinkedAccounts(t *testing.T) {
	repo := &notificationRepoStub{}
	users := &userResolverStub{
		byProfessor: map[string]*models.User{
			"p1": {ID: "u-p1"},
			"p2": {ID: "u-p2"},
		},
		byStudent: map[string]*models.User{
			"s1": {ID: "u-s1"},
		},
	}
	svc := NewNotificationService(repo, users, 2, nil)

	report := svc.Broadcast(context.Background(), []NotificationIntent{
		{ProfessorID: "p1", Title: "Jury Assignment", Message: "m1"},
		{ProfessorID: "p2", Title: "Jury Assignment", Message: "m2"},
		{StudentID: "s1", Title: "Defense Scheduled", Message: "m3"},
	})

	assert.Equal(t, 3, report.Delivered)
	assert.Equal(t, 0, report.Failed)
	require.Len(t, repo.created, 3)
	userIDs := []string{repo.created[0].UserID, repo.created[1].UserID, repo.created[2].UserID}
	assert.ElementsMatch(t, []string{"u-p1", "u-p2", "u-s1"}, userIDs)
}

func TestBroadcastSettlesEveryIntentDespiteFailures(t *testing.T) {
	repo := &notificationRepoStub{}
	users := &userResolverStub{
		byProfessor: map[string]*models.User{"p1": {ID: "u-p1"}},
	}
	svc := NewNotificationService(repo, users, 4, nil)

	// p-missing has no linked account; the rest still go through.
	report := svc.Broadcast(context.Background(), []NotificationIntent{
		{ProfessorID: "p-missing", Title: "t", Message: "m"},
		{ProfessorID: "p1", Title: "t", Message: "m"},
		{StudentID: "s-missing", Title: "t", Message: "m"},
	})

	assert.Equal(t, 1, report.Delivered)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "u-p1", repo.created[0].UserID)
}

func TestBroadcastStoreFailureCountsAsFailed(t *testing.T) {
	repo := &notificationRepoStub{createErr: errors.New("insert failed")}
	users := &userResolverStub{
		byProfessor: map[string]*models.User{"p1": {ID: "u-p1"}},
	}
	svc := NewNotificationService(repo, users, 1, nil)

	report := svc.Broadcast(context.Background(), []NotificationIntent{
		{ProfessorID: "p1", Title: "t", Message: "m"},
	})
	assert.Equal(t, 0, report.Delivered)
	assert.Equal(t, 1, report.Failed)
}

func TestBroadcastEmptyIntents(t *testing.T) {
	svc := NewNotificationService(&notificationRepoStub{}, &userResolverStub{}, 4, nil)
	report := svc.Broadcast(context.Background(), nil)
	assert.Zero(t, report.Delivered)
	assert.Zero(t, report.Failed)
}
