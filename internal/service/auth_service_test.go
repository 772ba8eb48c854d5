package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfe-platform/defense-api/internal/models"
	appErrors "github.com/pfe-platform/defense-api/pkg/errors"
)

type authRepoStub struct {
	users map[string]*models.User
}

func (s *authRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func newAuthFixture(t *testing.T) (*AuthService, *models.User) {
	t.Helper()
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	professorID := "p-1"
	user := &models.User{
		ID:           "u-1",
		Email:        "prof@uni.edu",
		PasswordHash: hash,
		FullName:     "Prof One",
		Role:         models.RoleProfessor,
		ProfessorID:  &professorID,
		Active:       true,
	}
	repo := &authRepoStub{users: map[string]*models.User{user.ID: user}}
	svc := NewAuthService(repo, nil, nil, AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "defense-api",
	})
	return svc, user
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, user := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, models.RoleProfessor, resp.User.Role)

	claims, err := svc.VerifyToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleProfessor, claims.Role)
	require.NotNil(t, claims.ProfessorID)
	assert.Equal(t, "p-1", *claims.ProfessorID)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, user := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "wrongpass"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@uni.edu", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	svc, user := newAuthFixture(t)
	user.Active = false

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.VerifyToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
