package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pfe-platform/defense-api/internal/models"
	appErrors "github.com/pfe-platform/defense-api/pkg/errors"
)

type defenseReader interface {
	List(ctx context.Context, filter models.DefenseFilter) ([]models.Defense, error)
}

// DefenseService serves the timetable read side. Listings are scoped to
// the viewer: professors see defenses they participate in, students see
// their own, admins see everything.
type DefenseService struct {
	repo   defenseReader
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewDefenseService constructs a DefenseService.
func NewDefenseService(repo defenseReader, cache *CacheService, ttl time.Duration, logger *zap.Logger) *DefenseService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefenseService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// ListForViewer returns the timetable visible to the authenticated
// user. Role scoping overrides any professor or student filter the
// caller supplied.
func (s *DefenseService) ListForViewer(ctx context.Context, claims *models.JWTClaims, filter models.DefenseFilter) ([]models.Defense, error) {
	if claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing authentication context")
	}

	switch claims.Role {
	case models.RoleProfessor:
		if claims.ProfessorID == nil || *claims.ProfessorID == "" {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "account is not linked to a professor record")
		}
		filter.ProfessorID = *claims.ProfessorID
	case models.RoleStudent:
		if claims.StudentID == nil || *claims.StudentID == "" {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "account is not linked to a student record")
		}
		filter.StudentID = *claims.StudentID
	case models.RoleAdmin:
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "unknown role")
	}

	key := timetableCacheKey(filter)
	var cached []models.Defense
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	defenses, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list defenses")
	}
	s.cache.Set(ctx, key, defenses, s.ttl)
	return defenses, nil
}

// ListAll returns defenses without viewer scoping, for exports.
func (s *DefenseService) ListAll(ctx context.Context, filter models.DefenseFilter) ([]models.Defense, error) {
	defenses, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list defenses")
	}
	return defenses, nil
}

func timetableCacheKey(filter models.DefenseFilter) string {
	from, to := "", ""
	if filter.From != nil {
		from = filter.From.Format("2006-01-02")
	}
	if filter.To != nil {
		to = filter.To.Format("2006-01-02")
	}
	return fmt.Sprintf("timetable:%s:%s:%s:%s:%s", from, to, filter.ProfessorID, filter.StudentID, filter.RoomID)
}
