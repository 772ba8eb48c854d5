package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfe-platform/defense-api/internal/dto"
	"github.com/pfe-platform/defense-api/internal/models"
	appErrors "github.com/pfe-platform/defense-api/pkg/errors"
)

type projectSourceStub struct {
	projects []models.Project
}

func (s *projectSourceStub) ListAll(ctx context.Context) ([]models.Project, error) {
	return s.projects, nil
}

type professorSourceStub struct {
	professors []models.Professor
}

func (s *professorSourceStub) ListAll(ctx context.Context) ([]models.Professor, error) {
	return s.professors, nil
}

type roomSourceStub struct {
	rooms []models.Room
}

func (s *roomSourceStub) ListAvailable(ctx context.Context) ([]models.Room, error) {
	return s.rooms, nil
}

type defenseStoreStub struct {
	purgedFrom time.Time
	purgedTo   time.Time
	purges     int
	created    []models.Defense
}

func (s *defenseStoreStub) DeleteRange(ctx context.Context, from, to time.Time) (int64, error) {
	s.purgedFrom = from
	s.purgedTo = to
	s.purges++
	purged := int64(len(s.created))
	s.created = nil
	return purged, nil
}

func (s *defenseStoreStub) Create(ctx context.Context, defense *models.Defense) error {
	s.created = append(s.created, *defense)
	return nil
}

type broadcasterStub struct {
	intents []NotificationIntent
}

func (s *broadcasterStub) Broadcast(ctx context.Context, intents []NotificationIntent) BroadcastReport {
	s.intents = append(s.intents, intents...)
	return BroadcastReport{Delivered: len(intents)}
}

type generatorFixture struct {
	projects   *projectSourceStub
	professors *professorSourceStub
	rooms      *roomSourceStub
	defenses   *defenseStoreStub
	broadcast  *broadcasterStub
	service    *ScheduleGeneratorService
}

func newGeneratorFixture(projects []models.Project, professors []models.Professor, rooms []models.Room) *generatorFixture {
	f := &generatorFixture{
		projects:   &projectSourceStub{projects: projects},
		professors: &professorSourceStub{professors: professors},
		rooms:      &roomSourceStub{rooms: rooms},
		defenses:   &defenseStoreStub{},
		broadcast:  &broadcasterStub{},
	}
	f.service = NewScheduleGeneratorService(f.projects, f.professors, f.rooms, f.defenses, f.broadcast, nil, nil, nil, nil)
	return f
}

func fullPool() []models.Professor {
	return []models.Professor{
		testProfessor("p1", weekdayWindows("08:00", "18:00")),
		testProfessor("p2", weekdayWindows("08:00", "18:00")),
		testProfessor("p3", weekdayWindows("08:00", "18:00")),
	}
}

func TestGenerateRequiresDateOrRange(t *testing.T) {
	f := newGeneratorFixture([]models.Project{testProject("proj1", "s1", "p1")}, fullPool(), []models.Room{testRoom("r1", "A101")})

	_, err := f.service.Generate(context.Background(), dto.GenerateScheduleRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = f.service.Generate(context.Background(), dto.GenerateScheduleRequest{
		Date:      "2025-06-16",
		DateRange: &dto.DateRange{From: "2025-06-16", To: "2025-06-17"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGeneratePreconditions(t *testing.T) {
	t.Run("no projects", func(t *testing.T) {
		f := newGeneratorFixture(nil, fullPool(), []models.Room{testRoom("r1", "A101")})
		_, err := f.service.Generate(context.Background(), dto.GenerateScheduleRequest{Date: "2025-06-16"})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrNoProjects.Code, appErrors.FromError(err).Code)
	})

	t.Run("not enough professors", func(t *testing.T) {
		f := newGeneratorFixture([]models.Project{testProject("proj1", "s1", "p1")}, fullPool()[:2], []models.Room{testRoom("r1", "A101")})
		_, err := f.service.Generate(context.Background(), dto.GenerateScheduleRequest{Date: "2025-06-16"})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrNotEnoughProfessors.Code, appErrors.FromError(err).Code)
	})

	t.Run("no rooms", func(t *testing.T) {
		f := newGeneratorFixture([]models.Project{testProject("proj1", "s1", "p1")}, fullPool(), nil)
		_, err := f.service.Generate(context.Background(), dto.GenerateScheduleRequest{Date: "2025-06-16"})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrNoRoomsAvailable.Code, appErrors.FromError(err).Code)
	})
}

func TestGenerateSingleDay(t *testing.T) {
	f := newGeneratorFixture([]models.Project{testProject("proj1", "s1", "p1")}, fullPool(), []models.Room{testRoom("r1", "A101")})

	resp, err := f.service.Generate(context.Background(), dto.GenerateScheduleRequest{Date: "2025-06-16"})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.TotalDefenses)
	assert.Equal(t, 1, resp.TotalDays)
	assert.Equal(t, 0, resp.UnscheduledProjects)
	require.Len(t, resp.Defenses, 1)
	assert.Equal(t, "09:00", resp.Defenses[0].StartTime.Clock())
	assert.Equal(t, "p2", resp.Defenses[0].JuryPresidentID)
	assert.Equal(t, "p3", resp.Defenses[0].JuryReporterID)

	// The target day is purged before placement and every participant
	// gets a notification.
	assert.Equal(t, 1, f.defenses.purges)
	assert.Equal(t, f.defenses.purgedFrom, f.defenses.purgedTo)
	assert.Len(t, f.broadcast.intents, 4)
}

func TestGenerateRangeSkipsWeekends(t *testing.T) {
	// Friday 2025-06-20 through Monday 2025-06-23. The jury pool only
	// has one slot per day, so the second project spills past the
	// weekend to Monday.
	limited := []models.AvailabilityWindow{
		window(models.Friday, "09:00", "09:30"),
		window(models.Saturday, "09:00", "09:30"),
		window(models.Sunday, "09:00", "09:30"),
		window(models.Monday, "09:00", "09:30"),
	}
	professors := []models.Professor{
		testProfessor("p1", limited),
		testProfessor("p2", limited),
		testProfessor("p3", limited),
	}
	projects := []models.Project{
		testProject("proj1", "s1", "p1"),
		testProject("proj2", "s2", "p1"),
	}
	f := newGeneratorFixture(projects, professors, []models.Room{testRoom("r1", "A101")})

	resp, err := f.service.Generate(context.Background(), dto.GenerateScheduleRequest{
		DateRange: &dto.DateRange{From: "2025-06-20", To: "2025-06-23"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TotalDefenses)
	assert.Equal(t, 2, resp.TotalDays)
	assert.Equal(t, 0, resp.UnscheduledProjects)
	require.Len(t, resp.Defenses, 2)
	assert.Equal(t, "2025-06-20", resp.Defenses[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2025-06-23", resp.Defenses[1].Date.Format("2006-01-02"))
}

func TestGenerateRangeStopsWhenAllPlaced(t *testing.T) {
	f := newGeneratorFixture([]models.Project{testProject("proj1", "s1", "p1")}, fullPool(), []models.Room{testRoom("r1", "A101")})

	resp, err := f.service.Generate(context.Background(), dto.GenerateScheduleRequest{
		DateRange: &dto.DateRange{From: "2025-06-16", To: "2025-06-20"},
	})
	require.NoError(t, err)

	// Everything fits on the first day; later days are not processed.
	assert.Equal(t, 1, resp.TotalDays)
	assert.Equal(t, 1, resp.TotalDefenses)
}

func TestGenerateReportsUnscheduledProjects(t *testing.T) {
	limited := []models.AvailabilityWindow{window(models.Monday, "09:00", "09:30")}
	professors := []models.Professor{
		testProfessor("p1", limited),
		testProfessor("p2", limited),
		testProfessor("p3", limited),
	}
	projects := []models.Project{
		testProject("proj1", "s1", "p1"),
		testProject("proj2", "s2", "p1"),
	}
	f := newGeneratorFixture(projects, professors, []models.Room{testRoom("r1", "A101")})

	resp, err := f.service.Generate(context.Background(), dto.GenerateScheduleRequest{Date: "2025-06-16"})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.TotalDefenses)
	assert.Equal(t, 1, resp.UnscheduledProjects)
	assert.Len(t, f.broadcast.intents, 4)
}

func TestGenerateRejectsInvertedRange(t *testing.T) {
	f := newGeneratorFixture([]models.Project{testProject("proj1", "s1", "p1")}, fullPool(), []models.Room{testRoom("r1", "A101")})

	_, err := f.service.Generate(context.Background(), dto.GenerateScheduleRequest{
		DateRange: &dto.DateRange{From: "2025-06-20", To: "2025-06-16"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
