package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/pfe-platform/defense-api/internal/models"
)

func TestProfessorRepositoryListAllAttachesAvailability(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewProfessorRepository(db)
	now := time.Now()

	professorRows := sqlmock.NewRows([]string{"id", "full_name", "email", "department", "created_at", "updated_at"}).
		AddRow("p-1", "Prof One", "one@uni.edu", "CS", now, now).
		AddRow("p-2", "Prof Two", "two@uni.edu", "CS", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name, email, department, created_at, updated_at FROM professors ORDER BY created_at ASC")).
		WillReturnRows(professorRows)

	windowRows := sqlmock.NewRows([]string{"id", "professor_id", "day_of_week", "start_time", "end_time"}).
		AddRow("w-1", "p-1", "MONDAY", "09:00", "12:00").
		AddRow("w-2", "p-2", "TUESDAY", "13:00", "17:00")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, professor_id, day_of_week, start_time, end_time FROM professor_availability")).
		WithArgs("p-1", "p-2").
		WillReturnRows(windowRows)

	professors, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, professors, 2)

	require.Len(t, professors[0].Availability, 1)
	require.Equal(t, models.Monday, professors[0].Availability[0].Day)
	require.Equal(t, "09:00", professors[0].Availability[0].StartTime.Clock())
	require.Len(t, professors[1].Availability, 1)
	require.Equal(t, models.Tuesday, professors[1].Availability[0].Day)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfessorRepositoryReplaceAvailability(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewProfessorRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM professor_availability WHERE professor_id = $1")).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO professor_availability")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	windows := []models.AvailabilityWindow{
		{Day: models.Monday, StartTime: models.MustClock("09:00"), EndTime: models.MustClock("12:00")},
	}
	require.NoError(t, repo.ReplaceAvailability(context.Background(), "p-1", windows))
	require.Equal(t, "p-1", windows[0].ProfessorID)
	require.NotEmpty(t, windows[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfessorRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewProfessorRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO professors")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	prof := &models.Professor{FullName: "Prof New", Email: "new@uni.edu", Department: "EE"}
	require.NoError(t, repo.Create(context.Background(), prof))
	require.NotEmpty(t, prof.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
