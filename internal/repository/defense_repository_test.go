package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/pfe-platform/defense-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func defenseRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "project_id", "defense_date", "start_time", "end_time", "room_id",
		"jury_president_id", "jury_reporter_id", "created_at", "updated_at",
		"project_title", "supervisor_id", "student_name", "supervisor_name",
		"room_name", "jury_president_name", "jury_reporter_name",
	})
}

func TestDefenseRepositoryListByProfessor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewDefenseRepository(db)
	now := time.Now()
	rows := defenseRows().AddRow(
		"d-1", "proj-1", time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), "09:00", "09:30", "r-1",
		"p-2", "p-3", now, now,
		"Graph Databases", "p-1", "Alice", "Prof One",
		"A101", "Prof Two", "Prof Three")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT d.id, d.project_id, d.defense_date")).
		WithArgs("p-2").
		WillReturnRows(rows)

	defenses, err := repo.List(context.Background(), models.DefenseFilter{ProfessorID: "p-2"})
	require.NoError(t, err)
	require.Len(t, defenses, 1)
	require.Equal(t, "d-1", defenses[0].ID)
	require.Equal(t, "09:00", defenses[0].StartTime.Clock())
	require.Equal(t, "09:30", defenses[0].EndTime.Clock())
	require.Equal(t, "Graph Databases", defenses[0].ProjectTitle)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDefenseRepositoryDeleteRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewDefenseRepository(db)
	from := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM defenses WHERE defense_date >= $1 AND defense_date <= $2")).
		WithArgs(from, to).
		WillReturnResult(sqlmock.NewResult(0, 3))

	purged, err := repo.DeleteRange(context.Background(), from, to)
	require.NoError(t, err)
	require.Equal(t, int64(3), purged)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDefenseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewDefenseRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO defenses")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	defense := &models.Defense{
		ProjectID:       "proj-1",
		Date:            time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		StartTime:       models.MustClock("09:00"),
		EndTime:         models.MustClock("09:30"),
		RoomID:          "r-1",
		JuryPresidentID: "p-2",
		JuryReporterID:  "p-3",
	}
	require.NoError(t, repo.Create(context.Background(), defense))
	require.NotEmpty(t, defense.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
