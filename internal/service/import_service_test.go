package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfe-platform/defense-api/internal/models"
	appErrors "github.com/pfe-platform/defense-api/pkg/errors"
)

type professorRepoStub struct {
	created []models.Professor
}

func (s *professorRepoStub) List(ctx context.Context, filter models.ProfessorFilter) ([]models.Professor, int, error) {
	return s.created, len(s.created), nil
}

func (s *professorRepoStub) FindByID(ctx context.Context, id string) (*models.Professor, error) {
	for i := range s.created {
		if s.created[i].ID == id {
			return &s.created[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *professorRepoStub) FindByEmail(ctx context.Context, email string) (*models.Professor, error) {
	for i := range s.created {
		if s.created[i].Email == email {
			return &s.created[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *professorRepoStub) Create(ctx context.Context, prof *models.Professor) error {
	prof.ID = "p-created"
	s.created = append(s.created, *prof)
	return nil
}

func (s *professorRepoStub) Update(ctx context.Context, prof *models.Professor) error { return nil }

func (s *professorRepoStub) Delete(ctx context.Context, id string) error { return nil }

func (s *professorRepoStub) ListAvailability(ctx context.Context, professorID string) ([]models.AvailabilityWindow, error) {
	return nil, nil
}

func (s *professorRepoStub) ReplaceAvailability(ctx context.Context, professorID string, windows []models.AvailabilityWindow) error {
	return nil
}

func newImportFixture() (*ImportService, *professorRepoStub) {
	repo := &professorRepoStub{}
	professors := NewProfessorService(repo, nil, nil)
	return NewImportService(professors, nil, nil, nil), repo
}

func TestParseImportKind(t *testing.T) {
	kind, err := ParseImportKind("Professors")
	require.NoError(t, err)
	assert.Equal(t, ImportProfessors, kind)

	_, err = ParseImportKind("teachers")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTemplateContainsHeader(t *testing.T) {
	svc, _ := newImportFixture()

	template, err := svc.Template(ImportStudents)
	require.NoError(t, err)
	assert.Equal(t, "full_name,email,student_number,program\n", string(template))
}

func TestImportRejectsWrongHeader(t *testing.T) {
	svc, _ := newImportFixture()

	_, err := svc.Import(context.Background(), ImportProfessors, strings.NewReader("name,mail\nA,B\n"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestImportAppliesRowsIndependently(t *testing.T) {
	svc, repo := newImportFixture()

	file := strings.NewReader(
		"full_name,email,department\n" +
			"Prof One,one@uni.edu,CS\n" +
			"Prof Bad,not-an-email,CS\n" +
			"Prof Two,two@uni.edu,EE\n")

	summary, err := svc.Import(context.Background(), ImportProfessors, file)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 3, summary.Errors[0].Row)
	require.Len(t, repo.created, 2)
	assert.Equal(t, "one@uni.edu", repo.created[0].Email)
}

func TestImportSkipsDuplicateEmails(t *testing.T) {
	svc, repo := newImportFixture()

	file := strings.NewReader(
		"full_name,email,department\n" +
			"Prof One,one@uni.edu,CS\n" +
			"Prof Clone,one@uni.edu,CS\n")

	summary, err := svc.Import(context.Background(), ImportProfessors, file)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, repo.created, 1)
}
