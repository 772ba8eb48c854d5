package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/pfe-platform/defense-api/internal/dto"
	internalmiddleware "github.com/pfe-platform/defense-api/internal/middleware"
	"github.com/pfe-platform/defense-api/internal/models"
	"github.com/pfe-platform/defense-api/internal/service"
)

type projectSourceMock struct {
	projects []models.Project
}

func (m *projectSourceMock) ListAll(ctx context.Context) ([]models.Project, error) {
	return m.projects, nil
}

type professorSourceMock struct {
	professors []models.Professor
}

func (m *professorSourceMock) ListAll(ctx context.Context) ([]models.Professor, error) {
	return m.professors, nil
}

type roomSourceMock struct {
	rooms []models.Room
}

func (m *roomSourceMock) ListAvailable(ctx context.Context) ([]models.Room, error) {
	return m.rooms, nil
}

type defenseStoreMock struct {
	created []models.Defense
}

func (m *defenseStoreMock) DeleteRange(ctx context.Context, from, to time.Time) (int64, error) {
	return 0, nil
}

func (m *defenseStoreMock) Create(ctx context.Context, defense *models.Defense) error {
	m.created = append(m.created, *defense)
	return nil
}

type broadcasterMock struct {
	intents int
}

func (m *broadcasterMock) Broadcast(ctx context.Context, intents []service.NotificationIntent) service.BroadcastReport {
	m.intents += len(intents)
	return service.BroadcastReport{Delivered: len(intents)}
}

func generatorTestHandler() (*ScheduleGeneratorHandler, *defenseStoreMock, *broadcasterMock) {
	weekdays := []models.Weekday{models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday}
	pool := make([]models.Professor, 0, 3)
	for _, id := range []string{"p1", "p2", "p3"} {
		windows := make([]models.AvailabilityWindow, 0, len(weekdays))
		for _, day := range weekdays {
			windows = append(windows, models.AvailabilityWindow{
				Day:       day,
				StartTime: models.MustClock("08:00"),
				EndTime:   models.MustClock("18:00"),
			})
		}
		pool = append(pool, models.Professor{ID: id, FullName: "Prof " + id, Availability: windows})
	}

	projects := []models.Project{{
		ID:           "proj1",
		Title:        "Graph Databases",
		StudentID:    "s1",
		SupervisorID: "p1",
		Student:      &models.Student{ID: "s1", FullName: "Alice"},
	}}
	rooms := []models.Room{{ID: "r1", Name: "A101", IsAvailable: true}}

	defenses := &defenseStoreMock{}
	broadcast := &broadcasterMock{}
	generator := service.NewScheduleGeneratorService(
		&projectSourceMock{projects: projects},
		&professorSourceMock{professors: pool},
		&roomSourceMock{rooms: rooms},
		defenses,
		broadcast,
		nil, nil, nil, nil)
	return NewScheduleGeneratorHandler(generator, nil), defenses, broadcast
}

func TestGenerateScheduleSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, defenses, broadcast := generatorTestHandler()

	req, _ := http.NewRequest(http.MethodPost, "/schedule/generate", bytes.NewReader([]byte(`{"date":"2025-06-16"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, defenses.created, 1)
	require.Equal(t, 4, broadcast.intents)

	var envelope struct {
		Data dto.GenerateScheduleResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, 1, envelope.Data.TotalDefenses)
	require.Equal(t, "09:00", envelope.Data.Defenses[0].StartTime.Clock())
}

func TestGenerateScheduleInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := generatorTestHandler()

	req, _ := http.NewRequest(http.MethodPost, "/schedule/generate", bytes.NewReader([]byte(`{"date":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateScheduleMissingWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := generatorTestHandler()

	req, _ := http.NewRequest(http.MethodPost, "/schedule/generate", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateScheduleUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := generatorTestHandler()
	router := gin.New()
	router.POST("/schedule/generate", internalmiddleware.RequireRoles(models.RoleAdmin), handler.Generate)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/schedule/generate", bytes.NewReader([]byte(`{"date":"2025-06-16"}`)))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGenerateScheduleForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _, _ := generatorTestHandler()
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(internalmiddleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleStudent})
		c.Next()
	})
	router.POST("/schedule/generate", internalmiddleware.RequireRoles(models.RoleAdmin), handler.Generate)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/schedule/generate", bytes.NewReader([]byte(`{"date":"2025-06-16"}`)))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}
