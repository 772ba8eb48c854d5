package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pfe-platform/defense-api/internal/dto"
	"github.com/pfe-platform/defense-api/internal/service"
	appErrors "github.com/pfe-platform/defense-api/pkg/errors"
	"github.com/pfe-platform/defense-api/pkg/response"
)

// ScheduleGeneratorHandler exposes the schedule generation and export
// endpoints.
type ScheduleGeneratorHandler struct {
	generator *service.ScheduleGeneratorService
	exports   *service.ExportService
}

// NewScheduleGeneratorHandler constructs ScheduleGeneratorHandler.
func NewScheduleGeneratorHandler(generator *service.ScheduleGeneratorService, exports *service.ExportService) *ScheduleGeneratorHandler {
	return &ScheduleGeneratorHandler{generator: generator, exports: exports}
}

// Generate godoc
// @Summary Generate the defense schedule for a date or range
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Target date or range"
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /schedule/generate [post]
func (h *ScheduleGeneratorHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Export the defense timetable
// @Tags Schedule
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "Export format (csv or pdf)"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Security BearerAuth
// @Success 200 {file} file
// @Router /schedule/export [get]
func (h *ScheduleGeneratorHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	filter, err := defenseFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, err := h.exports.Timetable(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+payload.Filename)
	c.Data(http.StatusOK, payload.ContentType, payload.Content)
}
