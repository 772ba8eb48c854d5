package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pfe-platform/defense-api/internal/models"
	"github.com/pfe-platform/defense-api/internal/service"
	appErrors "github.com/pfe-platform/defense-api/pkg/errors"
	"github.com/pfe-platform/defense-api/pkg/response"
)

// DefenseHandler exposes the timetable read side.
type DefenseHandler struct {
	defenses *service.DefenseService
}

// NewDefenseHandler constructs DefenseHandler.
func NewDefenseHandler(defenses *service.DefenseService) *DefenseHandler {
	return &DefenseHandler{defenses: defenses}
}

// List godoc
// @Summary List defenses visible to the current user
// @Tags Defenses
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param roomId query string false "Filter by room"
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /defenses [get]
func (h *DefenseHandler) List(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter, err := defenseFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	defenses, err := h.defenses.ListForViewer(c.Request.Context(), claims, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, defenses, nil)
}

func defenseFilterFromQuery(c *gin.Context) (models.DefenseFilter, error) {
	var filter models.DefenseFilter
	if from := c.Query("from"); from != "" {
		parsed, err := time.ParseInLocation("2006-01-02", from, time.UTC)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "from must be formatted as YYYY-MM-DD")
		}
		filter.From = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.ParseInLocation("2006-01-02", to, time.UTC)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "to must be formatted as YYYY-MM-DD")
		}
		filter.To = &parsed
	}
	filter.RoomID = c.Query("roomId")
	return filter, nil
}
