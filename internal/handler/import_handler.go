package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pfe-platform/defense-api/internal/service"
	appErrors "github.com/pfe-platform/defense-api/pkg/errors"
	"github.com/pfe-platform/defense-api/pkg/response"
)

// ImportHandler exposes CSV bulk import endpoints.
type ImportHandler struct {
	imports *service.ImportService
}

// NewImportHandler constructs ImportHandler.
func NewImportHandler(imports *service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// Import godoc
// @Summary Bulk import records from a CSV file
// @Tags Import
// @Accept multipart/form-data
// @Produce json
// @Param type path string true "Resource type (professors, students, rooms)"
// @Param file formData file true "CSV file"
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /import/{type} [post]
func (h *ImportHandler) Import(c *gin.Context) {
	kind, err := service.ParseImportKind(c.Param("type"))
	if err != nil {
		response.Error(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "a CSV file is required in the 'file' field"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open uploaded file"))
		return
	}
	defer file.Close()

	summary, err := h.imports.Import(c.Request.Context(), kind, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Template godoc
// @Summary Download the CSV template for a resource type
// @Tags Import
// @Produce text/csv
// @Param type path string true "Resource type (professors, students, rooms)"
// @Security BearerAuth
// @Success 200 {file} file
// @Router /templates/{type} [get]
func (h *ImportHandler) Template(c *gin.Context) {
	kind, err := service.ParseImportKind(c.Param("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	content, err := h.imports.Template(kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+string(kind)+"-template.csv")
	c.Data(http.StatusOK, "text/csv", content)
}
