package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/uzacademy/course-platform-api/internal/service"
	"github.com/uzacademy/course-platform-api/pkg/response"
)

// ExportHandler streams admin back-office downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Users godoc
// @Summary Export users
// @Description Download the user list as CSV
// @Tags Exports
// @Produce text/csv
// @Success 200 {file} file
// @Router /exports/users [get]
func (h *ExportHandler) Users(c *gin.Context) {
	file, err := h.service.UsersCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	stream(c, file)
}

// Enrollments godoc
// @Summary Export enrollments
// @Description Download every enrollment as CSV
// @Tags Exports
// @Produce text/csv
// @Success 200 {file} file
// @Router /exports/enrollments [get]
func (h *ExportHandler) Enrollments(c *gin.Context) {
	file, err := h.service.EnrollmentsCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	stream(c, file)
}

// Catalog godoc
// @Summary Export catalog
// @Description Download the course catalog as PDF
// @Tags Exports
// @Produce application/pdf
// @Success 200 {file} file
// @Router /exports/catalog [get]
func (h *ExportHandler) Catalog(c *gin.Context) {
	file, err := h.service.CatalogPDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	stream(c, file)
}

func stream(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(200, file.ContentType, file.Payload)
}
