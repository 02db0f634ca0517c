package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uzacademy/course-platform-api/internal/models"
	"github.com/uzacademy/course-platform-api/internal/service"
	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
	"github.com/uzacademy/course-platform-api/pkg/response"
)

type uploadRecorder interface {
	RecordUpload(purpose models.UploadPurpose, outcome string)
}

// UploadHandler accepts multipart uploads and routes them through the
// destination policy.
type UploadHandler struct {
	service *service.UploadService
	metrics uploadRecorder
}

// NewUploadHandler creates a new upload handler. metrics may be nil.
func NewUploadHandler(svc *service.UploadService, metrics uploadRecorder) *UploadHandler {
	return &UploadHandler{service: svc, metrics: metrics}
}

// Upload godoc
// @Summary Upload a file
// @Description Store a file under the destination decided by its purpose tag
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param purpose path string true "Upload purpose" Enums(thumbnail, gallery, resource, lesson-video, student-work-media)
// @Param file formData file true "File payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /uploads/{purpose} [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	purpose := models.UploadPurpose(c.Param("purpose"))
	if !purpose.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown upload purpose"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file field is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	contentType := fileHeader.Header.Get("Content-Type")
	result, err := h.service.Store(c.Request.Context(), purpose, fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		h.record(purpose, "rejected")
		response.Error(c, err)
		return
	}

	h.record(purpose, "stored")
	response.Created(c, result)
}

func (h *UploadHandler) record(purpose models.UploadPurpose, outcome string) {
	if h.metrics != nil {
		h.metrics.RecordUpload(purpose, outcome)
	}
}
