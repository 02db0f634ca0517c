package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uzacademy/course-platform-api/internal/service"
	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
	"github.com/uzacademy/course-platform-api/pkg/response"
)

// EnrollmentHandler handles learner enrollment endpoints and admin grants.
type EnrollmentHandler struct {
	service *service.EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler.
func NewEnrollmentHandler(svc *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

type grantRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	CourseID string `json:"course_id" binding:"required"`
}

// ListMine godoc
// @Summary My enrollments
// @Description List the authenticated learner's enrolled courses
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /enrollments/me [get]
func (h *EnrollmentHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	enrollments, err := h.service.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, enrollments, nil)
}

// Grant godoc
// @Summary Grant enrollment
// @Description Enroll a user into a course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body grantRequest true "Grant payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Grant(c *gin.Context) {
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	enrollment, err := h.service.Grant(c.Request.Context(), req.UserID, req.CourseID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, enrollment)
}

// Revoke godoc
// @Summary Revoke enrollment
// @Description Remove a user's access to a course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body grantRequest true "Revoke payload"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments [delete]
func (h *EnrollmentHandler) Revoke(c *gin.Context) {
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.Revoke(c.Request.Context(), req.UserID, req.CourseID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
