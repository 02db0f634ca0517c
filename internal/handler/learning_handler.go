package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uzacademy/course-platform-api/internal/service"
	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
	"github.com/uzacademy/course-platform-api/pkg/response"
)

// LearningHandler serves the learner dashboard and lesson navigation.
type LearningHandler struct {
	service *service.LearningService
}

// NewLearningHandler creates a new learning handler.
func NewLearningHandler(svc *service.LearningService) *LearningHandler {
	return &LearningHandler{service: svc}
}

// Dashboard godoc
// @Summary Learner dashboard
// @Description Enrolled courses plus progress and navigation for the requested lesson
// @Tags Learning
// @Produce json
// @Param course_id query string false "Selected course"
// @Param section query int false "Section index"
// @Param lesson query int false "Lesson index"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /learning/dashboard [get]
func (h *LearningHandler) Dashboard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	sectionIdx := queryIndex(c, "section")
	lessonIdx := queryIndex(c, "lesson")

	dashboard, err := h.service.Dashboard(c.Request.Context(), claims.UserID, c.Query("course_id"), sectionIdx, lessonIdx)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dashboard, nil)
}

// queryIndex parses an optional integer query parameter. Absent or malformed
// values yield nil so navigation degrades instead of erroring.
func queryIndex(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}
