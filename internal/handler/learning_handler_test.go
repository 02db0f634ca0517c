package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uzacademy/course-platform-api/internal/middleware"
	"github.com/uzacademy/course-platform-api/internal/models"
	"github.com/uzacademy/course-platform-api/internal/service"
)

type stubEnrollmentLister struct {
	enrollments []models.EnrollmentDetail
}

func (s *stubEnrollmentLister) ListByUser(context.Context, string) ([]models.EnrollmentDetail, error) {
	return s.enrollments, nil
}

type stubCourseReader struct {
	course *models.Course
}

func (s *stubCourseReader) FindByID(context.Context, string) (*models.Course, error) {
	return s.course, nil
}

func newLearningTestContext(t *testing.T, target string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func TestLearningDashboardHandlerUnauthenticated(t *testing.T) {
	svc := service.NewLearningService(&stubEnrollmentLister{}, &stubCourseReader{}, zap.NewNop())
	h := NewLearningHandler(svc)

	c, w := newLearningTestContext(t, "/api/v1/learning/dashboard", nil)
	h.Dashboard(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLearningDashboardHandlerReturnsSelection(t *testing.T) {
	course := &models.Course{
		ID:    "course-1",
		Title: "Go Basics",
		Sections: models.SectionList{
			{Title: "Intro", Lessons: []models.Lesson{
				{Title: "Hello", VideoURL: "https://cdn.example.com/a.mp4"},
				{Title: "Setup"},
			}},
		},
	}
	svc := service.NewLearningService(&stubEnrollmentLister{
		enrollments: []models.EnrollmentDetail{{CourseID: "course-1", CourseTitle: "Go Basics"}},
	}, &stubCourseReader{course: course}, zap.NewNop())
	h := NewLearningHandler(svc)

	c, w := newLearningTestContext(t, "/api/v1/learning/dashboard?course_id=course-1&section=0&lesson=0",
		&models.JWTClaims{UserID: "user-1", Role: models.RoleStudent})
	h.Dashboard(c)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			MyCourses          []models.EnrollmentDetail `json:"my_courses"`
			ProgressPercentage int                       `json:"progress_percentage"`
			HasNext            bool                      `json:"has_next"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data.MyCourses, 1)
	assert.Equal(t, 50, body.Data.ProgressPercentage)
	assert.True(t, body.Data.HasNext)
}

func TestLearningDashboardHandlerForbiddenCourse(t *testing.T) {
	svc := service.NewLearningService(&stubEnrollmentLister{
		enrollments: []models.EnrollmentDetail{{CourseID: "course-1"}},
	}, &stubCourseReader{}, zap.NewNop())
	h := NewLearningHandler(svc)

	c, w := newLearningTestContext(t, "/api/v1/learning/dashboard?course_id=other",
		&models.JWTClaims{UserID: "user-1", Role: models.RoleStudent})
	h.Dashboard(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestQueryIndexMalformed(t *testing.T) {
	c, _ := newLearningTestContext(t, "/api/v1/learning/dashboard?section=abc", nil)
	assert.Nil(t, queryIndex(c, "section"))
	assert.Nil(t, queryIndex(c, "missing"))

	c, _ = newLearningTestContext(t, "/api/v1/learning/dashboard?section=2", nil)
	idx := queryIndex(c, "section")
	require.NotNil(t, idx)
	assert.Equal(t, 2, *idx)
}
