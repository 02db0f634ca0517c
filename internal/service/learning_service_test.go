package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uzacademy/course-platform-api/internal/models"
	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
)

func intPtr(v int) *int { return &v }

func outlineWithVideos() models.SectionList {
	return models.SectionList{
		{Title: "Basics", Lessons: []models.Lesson{
			{Title: "Intro", VideoURL: "https://cdn.example.com/a.mp4"},
			{Title: "Setup", VideoURL: "https://cdn.example.com/b.mp4"},
		}},
		{Title: "Advanced", Lessons: []models.Lesson{
			{Title: "Deep dive", VideoURL: ""},
		}},
	}
}

func TestResolveLessonProgress(t *testing.T) {
	// 2 of 3 lessons carry a video: 66.67 rounds to 67.
	res := ResolveLesson(outlineWithVideos(), nil, nil)
	assert.Equal(t, 67, res.ProgressPercentage)
	assert.Nil(t, res.CurrentLesson)
	assert.False(t, res.HasPrevious)
	assert.False(t, res.HasNext)
}

func TestResolveLessonEmptyOutline(t *testing.T) {
	res := ResolveLesson(nil, intPtr(0), intPtr(0))
	assert.Equal(t, 0, res.ProgressPercentage)
	assert.Nil(t, res.CurrentLesson)

	res = ResolveLesson(models.SectionList{{Title: "Empty"}}, intPtr(0), intPtr(0))
	assert.Equal(t, 0, res.ProgressPercentage)
	assert.Nil(t, res.CurrentLesson)
}

func TestResolveLessonCurrentAnnotated(t *testing.T) {
	res := ResolveLesson(outlineWithVideos(), intPtr(1), intPtr(0))
	require.NotNil(t, res.CurrentLesson)
	assert.Equal(t, "Deep dive", res.CurrentLesson.Title)
	assert.Equal(t, 1, res.CurrentLesson.SectionIndex)
	assert.Equal(t, 0, res.CurrentLesson.LessonIndex)
}

func TestResolveLessonNavigation(t *testing.T) {
	sections := outlineWithVideos()

	// First lesson of the first section: nothing before, something after.
	res := ResolveLesson(sections, intPtr(0), intPtr(0))
	require.NotNil(t, res.CurrentLesson)
	assert.False(t, res.HasPrevious)
	assert.True(t, res.HasNext)

	// Last lesson of the first section: previous within section, next in
	// the adjacent section.
	res = ResolveLesson(sections, intPtr(0), intPtr(1))
	assert.True(t, res.HasPrevious)
	assert.True(t, res.HasNext)

	// First lesson of the second section: previous lands on the prior
	// section's last lesson, nothing after.
	res = ResolveLesson(sections, intPtr(1), intPtr(0))
	assert.True(t, res.HasPrevious)
	assert.False(t, res.HasNext)
}

func TestResolveLessonEmptyAdjacentSection(t *testing.T) {
	sections := models.SectionList{
		{Title: "Empty"},
		{Title: "Content", Lessons: []models.Lesson{{Title: "Only", VideoURL: "v"}}},
		{Title: "Also empty"},
	}

	// An empty neighbouring section is not a landing point in either
	// direction.
	res := ResolveLesson(sections, intPtr(1), intPtr(0))
	require.NotNil(t, res.CurrentLesson)
	assert.False(t, res.HasPrevious)
	assert.False(t, res.HasNext)
}

func TestResolveLessonOutOfRangeIndices(t *testing.T) {
	sections := outlineWithVideos()

	cases := []struct {
		name    string
		section *int
		lesson  *int
	}{
		{"section too large", intPtr(5), intPtr(0)},
		{"lesson too large", intPtr(0), intPtr(9)},
		{"negative section", intPtr(-1), intPtr(0)},
		{"negative lesson", intPtr(0), intPtr(-2)},
		{"only section given", intPtr(0), nil},
		{"only lesson given", nil, intPtr(0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ResolveLesson(sections, tc.section, tc.lesson)
			assert.Nil(t, res.CurrentLesson)
			assert.False(t, res.HasPrevious)
			assert.False(t, res.HasNext)
			// Progress is still reported for the outline.
			assert.Equal(t, 67, res.ProgressPercentage)
		})
	}
}

type fakeEnrollmentLister struct {
	enrollments []models.EnrollmentDetail
	err         error
}

func (f *fakeEnrollmentLister) ListByUser(context.Context, string) ([]models.EnrollmentDetail, error) {
	return f.enrollments, f.err
}

type fakeCourseReader struct {
	course *models.Course
	err    error
}

func (f *fakeCourseReader) FindByID(context.Context, string) (*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.course, nil
}

func TestLearningDashboardWithoutSelection(t *testing.T) {
	svc := NewLearningService(&fakeEnrollmentLister{
		enrollments: []models.EnrollmentDetail{{CourseID: "course-1", CourseTitle: "Go"}},
	}, &fakeCourseReader{}, zap.NewNop())

	dashboard, err := svc.Dashboard(context.Background(), "user-1", "", nil, nil)
	require.NoError(t, err)
	require.Len(t, dashboard.MyCourses, 1)
	assert.Nil(t, dashboard.SelectedCourse)
	assert.Nil(t, dashboard.CurrentLesson)
}

func TestLearningDashboardRejectsUnenrolledCourse(t *testing.T) {
	svc := NewLearningService(&fakeEnrollmentLister{
		enrollments: []models.EnrollmentDetail{{CourseID: "course-1"}},
	}, &fakeCourseReader{}, zap.NewNop())

	_, err := svc.Dashboard(context.Background(), "user-1", "course-2", nil, nil)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestLearningDashboardResolvesSelection(t *testing.T) {
	course := &models.Course{ID: "course-1", Title: "Go", Sections: outlineWithVideos()}
	svc := NewLearningService(&fakeEnrollmentLister{
		enrollments: []models.EnrollmentDetail{{CourseID: "course-1"}},
	}, &fakeCourseReader{course: course}, zap.NewNop())

	dashboard, err := svc.Dashboard(context.Background(), "user-1", "course-1", intPtr(0), intPtr(1))
	require.NoError(t, err)
	require.NotNil(t, dashboard.SelectedCourse)
	require.NotNil(t, dashboard.CurrentLesson)
	assert.Equal(t, "Setup", dashboard.CurrentLesson.Title)
	assert.Equal(t, 67, dashboard.ProgressPercentage)
}

func TestLearningDashboardCourseVanished(t *testing.T) {
	svc := NewLearningService(&fakeEnrollmentLister{
		enrollments: []models.EnrollmentDetail{{CourseID: "course-1"}},
	}, &fakeCourseReader{err: sql.ErrNoRows}, zap.NewNop())

	_, err := svc.Dashboard(context.Background(), "user-1", "course-1", nil, nil)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
