package service

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/uzacademy/course-platform-api/internal/models"
	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
)

// LessonRef is a lesson annotated with its own position so callers can
// address it without recomputing indices. Lessons have no stable IDs:
// (section index, lesson index) is the identity.
type LessonRef struct {
	models.Lesson
	SectionIndex int `json:"section_index"`
	LessonIndex  int `json:"lesson_index"`
}

// LessonResolution is the outcome of resolving a position within a course
// outline. CurrentLesson is nil when no valid position was requested.
type LessonResolution struct {
	CurrentLesson      *LessonRef `json:"current_lesson,omitempty"`
	HasPrevious        bool       `json:"has_previous"`
	HasNext            bool       `json:"has_next"`
	ProgressPercentage int        `json:"progress_percentage"`
}

// ResolveLesson computes completion progress and lesson navigation for a
// course outline. It is a pure function of its inputs.
//
// A lesson counts as complete when its video URL is non-empty; progress is
// the rounded completed/total ratio and 0 for an empty outline. The current
// lesson is resolved only when both indices are supplied and in range;
// anything else degrades to "no current lesson" with navigation disabled,
// never a panic. Previous/next availability looks at the immediately
// adjacent section only: a neighbouring section with zero lessons is not a
// valid landing point and is not skipped past.
func ResolveLesson(sections models.SectionList, sectionIdx, lessonIdx *int) LessonResolution {
	var resolution LessonResolution

	total := 0
	completed := 0
	for _, section := range sections {
		total += len(section.Lessons)
		for _, lesson := range section.Lessons {
			if lesson.VideoURL != "" {
				completed++
			}
		}
	}
	if total > 0 {
		resolution.ProgressPercentage = int(math.Round(float64(completed) / float64(total) * 100))
	}

	if sectionIdx == nil || lessonIdx == nil {
		return resolution
	}
	si, li := *sectionIdx, *lessonIdx
	if si < 0 || si >= len(sections) {
		return resolution
	}
	section := sections[si]
	if li < 0 || li >= len(section.Lessons) {
		return resolution
	}

	resolution.CurrentLesson = &LessonRef{
		Lesson:       section.Lessons[li],
		SectionIndex: si,
		LessonIndex:  li,
	}

	if li > 0 {
		resolution.HasPrevious = true
	} else if si > 0 {
		resolution.HasPrevious = len(sections[si-1].Lessons) > 0
	}

	if li < len(section.Lessons)-1 {
		resolution.HasNext = true
	} else if si < len(sections)-1 {
		resolution.HasNext = len(sections[si+1].Lessons) > 0
	}

	return resolution
}

type learningEnrollmentLister interface {
	ListByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error)
}

type learningCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// LearningDashboard is the learner's lesson-navigation view: enrolled
// courses plus the resolution for the requested position, if any.
type LearningDashboard struct {
	MyCourses      []models.EnrollmentDetail `json:"my_courses"`
	SelectedCourse *models.Course            `json:"selected_course,omitempty"`
	LessonResolution
}

// LearningService composes the learner dashboard from enrollments and the
// pure lesson resolver.
type LearningService struct {
	enrollments learningEnrollmentLister
	courses     learningCourseReader
	logger      *zap.Logger
}

// NewLearningService constructs LearningService.
func NewLearningService(enrollments learningEnrollmentLister, courses learningCourseReader, logger *zap.Logger) *LearningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LearningService{enrollments: enrollments, courses: courses, logger: logger}
}

// Dashboard resolves the learner's dashboard. courseID selects one of the
// learner's enrolled courses; selecting a course the learner does not hold
// is forbidden. sectionIdx/lessonIdx are optional requested positions.
func (s *LearningService) Dashboard(ctx context.Context, userID, courseID string, sectionIdx, lessonIdx *int) (*LearningDashboard, error) {
	enrollments, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	dashboard := &LearningDashboard{MyCourses: enrollments}
	if courseID == "" {
		return dashboard, nil
	}

	enrolled := false
	for _, e := range enrollments {
		if e.CourseID == courseID {
			enrolled = true
			break
		}
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course is not in your enrollments")
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	dashboard.SelectedCourse = course
	dashboard.LessonResolution = ResolveLesson(course.Sections, sectionIdx, lessonIdx)
	return dashboard, nil
}
