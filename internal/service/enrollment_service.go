package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/uzacademy/course-platform-api/internal/models"
	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
)

type enrollmentRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error)
	Exists(ctx context.Context, userID, courseID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, userID, courseID string) error
}

type enrollmentCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type enrollmentUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// EnrollmentService manages course access grants. Learners read their own
// enrollments; granting and revoking is an admin operation.
type EnrollmentService struct {
	repo    enrollmentRepository
	courses enrollmentCourseReader
	users   enrollmentUserReader
	logger  *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses enrollmentCourseReader, users enrollmentUserReader, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, users: users, logger: logger}
}

// ListForUser returns the user's enrollments with course context.
func (s *EnrollmentService) ListForUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

// Grant enrolls a user into a course. Granting an already held course is a
// conflict so the admin sees the duplicate instead of a silent no-op.
func (s *EnrollmentService) Grant(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	exists, err := s.repo.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "user is already enrolled in this course")
	}

	enrollment := &models.Enrollment{UserID: userID, CourseID: courseID}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	return enrollment, nil
}

// Revoke removes a user's access to a course.
func (s *EnrollmentService) Revoke(ctx context.Context, userID, courseID string) error {
	exists, err := s.repo.Exists(ctx, userID, courseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	if err := s.repo.Delete(ctx, userID, courseID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke enrollment")
	}
	return nil
}
