package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uzacademy/course-platform-api/internal/models"
	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
)

type cartCourseRepository interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.CourseSummary, error)
}

type cartEnrollmentRepository interface {
	Exists(ctx context.Context, userID, courseID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
}

type cartUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type purchaseNotifier interface {
	NotifyPurchase(name, email string, courseTitles []string, total float64)
	NotifyContactSales(name, phone, courseTitle string)
}

// CheckoutRequest lists the courses the learner is buying.
type CheckoutRequest struct {
	CourseIDs []string `json:"course_ids" validate:"required,min=1,dive,required"`
}

// CheckoutResult reports what the purchase granted.
type CheckoutResult struct {
	EnrolledCourses []models.CourseSummary `json:"enrolled_courses"`
	TotalPrice      float64                `json:"total_price"`
}

// ContactSalesRequest is the callback request form for managed purchases.
type ContactSalesRequest struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	CourseID string `json:"course_id" validate:"required"`
}

// CartService handles the purchase flow: a checkout enrolls the learner in
// every bought course and fires a sale notification.
type CartService struct {
	courses     cartCourseRepository
	courseByID  enrollmentCourseReader
	enrollments cartEnrollmentRepository
	users       cartUserReader
	notifier    purchaseNotifier
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCartService constructs CartService. notifier may be nil when purchase
// notifications are disabled.
func NewCartService(courses cartCourseRepository, courseByID enrollmentCourseReader, enrollments cartEnrollmentRepository, users cartUserReader, notifier purchaseNotifier, validate *validator.Validate, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CartService{
		courses:     courses,
		courseByID:  courseByID,
		enrollments: enrollments,
		users:       users,
		notifier:    notifier,
		validator:   validate,
		logger:      logger,
	}
}

// Checkout enrolls the learner in the requested courses. Courses already
// held are skipped without error; unknown course IDs fail the whole request.
func (s *CartService) Checkout(ctx context.Context, userID string, req CheckoutRequest) (*CheckoutResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid checkout payload")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	courses, err := s.courses.ListByIDs(ctx, req.CourseIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	if len(courses) != len(uniqueStrings(req.CourseIDs)) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "one or more courses do not exist")
	}

	result := &CheckoutResult{}
	var titles []string
	for _, course := range courses {
		held, err := s.enrollments.Exists(ctx, userID, course.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
		}
		if held {
			continue
		}
		if err := s.enrollments.Create(ctx, &models.Enrollment{UserID: userID, CourseID: course.ID}); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
		}
		result.EnrolledCourses = append(result.EnrolledCourses, course)
		result.TotalPrice += course.Price
		titles = append(titles, course.Title)
	}

	if len(result.EnrolledCourses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "all selected courses are already purchased")
	}

	if s.notifier != nil {
		s.notifier.NotifyPurchase(user.FullName(), user.Email, titles, result.TotalPrice)
	}
	return result, nil
}

// ContactSales records a callback request for a course and notifies the
// sales channel.
func (s *CartService) ContactSales(ctx context.Context, req ContactSalesRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contact request")
	}

	course, err := s.courseByID.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if s.notifier != nil {
		s.notifier.NotifyContactSales(req.Name, req.Phone, course.Title)
	}
	return nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
