package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uzacademy/course-platform-api/internal/models"
	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
)

type fakeCartCourses struct {
	summaries []models.CourseSummary
}

func (f *fakeCartCourses) ListByIDs(_ context.Context, ids []string) ([]models.CourseSummary, error) {
	var out []models.CourseSummary
	for _, s := range f.summaries {
		for _, id := range ids {
			if s.ID == id {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

type fakeCartEnrollments struct {
	held    map[string]bool
	created []*models.Enrollment
}

func (f *fakeCartEnrollments) Exists(_ context.Context, userID, courseID string) (bool, error) {
	return f.held[userID+":"+courseID], nil
}

func (f *fakeCartEnrollments) Create(_ context.Context, e *models.Enrollment) error {
	f.created = append(f.created, e)
	return nil
}

type fakeCartUsers struct {
	user *models.User
}

func (f *fakeCartUsers) FindByID(context.Context, string) (*models.User, error) {
	return f.user, nil
}

type fakePurchaseNotifier struct {
	purchases     int
	purchaseTotal float64
	contactCourse string
}

func (f *fakePurchaseNotifier) NotifyPurchase(_, _ string, _ []string, total float64) {
	f.purchases++
	f.purchaseTotal = total
}

func (f *fakePurchaseNotifier) NotifyContactSales(_, _, courseTitle string) {
	f.contactCourse = courseTitle
}

func newCartFixture() (*fakeCartCourses, *fakeCartEnrollments, *fakePurchaseNotifier, *CartService) {
	courses := &fakeCartCourses{summaries: []models.CourseSummary{
		{ID: "course-1", Title: "Go Basics", Price: 49},
		{ID: "course-2", Title: "Advanced Go", Price: 99},
	}}
	enrollments := &fakeCartEnrollments{held: map[string]bool{}}
	users := &fakeCartUsers{user: &models.User{ID: "user-1", Email: "buyer@example.com", FirstName: "B", LastName: "User"}}
	notifier := &fakePurchaseNotifier{}
	svc := NewCartService(courses, &fakeCourseReader{course: &models.Course{ID: "course-1", Title: "Go Basics"}}, enrollments, users, notifier, nil, zap.NewNop())
	return courses, enrollments, notifier, svc
}

func TestCheckoutEnrollsAndNotifies(t *testing.T) {
	_, enrollments, notifier, svc := newCartFixture()

	result, err := svc.Checkout(context.Background(), "user-1", CheckoutRequest{CourseIDs: []string{"course-1", "course-2"}})
	require.NoError(t, err)
	assert.Len(t, result.EnrolledCourses, 2)
	assert.Equal(t, float64(148), result.TotalPrice)
	assert.Len(t, enrollments.created, 2)
	assert.Equal(t, 1, notifier.purchases)
	assert.Equal(t, float64(148), notifier.purchaseTotal)
}

func TestCheckoutSkipsHeldCourses(t *testing.T) {
	_, enrollments, _, svc := newCartFixture()
	enrollments.held["user-1:course-1"] = true

	result, err := svc.Checkout(context.Background(), "user-1", CheckoutRequest{CourseIDs: []string{"course-1", "course-2"}})
	require.NoError(t, err)
	require.Len(t, result.EnrolledCourses, 1)
	assert.Equal(t, "course-2", result.EnrolledCourses[0].ID)
	assert.Equal(t, float64(99), result.TotalPrice)
}

func TestCheckoutAllHeldIsConflict(t *testing.T) {
	_, enrollments, notifier, svc := newCartFixture()
	enrollments.held["user-1:course-1"] = true

	_, err := svc.Checkout(context.Background(), "user-1", CheckoutRequest{CourseIDs: []string{"course-1"}})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Zero(t, notifier.purchases)
}

func TestCheckoutUnknownCourseFailsWhole(t *testing.T) {
	_, enrollments, _, svc := newCartFixture()

	_, err := svc.Checkout(context.Background(), "user-1", CheckoutRequest{CourseIDs: []string{"course-1", "missing"}})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Empty(t, enrollments.created)
}

func TestCheckoutDeduplicatesIDs(t *testing.T) {
	_, enrollments, _, svc := newCartFixture()

	result, err := svc.Checkout(context.Background(), "user-1", CheckoutRequest{CourseIDs: []string{"course-1", "course-1"}})
	require.NoError(t, err)
	assert.Len(t, result.EnrolledCourses, 1)
	assert.Len(t, enrollments.created, 1)
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	_, _, _, svc := newCartFixture()

	_, err := svc.Checkout(context.Background(), "user-1", CheckoutRequest{})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestContactSalesNotifiesWithCourseTitle(t *testing.T) {
	_, _, notifier, svc := newCartFixture()

	err := svc.ContactSales(context.Background(), ContactSalesRequest{
		Name:     "Prospect",
		Phone:    "+998901234567",
		CourseID: "course-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Go Basics", notifier.contactCourse)
}
