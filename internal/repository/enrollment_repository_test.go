package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzacademy/course-platform-api/internal/models"
)

func newEnrollmentRepoMock(t *testing.T) (*EnrollmentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewEnrollmentRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestEnrollmentRepositoryListByUser(t *testing.T) {
	repo, mock := newEnrollmentRepoMock(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "user_id", "course_id", "course_title", "category", "thumbnail_url", "created_at"}).
		AddRow("e1", "user-1", "course-1", "Go Basics", "Programming", "/uploads/thumbnails/go.png", now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT e.id, e.user_id, e.course_id, c.title AS course_title")).
		WithArgs("user-1").
		WillReturnRows(rows)

	enrollments, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assert.Equal(t, "Go Basics", enrollments[0].CourseTitle)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExists(t *testing.T) {
	repo, mock := newEnrollmentRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2 LIMIT 1")).
		WithArgs("user-1", "course-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	held, err := repo.Exists(context.Background(), "user-1", "course-1")
	require.NoError(t, err)
	assert.True(t, held)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExistsNotFound(t *testing.T) {
	repo, mock := newEnrollmentRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments")).
		WithArgs("user-1", "course-2").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	held, err := repo.Exists(context.Background(), "user-1", "course-2")
	require.NoError(t, err)
	assert.False(t, held)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateFillsDefaults(t *testing.T) {
	repo, mock := newEnrollmentRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	enrollment := &models.Enrollment{UserID: "user-1", CourseID: "course-1"}
	require.NoError(t, repo.Create(context.Background(), enrollment))
	assert.NotEmpty(t, enrollment.ID)
	assert.False(t, enrollment.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDelete(t *testing.T) {
	repo, mock := newEnrollmentRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE user_id = $1 AND course_id = $2")).
		WithArgs("user-1", "course-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "user-1", "course-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
