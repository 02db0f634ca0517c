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

func newCourseRepoMock(t *testing.T) (*CourseRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCourseRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func summaryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "category", "thumbnail_url", "price", "featured", "created_at"})
}

func TestCourseRepositoryListWithFilters(t *testing.T) {
	repo, mock := newCourseRepoMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, category, thumbnail_url, price, featured, created_at FROM courses WHERE category = $1 AND title ILIKE $2")).
		WithArgs("Programming", "%go%").
		WillReturnRows(summaryRows().AddRow("c1", "Go Basics", "Programming", "", 49.0, false, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses WHERE category = $1 AND title ILIKE $2")).
		WithArgs("Programming", "%go%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{Category: "Programming", Search: "go"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Go Basics", courses[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListByIDs(t *testing.T) {
	repo, mock := newCourseRepoMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id IN ($1,$2)")).
		WithArgs("c1", "c2").
		WillReturnRows(summaryRows().
			AddRow("c1", "Go Basics", "Programming", "", 49.0, false, now).
			AddRow("c2", "Advanced Go", "Programming", "", 99.0, true, now))

	courses, err := repo.ListByIDs(context.Background(), []string{"c1", "c2"})
	require.NoError(t, err)
	assert.Len(t, courses, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListByIDsEmpty(t *testing.T) {
	repo, _ := newCourseRepoMock(t)

	courses, err := repo.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, courses)
}

func TestCourseRepositoryDistinctCategories(t *testing.T) {
	repo, mock := newCourseRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT category FROM courses ORDER BY category")).
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("Design").AddRow("Programming"))

	categories, err := repo.DistinctCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Design", "Programming"}, categories)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreateFillsDefaults(t *testing.T) {
	repo, mock := newCourseRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO courses")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	course := &models.Course{Title: "Go Basics", Category: "Programming"}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.NotEmpty(t, course.ID)
	assert.False(t, course.CreatedAt.IsZero())
	assert.False(t, course.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositorySetFeatured(t *testing.T) {
	repo, mock := newCourseRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET featured = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("c1", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetFeatured(context.Background(), "c1", true))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDelete(t *testing.T) {
	repo, mock := newCourseRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "c1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
