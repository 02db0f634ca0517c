package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uzacademy/course-platform-api/internal/models"
	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
)

type fakeCourseRepo struct {
	courses    map[string]*models.Course
	summaries  map[string][]models.CourseSummary
	featured   []models.CourseSummary
	categories []string
	listCalls  int
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses:   map[string]*models.Course{},
		summaries: map[string][]models.CourseSummary{},
	}
}

func (f *fakeCourseRepo) FindByID(_ context.Context, id string) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCourseRepo) List(_ context.Context, filter models.CourseFilter) ([]models.CourseSummary, int, error) {
	f.listCalls++
	out := f.summaries[filter.Category]
	return out, len(out), nil
}

func (f *fakeCourseRepo) ListFeatured(context.Context, int) ([]models.CourseSummary, error) {
	return f.featured, nil
}

func (f *fakeCourseRepo) DistinctCategories(context.Context) ([]string, error) {
	return f.categories, nil
}

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	course.ID = "course-new"
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseRepo) SetFeatured(_ context.Context, id string, featured bool) error {
	f.courses[id].Featured = featured
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id string) error {
	delete(f.courses, id)
	return nil
}

// memoryCache is an in-process CacheStore mirroring the redis repository's
// JSON round trip.
type memoryCache struct {
	entries map[string][]byte
	sets    int
	purges  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	m.sets++
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, _ string) error {
	m.entries = map[string][]byte{}
	m.purges++
	return nil
}

func validCourseInput() CourseInput {
	return CourseInput{
		Title:    "Go Basics",
		Category: "Programming",
		Price:    49,
		Sections: models.SectionList{
			{Title: "Intro", Lessons: []models.Lesson{{Title: "Hello"}, {Title: "Setup"}}},
		},
	}
}

func TestCatalogBuildsAndCaches(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.categories = []string{"Programming", "Design"}
	repo.summaries["Programming"] = []models.CourseSummary{{ID: "c1", Title: "Go"}}
	repo.summaries["Design"] = []models.CourseSummary{{ID: "c2", Title: "Figma"}}
	repo.featured = []models.CourseSummary{{ID: "c1", Title: "Go"}}
	cache := newMemoryCache()
	svc := NewCourseService(repo, cache, time.Minute, nil, zap.NewNop())

	catalog, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Programming", "Design"}, catalog.Categories)
	assert.Len(t, catalog.ByCategory["Programming"], 1)
	assert.Len(t, catalog.Featured, 1)
	assert.Equal(t, 1, cache.sets)

	// Second call is served from the cache, no further repo lists.
	calls := repo.listCalls
	catalog, err = svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, calls, repo.listCalls)
	assert.Len(t, catalog.ByCategory["Design"], 1)
}

func TestCatalogWithoutCache(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.categories = []string{"Programming"}
	svc := NewCourseService(repo, nil, time.Minute, nil, zap.NewNop())

	catalog, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, catalog)
}

func TestCreateCourseInvalidatesCatalog(t *testing.T) {
	repo := newFakeCourseRepo()
	cache := newMemoryCache()
	cache.entries[catalogCacheKey] = []byte(`{}`)
	svc := NewCourseService(repo, cache, time.Minute, nil, zap.NewNop())

	course, err := svc.Create(context.Background(), validCourseInput())
	require.NoError(t, err)
	assert.Equal(t, "course-new", course.ID)
	assert.Equal(t, 2, course.LessonCount)
	assert.Equal(t, 1, cache.purges)
	assert.Empty(t, cache.entries)
}

func TestCreateCourseValidation(t *testing.T) {
	svc := NewCourseService(newFakeCourseRepo(), nil, time.Minute, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), CourseInput{Category: "Programming"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestUpdateCourseNotFound(t *testing.T) {
	svc := NewCourseService(newFakeCourseRepo(), nil, time.Minute, nil, zap.NewNop())

	_, err := svc.Update(context.Background(), "missing", validCourseInput())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSetFeaturedInvalidatesCatalog(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.courses["course-1"] = &models.Course{ID: "course-1", Title: "Go"}
	cache := newMemoryCache()
	svc := NewCourseService(repo, cache, time.Minute, nil, zap.NewNop())

	require.NoError(t, svc.SetFeatured(context.Background(), "course-1", true))
	assert.True(t, repo.courses["course-1"].Featured)
	assert.Equal(t, 1, cache.purges)
}

func TestDeleteCourse(t *testing.T) {
	repo := newFakeCourseRepo()
	repo.courses["course-1"] = &models.Course{ID: "course-1"}
	svc := NewCourseService(repo, nil, time.Minute, nil, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "course-1"))
	assert.Empty(t, repo.courses)

	err := svc.Delete(context.Background(), "course-1")
	require.Error(t, err)
}
