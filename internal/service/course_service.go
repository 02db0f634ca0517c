package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uzacademy/course-platform-api/internal/models"
	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
)

const (
	catalogCacheKey     = "catalog:home"
	catalogCachePattern = "catalog:*"
)

type courseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseSummary, int, error)
	ListFeatured(ctx context.Context, limit int) ([]models.CourseSummary, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	SetFeatured(ctx context.Context, id string, featured bool) error
	Delete(ctx context.Context, id string) error
}

// CacheStore abstracts the catalog cache backend.
type CacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CourseInput is the admin payload for creating or replacing a course.
type CourseInput struct {
	Title          string             `json:"title" validate:"required"`
	Category       string             `json:"category" validate:"required"`
	ThumbnailURL   string             `json:"thumbnail_url"`
	Description    string             `json:"description"`
	IntroVideoID   string             `json:"intro_video_id"`
	TotalHours     float64            `json:"total_hours" validate:"gte=0"`
	TopicsCovered  int                `json:"topics_covered" validate:"gte=0"`
	NumOfProjects  int                `json:"num_of_projects" validate:"gte=0"`
	SizeGB         float64            `json:"size_gb" validate:"gte=0"`
	Sections       models.SectionList `json:"sections"`
	Gallery        models.GalleryList `json:"gallery"`
	Price          float64            `json:"price" validate:"gte=0"`
	CourseContents string             `json:"course_contents"`
	Featured       bool               `json:"featured"`
}

// CourseService handles catalog browsing and admin course management.
type CourseService struct {
	repo      courseRepository
	cache     CacheStore
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs CourseService. cache may be nil to disable
// catalog caching.
func NewCourseService(repo courseRepository, cache CacheStore, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &CourseService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns paginated course summaries matching the filter.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseSummary, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	return courses, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Catalog builds the homepage view: every category with its courses plus the
// featured shelf. The assembled payload is cached; writes invalidate it.
func (s *CourseService) Catalog(ctx context.Context) (*models.Catalog, error) {
	if s.cache != nil {
		var cached models.Catalog
		if err := s.cache.Get(ctx, catalogCacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	categories, err := s.repo.DistinctCategories(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load categories")
	}

	catalog := &models.Catalog{
		Categories: categories,
		ByCategory: make(map[string][]models.CourseSummary, len(categories)),
	}
	for _, category := range categories {
		courses, _, err := s.repo.List(ctx, models.CourseFilter{Category: category, PageSize: 100})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category courses")
		}
		catalog.ByCategory[category] = courses
	}

	featured, err := s.repo.ListFeatured(ctx, 5)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load featured courses")
	}
	catalog.Featured = featured

	if s.cache != nil {
		if err := s.cache.Set(ctx, catalogCacheKey, catalog, s.cacheTTL); err != nil {
			s.logger.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return catalog, nil
}

// Get returns the full course with its outline and gallery.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create adds a new course.
func (s *CourseService) Create(ctx context.Context, input CourseInput) (*models.Course, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course := input.toCourse()
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.invalidateCatalog(ctx)
	return course, nil
}

// Update replaces a course's attributes, outline included.
func (s *CourseService) Update(ctx context.Context, id string, input CourseInput) (*models.Course, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	course := input.toCourse()
	course.ID = id
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	s.invalidateCatalog(ctx)
	return course, nil
}

// SetFeatured toggles the homepage featured flag.
func (s *CourseService) SetFeatured(ctx context.Context, id string, featured bool) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.repo.SetFeatured(ctx, id, featured); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update featured flag")
	}
	s.invalidateCatalog(ctx)
	return nil
}

// Delete removes a course from the catalog.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *CourseService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, catalogCachePattern); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

func (in CourseInput) toCourse() *models.Course {
	lessons := 0
	for _, section := range in.Sections {
		lessons += len(section.Lessons)
	}
	return &models.Course{
		Title:          in.Title,
		Category:       in.Category,
		ThumbnailURL:   in.ThumbnailURL,
		Description:    in.Description,
		IntroVideoID:   in.IntroVideoID,
		TotalHours:     in.TotalHours,
		TopicsCovered:  in.TopicsCovered,
		NumOfProjects:  in.NumOfProjects,
		SizeGB:         in.SizeGB,
		LessonCount:    lessons,
		Sections:       in.Sections,
		Gallery:        in.Gallery,
		Price:          in.Price,
		CourseContents: in.CourseContents,
		Featured:       in.Featured,
	}
}
