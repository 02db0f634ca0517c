package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uzacademy/course-platform-api/internal/models"
)

// CourseRepository handles persistence of courses. The nested section and
// gallery structures live in JSONB columns.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, title, category, thumbnail_url, description, intro_video_id, total_hours,
        topics_covered, num_of_projects, size_gb, lesson_count, sections, gallery, price,
        course_contents, featured, created_at, updated_at`

const courseSummaryColumns = `id, title, category, thumbnail_url, price, featured, created_at`

// FindByID returns a full course including its outline.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1`, courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// List returns course summaries matching the filter with a total count.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseSummary, int, error) {
	var conditions []string
	var args []interface{}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("featured = $%d", len(args)+1))
		args = append(args, *filter.Featured)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM courses%s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		courseSummaryColumns, clause, size, offset)

	var courses []models.CourseSummary
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM courses"+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// ListFeatured returns the newest featured courses up to the limit.
func (r *CourseRepository) ListFeatured(ctx context.Context, limit int) ([]models.CourseSummary, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE featured = TRUE ORDER BY created_at DESC LIMIT %d`,
		courseSummaryColumns, limit)
	var courses []models.CourseSummary
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list featured courses: %w", err)
	}
	return courses, nil
}

// ListByIDs returns course summaries for the given IDs.
func (r *CourseRepository) ListByIDs(ctx context.Context, ids []string) ([]models.CourseSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id IN (%s)`,
		courseSummaryColumns, strings.Join(placeholders, ","))
	var courses []models.CourseSummary
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses by ids: %w", err)
	}
	return courses, nil
}

// DistinctCategories returns every category currently in use.
func (r *CourseRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.SelectContext(ctx, &categories, `SELECT DISTINCT category FROM courses ORDER BY category`); err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	return categories, nil
}

// Create persists a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, title, category, thumbnail_url, description, intro_video_id,
        total_hours, topics_covered, num_of_projects, size_gb, lesson_count, sections, gallery, price,
        course_contents, featured, created_at, updated_at)
        VALUES (:id, :title, :category, :thumbnail_url, :description, :intro_video_id,
        :total_hours, :topics_covered, :num_of_projects, :size_gb, :lesson_count, :sections, :gallery, :price,
        :course_contents, :featured, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update replaces all mutable course fields including the outline.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET title = :title, category = :category, thumbnail_url = :thumbnail_url,
        description = :description, intro_video_id = :intro_video_id, total_hours = :total_hours,
        topics_covered = :topics_covered, num_of_projects = :num_of_projects, size_gb = :size_gb,
        lesson_count = :lesson_count, sections = :sections, gallery = :gallery, price = :price,
        course_contents = :course_contents, featured = :featured, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// SetFeatured flips the featured flag.
func (r *CourseRepository) SetFeatured(ctx context.Context, id string, featured bool) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE courses SET featured = $2, updated_at = $3 WHERE id = $1`, id, featured, time.Now().UTC()); err != nil {
		return fmt.Errorf("set featured: %w", err)
	}
	return nil
}

// Delete removes a course permanently.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}
