package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uzacademy/course-platform-api/internal/models"
)

// TestimonialRepository handles persistence of student testimonials.
type TestimonialRepository struct {
	db *sqlx.DB
}

// NewTestimonialRepository constructs the repository.
func NewTestimonialRepository(db *sqlx.DB) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

const testimonialColumns = `id, student_name, portfolio_link, text, published, created_at, updated_at`

// List returns testimonials newest first with a total count. When
// publishedOnly is set, drafts are excluded.
func (r *TestimonialRepository) List(ctx context.Context, publishedOnly bool, page, pageSize int) ([]models.Testimonial, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	clause := ""
	if publishedOnly {
		clause = " WHERE published = TRUE"
	}

	query := fmt.Sprintf(`SELECT %s FROM testimonials%s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		testimonialColumns, clause, pageSize, offset)
	var testimonials []models.Testimonial
	if err := r.db.SelectContext(ctx, &testimonials, query); err != nil {
		return nil, 0, fmt.Errorf("list testimonials: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM testimonials"+clause); err != nil {
		return nil, 0, fmt.Errorf("count testimonials: %w", err)
	}
	return testimonials, total, nil
}

// FindByID returns a single testimonial.
func (r *TestimonialRepository) FindByID(ctx context.Context, id string) (*models.Testimonial, error) {
	query := fmt.Sprintf(`SELECT %s FROM testimonials WHERE id = $1`, testimonialColumns)
	var testimonial models.Testimonial
	if err := r.db.GetContext(ctx, &testimonial, query, id); err != nil {
		return nil, err
	}
	return &testimonial, nil
}

// Random returns one published testimonial chosen by the database.
func (r *TestimonialRepository) Random(ctx context.Context) (*models.Testimonial, error) {
	query := fmt.Sprintf(`SELECT %s FROM testimonials WHERE published = TRUE ORDER BY random() LIMIT 1`, testimonialColumns)
	var testimonial models.Testimonial
	if err := r.db.GetContext(ctx, &testimonial, query); err != nil {
		return nil, err
	}
	return &testimonial, nil
}

// Create persists a new testimonial.
func (r *TestimonialRepository) Create(ctx context.Context, testimonial *models.Testimonial) error {
	if testimonial.ID == "" {
		testimonial.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if testimonial.CreatedAt.IsZero() {
		testimonial.CreatedAt = now
	}
	testimonial.UpdatedAt = now
	const query = `INSERT INTO testimonials (id, student_name, portfolio_link, text, published, created_at, updated_at)
        VALUES (:id, :student_name, :portfolio_link, :text, :published, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, testimonial); err != nil {
		return fmt.Errorf("create testimonial: %w", err)
	}
	return nil
}

// Update replaces mutable fields of a testimonial.
func (r *TestimonialRepository) Update(ctx context.Context, testimonial *models.Testimonial) error {
	testimonial.UpdatedAt = time.Now().UTC()
	const query = `UPDATE testimonials SET student_name = :student_name, portfolio_link = :portfolio_link,
        text = :text, published = :published, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, testimonial); err != nil {
		return fmt.Errorf("update testimonial: %w", err)
	}
	return nil
}

// Delete removes a testimonial permanently.
func (r *TestimonialRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	return nil
}
