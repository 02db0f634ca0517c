package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uzacademy/course-platform-api/internal/models"
)

// EnrollmentRepository handles persistence of learner enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListByUser returns the learner's enrollments joined with course context.
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.user_id, e.course_id, c.title AS course_title, c.category,
        c.thumbnail_url, e.created_at
        FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        WHERE e.user_id = $1
        ORDER BY e.created_at DESC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, userID); err != nil {
		return nil, fmt.Errorf("list user enrollments: %w", err)
	}
	return enrollments, nil
}

// Exists reports whether the learner already holds the course.
func (r *EnrollmentRepository) Exists(ctx context.Context, userID, courseID string) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2 LIMIT 1`, userID, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// Create persists a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO enrollments (id, user_id, course_id, created_at)
        VALUES (:id, :user_id, :course_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Delete removes the learner's enrollment for a course.
func (r *EnrollmentRepository) Delete(ctx context.Context, userID, courseID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE user_id = $1 AND course_id = $2`, userID, courseID); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}

// ListAll returns every enrollment joined with course context, newest first.
// Used by the admin export.
func (r *EnrollmentRepository) ListAll(ctx context.Context) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.user_id, e.course_id, c.title AS course_title, c.category,
        c.thumbnail_url, e.created_at
        FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        ORDER BY e.created_at DESC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query); err != nil {
		return nil, fmt.Errorf("list all enrollments: %w", err)
	}
	return enrollments, nil
}
