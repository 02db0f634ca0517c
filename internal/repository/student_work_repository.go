package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uzacademy/course-platform-api/internal/models"
)

// StudentWorkRepository handles persistence of showcased student works.
type StudentWorkRepository struct {
	db *sqlx.DB
}

// NewStudentWorkRepository constructs the repository.
func NewStudentWorkRepository(db *sqlx.DB) *StudentWorkRepository {
	return &StudentWorkRepository{db: db}
}

const studentWorkColumns = `id, student_name, course_name, portfolio_link, job_position, media_kind, media_url, created_at, updated_at`

// List returns student works newest first with a total count.
func (r *StudentWorkRepository) List(ctx context.Context, page, pageSize int) ([]models.StudentWork, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 12
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT %s FROM student_works ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		studentWorkColumns, pageSize, offset)
	var works []models.StudentWork
	if err := r.db.SelectContext(ctx, &works, query); err != nil {
		return nil, 0, fmt.Errorf("list student works: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM student_works`); err != nil {
		return nil, 0, fmt.Errorf("count student works: %w", err)
	}
	return works, total, nil
}

// FindByID returns a single student work.
func (r *StudentWorkRepository) FindByID(ctx context.Context, id string) (*models.StudentWork, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_works WHERE id = $1`, studentWorkColumns)
	var work models.StudentWork
	if err := r.db.GetContext(ctx, &work, query, id); err != nil {
		return nil, err
	}
	return &work, nil
}

// Create persists a new student work.
func (r *StudentWorkRepository) Create(ctx context.Context, work *models.StudentWork) error {
	if work.ID == "" {
		work.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if work.CreatedAt.IsZero() {
		work.CreatedAt = now
	}
	work.UpdatedAt = now
	const query = `INSERT INTO student_works (id, student_name, course_name, portfolio_link, job_position, media_kind, media_url, created_at, updated_at)
        VALUES (:id, :student_name, :course_name, :portfolio_link, :job_position, :media_kind, :media_url, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, work); err != nil {
		return fmt.Errorf("create student work: %w", err)
	}
	return nil
}

// Update replaces mutable fields of a student work.
func (r *StudentWorkRepository) Update(ctx context.Context, work *models.StudentWork) error {
	work.UpdatedAt = time.Now().UTC()
	const query = `UPDATE student_works SET student_name = :student_name, course_name = :course_name,
        portfolio_link = :portfolio_link, job_position = :job_position, media_kind = :media_kind,
        media_url = :media_url, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, work); err != nil {
		return fmt.Errorf("update student work: %w", err)
	}
	return nil
}

// Delete removes a student work permanently.
func (r *StudentWorkRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM student_works WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student work: %w", err)
	}
	return nil
}
