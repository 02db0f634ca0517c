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

type studentWorkRepository interface {
	List(ctx context.Context, page, pageSize int) ([]models.StudentWork, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentWork, error)
	Create(ctx context.Context, work *models.StudentWork) error
	Update(ctx context.Context, work *models.StudentWork) error
	Delete(ctx context.Context, id string) error
}

// StudentWorkInput is the admin payload for a showcased work. MediaURL and
// MediaKind come from a prior upload through the student-work-media purpose.
type StudentWorkInput struct {
	StudentName   string           `json:"student_name" validate:"required"`
	CourseName    string           `json:"course_name" validate:"required"`
	PortfolioLink string           `json:"portfolio_link"`
	JobPosition   string           `json:"job_position"`
	MediaKind     models.MediaKind `json:"media_kind" validate:"required,oneof=image video"`
	MediaURL      string           `json:"media_url" validate:"required"`
}

// StudentWorkService manages the public works gallery.
type StudentWorkService struct {
	repo      studentWorkRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentWorkService constructs StudentWorkService.
func NewStudentWorkService(repo studentWorkRepository, validate *validator.Validate, logger *zap.Logger) *StudentWorkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentWorkService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated student works.
func (s *StudentWorkService) List(ctx context.Context, page, pageSize int) ([]models.StudentWork, *models.Pagination, error) {
	works, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student works")
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	return works, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a single student work.
func (s *StudentWorkService) Get(ctx context.Context, id string) (*models.StudentWork, error) {
	work, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student work not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student work")
	}
	return work, nil
}

// Create adds a work to the gallery.
func (s *StudentWorkService) Create(ctx context.Context, input StudentWorkInput) (*models.StudentWork, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student work payload")
	}
	work := input.toStudentWork()
	if err := s.repo.Create(ctx, work); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student work")
	}
	return work, nil
}

// Update replaces a gallery entry.
func (s *StudentWorkService) Update(ctx context.Context, id string, input StudentWorkInput) (*models.StudentWork, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student work payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student work not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student work")
	}

	work := input.toStudentWork()
	work.ID = existing.ID
	work.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, work); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student work")
	}
	return work, nil
}

// Delete removes a work from the gallery.
func (s *StudentWorkService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student work not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student work")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student work")
	}
	return nil
}

func (in StudentWorkInput) toStudentWork() *models.StudentWork {
	return &models.StudentWork{
		StudentName:   in.StudentName,
		CourseName:    in.CourseName,
		PortfolioLink: in.PortfolioLink,
		JobPosition:   in.JobPosition,
		MediaKind:     in.MediaKind,
		MediaURL:      in.MediaURL,
	}
}
