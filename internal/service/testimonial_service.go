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

type testimonialRepository interface {
	List(ctx context.Context, publishedOnly bool, page, pageSize int) ([]models.Testimonial, int, error)
	FindByID(ctx context.Context, id string) (*models.Testimonial, error)
	Random(ctx context.Context) (*models.Testimonial, error)
	Create(ctx context.Context, testimonial *models.Testimonial) error
	Update(ctx context.Context, testimonial *models.Testimonial) error
	Delete(ctx context.Context, id string) error
}

// TestimonialInput is the admin payload for a testimonial.
type TestimonialInput struct {
	StudentName   string `json:"student_name" validate:"required"`
	PortfolioLink string `json:"portfolio_link"`
	Text          string `json:"text" validate:"required"`
	Published     bool   `json:"published"`
}

// TestimonialService manages homepage testimonials.
type TestimonialService struct {
	repo      testimonialRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTestimonialService constructs TestimonialService.
func NewTestimonialService(repo testimonialRepository, validate *validator.Validate, logger *zap.Logger) *TestimonialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TestimonialService{repo: repo, validator: validate, logger: logger}
}

// List returns testimonials. Non-admin callers only see published entries.
func (s *TestimonialService) List(ctx context.Context, includeDrafts bool, page, pageSize int) ([]models.Testimonial, *models.Pagination, error) {
	testimonials, total, err := s.repo.List(ctx, !includeDrafts, page, pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list testimonials")
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return testimonials, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Random returns one published testimonial for the homepage rotation.
func (s *TestimonialService) Random(ctx context.Context) (*models.Testimonial, error) {
	testimonial, err := s.repo.Random(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no published testimonials")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to pick testimonial")
	}
	return testimonial, nil
}

// Create adds a testimonial.
func (s *TestimonialService) Create(ctx context.Context, input TestimonialInput) (*models.Testimonial, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid testimonial payload")
	}
	testimonial := &models.Testimonial{
		StudentName:   input.StudentName,
		PortfolioLink: input.PortfolioLink,
		Text:          input.Text,
		Published:     input.Published,
	}
	if err := s.repo.Create(ctx, testimonial); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create testimonial")
	}
	return testimonial, nil
}

// Update replaces a testimonial.
func (s *TestimonialService) Update(ctx context.Context, id string, input TestimonialInput) (*models.Testimonial, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid testimonial payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "testimonial not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load testimonial")
	}

	existing.StudentName = input.StudentName
	existing.PortfolioLink = input.PortfolioLink
	existing.Text = input.Text
	existing.Published = input.Published
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update testimonial")
	}
	return existing, nil
}

// Delete removes a testimonial.
func (s *TestimonialService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "testimonial not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load testimonial")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete testimonial")
	}
	return nil
}
