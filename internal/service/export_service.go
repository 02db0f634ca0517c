package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/uzacademy/course-platform-api/internal/models"
	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
	"github.com/uzacademy/course-platform-api/pkg/export"
)

type exportUserRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
}

type exportEnrollmentRepository interface {
	ListAll(ctx context.Context) ([]models.EnrollmentDetail, error)
}

type exportCourseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseSummary, int, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders admin back-office downloads: user and enrollment
// lists as CSV, the course catalog as PDF.
type ExportService struct {
	users       exportUserRepository
	enrollments exportEnrollmentRepository
	courses     exportCourseRepository
	csv         csvRenderer
	pdf         pdfRenderer
	logger      *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(users exportUserRepository, enrollments exportEnrollmentRepository, courses exportCourseRepository, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{users: users, enrollments: enrollments, courses: courses, csv: csv, pdf: pdf, logger: logger}
}

// UsersCSV renders the full user list.
func (s *ExportService) UsersCSV(ctx context.Context) (*ExportFile, error) {
	users, _, err := s.users.List(ctx, models.UserFilter{PageSize: 100, Page: 1})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		lastLogin := ""
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []string{
			u.ID,
			u.Email,
			u.FullName(),
			string(u.Role),
			fmt.Sprintf("%t", u.Active),
			lastLogin,
			u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"ID", "Email", "Name", "Role", "Active", "Last Login", "Created At"},
		Rows:    rows,
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render users export")
	}
	return &ExportFile{
		Filename:    exportFilename("users", "csv"),
		ContentType: "text/csv",
		Payload:     payload,
	}, nil
}

// EnrollmentsCSV renders every enrollment with its course context.
func (s *ExportService) EnrollmentsCSV(ctx context.Context) (*ExportFile, error) {
	enrollments, err := s.enrollments.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}

	rows := make([][]string, 0, len(enrollments))
	for _, e := range enrollments {
		rows = append(rows, []string{
			e.ID,
			e.UserID,
			e.CourseID,
			e.CourseTitle,
			e.Category,
			e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Enrollment ID", "User ID", "Course ID", "Course Title", "Category", "Enrolled At"},
		Rows:    rows,
	}

	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render enrollments export")
	}
	return &ExportFile{
		Filename:    exportFilename("enrollments", "csv"),
		ContentType: "text/csv",
		Payload:     payload,
	}, nil
}

// CatalogPDF renders the current course catalog as a printable table.
func (s *ExportService) CatalogPDF(ctx context.Context) (*ExportFile, error) {
	courses, _, err := s.courses.List(ctx, models.CourseFilter{PageSize: 100, Page: 1})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}

	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, []string{
			c.Title,
			c.Category,
			fmt.Sprintf("%.2f", c.Price),
			fmt.Sprintf("%t", c.Featured),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Title", "Category", "Price", "Featured"},
		Rows:    rows,
	}

	payload, err := s.pdf.Render(dataset, "Course Catalog")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render catalog export")
	}
	return &ExportFile{
		Filename:    exportFilename("catalog", "pdf"),
		ContentType: "application/pdf",
		Payload:     payload,
	}, nil
}

func exportFilename(kind, ext string) string {
	return fmt.Sprintf("%s_%s.%s", kind, time.Now().UTC().Format("20060102_150405"), ext)
}
