package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uzacademy/course-platform-api/internal/models"
	"github.com/uzacademy/course-platform-api/internal/service"
	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
	"github.com/uzacademy/course-platform-api/pkg/response"
)

// CourseHandler handles catalog browsing and admin course management.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// Catalog godoc
// @Summary Homepage catalog
// @Description Courses grouped by category plus the featured shelf
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses/catalog [get]
func (h *CourseHandler) Catalog(c *gin.Context) {
	catalog, err := h.service.Catalog(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, catalog, nil)
}

// List godoc
// @Summary List courses
// @Description List course summaries with pagination and filtering
// @Tags Courses
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param category query string false "Category filter"
// @Param featured query bool false "Featured filter"
// @Param search query string false "Search term"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	var filter models.CourseFilter

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		filter.PageSize = size
	}
	if featured := c.Query("featured"); featured != "" {
		if val, err := strconv.ParseBool(featured); err == nil {
			filter.Featured = &val
		}
	}
	filter.Category = c.Query("category")
	filter.Search = c.Query("search")

	courses, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, courses, pagination)
}

// Get godoc
// @Summary Get course
// @Description Get full course detail including its outline and gallery
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, course, nil)
}

// Create godoc
// @Summary Create course
// @Description Create a new course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CourseInput true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var input service.CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	course, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, course)
}

// Update godoc
// @Summary Update course
// @Description Replace course attributes, outline included
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body service.CourseInput true "Course payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	var input service.CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	course, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, course, nil)
}

// SetFeatured godoc
// @Summary Toggle featured flag
// @Description Mark or unmark a course as featured on the homepage
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body map[string]bool true "Featured flag"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/featured [patch]
func (h *CourseHandler) SetFeatured(c *gin.Context) {
	var payload struct {
		Featured *bool `json:"featured" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "featured flag required"))
		return
	}

	if err := h.service.SetFeatured(c.Request.Context(), c.Param("id"), *payload.Featured); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Delete godoc
// @Summary Delete course
// @Description Remove a course from the catalog
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
