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

// TestimonialHandler serves homepage testimonials and their admin CRUD.
type TestimonialHandler struct {
	service *service.TestimonialService
}

// NewTestimonialHandler creates a new testimonial handler.
func NewTestimonialHandler(svc *service.TestimonialService) *TestimonialHandler {
	return &TestimonialHandler{service: svc}
}

// List godoc
// @Summary List testimonials
// @Description Published testimonials; admins also see drafts
// @Tags Testimonials
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /testimonials [get]
func (h *TestimonialHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	claims := claimsFromContext(c)
	includeDrafts := claims != nil && claims.Role == models.RoleAdmin

	testimonials, pagination, err := h.service.List(c.Request.Context(), includeDrafts, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, testimonials, pagination)
}

// Random godoc
// @Summary Random testimonial
// @Description One published testimonial for the homepage rotation
// @Tags Testimonials
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /testimonials/random [get]
func (h *TestimonialHandler) Random(c *gin.Context) {
	testimonial, err := h.service.Random(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, testimonial, nil)
}

// Create godoc
// @Summary Create testimonial
// @Tags Testimonials
// @Accept json
// @Produce json
// @Param payload body service.TestimonialInput true "Testimonial payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /testimonials [post]
func (h *TestimonialHandler) Create(c *gin.Context) {
	var input service.TestimonialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	testimonial, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, testimonial)
}

// Update godoc
// @Summary Update testimonial
// @Tags Testimonials
// @Accept json
// @Produce json
// @Param id path string true "Testimonial ID"
// @Param payload body service.TestimonialInput true "Testimonial payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /testimonials/{id} [put]
func (h *TestimonialHandler) Update(c *gin.Context) {
	var input service.TestimonialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	testimonial, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, testimonial, nil)
}

// Delete godoc
// @Summary Delete testimonial
// @Tags Testimonials
// @Produce json
// @Param id path string true "Testimonial ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /testimonials/{id} [delete]
func (h *TestimonialHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
