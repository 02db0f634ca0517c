package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uzacademy/course-platform-api/internal/service"
	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
	"github.com/uzacademy/course-platform-api/pkg/response"
)

// StudentWorkHandler serves the public works gallery and its admin CRUD.
type StudentWorkHandler struct {
	service *service.StudentWorkService
}

// NewStudentWorkHandler creates a new student work handler.
func NewStudentWorkHandler(svc *service.StudentWorkService) *StudentWorkHandler {
	return &StudentWorkHandler{service: svc}
}

// List godoc
// @Summary List student works
// @Tags StudentWorks
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /student-works [get]
func (h *StudentWorkHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "12"))

	works, pagination, err := h.service.List(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, works, pagination)
}

// Get godoc
// @Summary Get student work
// @Tags StudentWorks
// @Produce json
// @Param id path string true "Student work ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student-works/{id} [get]
func (h *StudentWorkHandler) Get(c *gin.Context) {
	work, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, work, nil)
}

// Create godoc
// @Summary Create student work
// @Tags StudentWorks
// @Accept json
// @Produce json
// @Param payload body service.StudentWorkInput true "Student work payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student-works [post]
func (h *StudentWorkHandler) Create(c *gin.Context) {
	var input service.StudentWorkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	work, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, work)
}

// Update godoc
// @Summary Update student work
// @Tags StudentWorks
// @Accept json
// @Produce json
// @Param id path string true "Student work ID"
// @Param payload body service.StudentWorkInput true "Student work payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student-works/{id} [put]
func (h *StudentWorkHandler) Update(c *gin.Context) {
	var input service.StudentWorkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	work, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, work, nil)
}

// Delete godoc
// @Summary Delete student work
// @Tags StudentWorks
// @Produce json
// @Param id path string true "Student work ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student-works/{id} [delete]
func (h *StudentWorkHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
