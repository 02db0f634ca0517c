package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uzacademy/course-platform-api/internal/service"
	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
	"github.com/uzacademy/course-platform-api/pkg/response"
)

// CartHandler handles checkout and sales-contact endpoints.
type CartHandler struct {
	service *service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{service: svc}
}

// Checkout godoc
// @Summary Purchase courses
// @Description Enroll the learner in every course in the cart
// @Tags Cart
// @Accept json
// @Produce json
// @Param payload body service.CheckoutRequest true "Checkout payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /cart/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid checkout payload"))
		return
	}

	result, err := h.service.Checkout(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// ContactSales godoc
// @Summary Request a sales callback
// @Description Leave contact details for a managed course purchase
// @Tags Cart
// @Accept json
// @Produce json
// @Param payload body service.ContactSalesRequest true "Contact payload"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /contact-sales [post]
func (h *CartHandler) ContactSales(c *gin.Context) {
	var req service.ContactSalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid contact payload"))
		return
	}

	if err := h.service.ContactSales(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusAccepted, gin.H{"message": "we will contact you shortly"}, nil)
}
