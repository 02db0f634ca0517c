package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/uzacademy/course-platform-api/internal/middleware"
	"github.com/uzacademy/course-platform-api/internal/models"
)

// claimsFromContext returns the authenticated caller's claims, or nil when
// the request passed through without a token.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
