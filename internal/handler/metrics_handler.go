package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uzacademy/course-platform-api/internal/service"
	"github.com/uzacademy/course-platform-api/pkg/response"
)

// MetricsHandler exposes Prometheus scraping and an ops snapshot endpoint.
type MetricsHandler struct {
	service *service.MetricsService
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(svc *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{service: svc}
}

// Prometheus serves the text exposition format for scrapers.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	h.service.Handler().ServeHTTP(c.Writer, c.Request)
}

// Snapshot godoc
// @Summary System metrics snapshot
// @Description Aggregated runtime metrics for the ops dashboard
// @Tags Metrics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ops/metrics [get]
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Snapshot(), nil)
}
