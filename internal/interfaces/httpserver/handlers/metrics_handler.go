package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/leads-api/internal/domain/metrics"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/responses"
)

// MetricsHandler serves the dashboard aggregates.
type MetricsHandler struct {
	service metrics.Service
	log     zerolog.Logger
}

func NewMetricsHandler(service metrics.Service, log zerolog.Logger) *MetricsHandler {
	return &MetricsHandler{
		service: service,
		log:     log.With().Str("handler", "metrics").Logger(),
	}
}

// Summary handles GET /api/metrics/summary
// @Summary Metrics summary
// @Tags Metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} metrics.Summary
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /api/metrics/summary [get]
func (h *MetricsHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to fetch metrics summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Timeline handles GET /api/metrics/timeline
// @Summary Monthly timeline
// @Description Sessions and transferred leads per month over the trailing twelve months
// @Tags Metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} metrics.TimelinePoint
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /api/metrics/timeline [get]
func (h *MetricsHandler) Timeline(c *gin.Context) {
	timeline, err := h.service.Timeline(c.Request.Context())
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to fetch metrics timeline")
		return
	}
	c.JSON(http.StatusOK, timeline)
}
