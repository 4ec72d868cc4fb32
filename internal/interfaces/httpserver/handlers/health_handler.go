package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/janhq/leads-api/internal/domain/query"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/responses"
)

// HealthHandler answers the public liveness probe under /api.
type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

// Health handles GET /api/health
// @Summary Liveness
// @Tags Health
// @Produce json
// @Success 200 {object} responses.HealthResponse
// @Router /api/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthResponse{
		Status:    "ok",
		Timestamp: query.NewTimestamp(h.now()).String(),
	})
}
