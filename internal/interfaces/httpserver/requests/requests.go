package requests

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/janhq/leads-api/internal/domain/query"
)

// Pagination reads page and pageSize from the query string. Missing, non-numeric or
// non-positive values fall back to the defaults.
func Pagination(c *gin.Context) query.Pagination {
	return query.NewPagination(intParam(c, "page"), intParam(c, "pageSize"))
}

// SearchTerm returns the trimmed q parameter.
func SearchTerm(c *gin.Context) string {
	return strings.TrimSpace(c.Query("q"))
}

// LeadID parses the :id path parameter of transferred lead routes.
func LeadID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func intParam(c *gin.Context, key string) int {
	value, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return value
}

// UpdateCRMIDRequest is the body of PUT /api/transferred-leads/:id/crm-id.
type UpdateCRMIDRequest struct {
	CRMID *string `json:"crmId"`
}
