package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/leads-api/internal/domain/transferredlead"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/requests"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/responses"
	"github.com/janhq/leads-api/internal/utils/platformerrors"
)

// TransferredLeadHandler exposes transferred lead reads and the CRM id assignment.
type TransferredLeadHandler struct {
	service transferredlead.Service
	log     zerolog.Logger
}

func NewTransferredLeadHandler(service transferredlead.Service, log zerolog.Logger) *TransferredLeadHandler {
	return &TransferredLeadHandler{
		service: service,
		log:     log.With().Str("handler", "transferred_lead").Logger(),
	}
}

// List handles GET /api/transferred-leads
// @Summary List transferred leads
// @Tags Transferred Leads
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size (max 100)" default(20)
// @Success 200 {object} query.Page[transferredlead.Lead]
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /api/transferred-leads [get]
func (h *TransferredLeadHandler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), requests.Pagination(c))
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to fetch transferred leads")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Search handles GET /api/transferred-leads/search
// @Summary Search transferred leads
// @Description Matches contact phone, email, name and the lead summary
// @Tags Transferred Leads
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search term"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size (max 100)" default(20)
// @Success 200 {object} query.Page[transferredlead.Lead]
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /api/transferred-leads/search [get]
func (h *TransferredLeadHandler) Search(c *gin.Context) {
	term := requests.SearchTerm(c)
	if term == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Search query is required")
		return
	}

	page, err := h.service.Search(c.Request.Context(), term, requests.Pagination(c))
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to search transferred leads")
		return
	}
	c.JSON(http.StatusOK, page)
}

// PendingCount handles GET /api/transferred-leads/pending-count
// @Summary Count leads awaiting a CRM id
// @Description Reports 0 when the count cannot be computed
// @Tags Transferred Leads
// @Produce json
// @Security BearerAuth
// @Success 200 {object} responses.CountResponse
// @Failure 401 {object} responses.ErrorResponse
// @Router /api/transferred-leads/pending-count [get]
func (h *TransferredLeadHandler) PendingCount(c *gin.Context) {
	c.JSON(http.StatusOK, responses.CountResponse{Count: h.service.PendingCount(c.Request.Context())})
}

// UpdateCRMID handles PUT /api/transferred-leads/:id/crm-id
// @Summary Assign a CRM id
// @Description Sets the lead's CRM id to the trimmed value and marks it as entered in the CRM
// @Tags Transferred Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param request body requests.UpdateCRMIDRequest true "CRM id"
// @Success 200 {object} responses.CRMUpdateResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /api/transferred-leads/{id}/crm-id [put]
func (h *TransferredLeadHandler) UpdateCRMID(c *gin.Context) {
	id, ok := requests.LeadID(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid lead id")
		return
	}

	var req requests.UpdateCRMIDRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CRMID == nil || transferredlead.NormalizeCRMID(*req.CRMID) == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "CRM ID is required")
		return
	}

	result, err := h.service.UpdateCRMID(c.Request.Context(), id, *req.CRMID)
	if err != nil {
		message := "Failed to update CRM ID"
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
			message = "CRM ID is too long"
		}
		responses.HandleError(c, h.log, err, message)
		return
	}
	if !result.Found() {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "Transferred lead not found")
		return
	}

	c.JSON(http.StatusOK, responses.CRMUpdateResponse{
		Success: true,
		Message: "CRM ID updated successfully",
		Data:    result.Lead,
	})
}
