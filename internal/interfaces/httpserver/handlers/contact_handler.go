package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/leads-api/internal/domain/contact"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/requests"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/responses"
	"github.com/janhq/leads-api/internal/utils/platformerrors"
)

// ContactHandler exposes contact-centric views of conversations.
type ContactHandler struct {
	service contact.Service
	log     zerolog.Logger
}

func NewContactHandler(service contact.Service, log zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		log:     log.With().Str("handler", "contact").Logger(),
	}
}

// List handles GET /api/conversations/contacts
// @Summary List contacts
// @Description Contacts with at least one session, most recently active first
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size (max 100)" default(20)
// @Success 200 {object} query.Page[contact.Contact]
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /api/conversations/contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), requests.Pagination(c))
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to fetch contacts")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Search handles GET /api/conversations/contacts/search
// @Summary Search contacts
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search term"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size (max 100)" default(20)
// @Success 200 {object} query.Page[contact.Contact]
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /api/conversations/contacts/search [get]
func (h *ContactHandler) Search(c *gin.Context) {
	term := requests.SearchTerm(c)
	if term == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Search query is required")
		return
	}

	page, err := h.service.Search(c.Request.Context(), term, requests.Pagination(c))
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to search contacts")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get handles GET /api/conversations/contacts/:id
// @Summary Get contact
// @Description Contact with every session, message, vault item and document
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} contact.Detail
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /api/conversations/contacts/{id} [get]
func (h *ContactHandler) Get(c *gin.Context) {
	detail, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to fetch contact")
		return
	}
	if detail == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "Contact not found")
		return
	}
	c.JSON(http.StatusOK, detail)
}
