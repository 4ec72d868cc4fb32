package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/leads-api/internal/domain/conversation"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/requests"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/responses"
	"github.com/janhq/leads-api/internal/utils/platformerrors"
)

// ConversationHandler exposes session reads.
type ConversationHandler struct {
	service conversation.Service
	log     zerolog.Logger
}

// NewConversationHandler constructs the handler.
func NewConversationHandler(service conversation.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

// List handles GET /api/conversations
// @Summary List conversations
// @Description Paginated sessions, newest first
// @Tags Conversations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size (max 100)" default(20)
// @Success 200 {object} query.Page[conversation.Session]
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /api/conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), requests.Pagination(c))
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to fetch conversations")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Search handles GET /api/conversations/search
// @Summary Search conversations
// @Description Case-insensitive substring match on contact phone, email and name
// @Tags Conversations
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search term"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size (max 100)" default(20)
// @Success 200 {object} query.Page[conversation.Session]
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /api/conversations/search [get]
func (h *ConversationHandler) Search(c *gin.Context) {
	term := requests.SearchTerm(c)
	if term == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Search query is required")
		return
	}

	page, err := h.service.Search(c.Request.Context(), term, requests.Pagination(c))
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to search conversations")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get handles GET /api/conversations/:id
// @Summary Get conversation
// @Description Session with its ordered transcript and knowledge vault
// @Tags Conversations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} conversation.Detail
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /api/conversations/{id} [get]
func (h *ConversationHandler) Get(c *gin.Context) {
	detail, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to fetch conversation")
		return
	}
	if detail == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "Conversation not found")
		return
	}
	c.JSON(http.StatusOK, detail)
}
