package api

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/leads-api/internal/interfaces/httpserver/handlers"
)

// Routes registers the dashboard API under /api.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the /api route registrar.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{handlers: handlerProvider}
}

// Register attaches /api routes. The health route stays public; authMiddleware, when not nil,
// guards everything else.
func (r *Routes) Register(engine *gin.Engine, authMiddleware gin.HandlerFunc) {
	group := engine.Group("/api")
	group.GET("/health", r.handlers.Health.Health)

	protected := group.Group("")
	if authMiddleware != nil {
		protected.Use(authMiddleware)
	}

	registerMetricsRoutes(protected.Group("/metrics"), r.handlers.Metrics)
	registerConversationRoutes(protected.Group("/conversations"), r.handlers.Conversation, r.handlers.Contact)
	registerTransferredLeadRoutes(protected.Group("/transferred-leads"), r.handlers.TransferredLead)
}

func registerMetricsRoutes(router gin.IRoutes, handler *handlers.MetricsHandler) {
	router.GET("/summary", handler.Summary)
	router.GET("/timeline", handler.Timeline)
}

// Contact routes are registered before /:id so "contacts" is never read as a session id.
func registerConversationRoutes(router gin.IRoutes, conversations *handlers.ConversationHandler, contacts *handlers.ContactHandler) {
	router.GET("/contacts", contacts.List)
	router.GET("/contacts/search", contacts.Search)
	router.GET("/contacts/:id", contacts.Get)

	router.GET("", conversations.List)
	router.GET("/search", conversations.Search)
	router.GET("/:id", conversations.Get)
}

func registerTransferredLeadRoutes(router gin.IRoutes, handler *handlers.TransferredLeadHandler) {
	router.GET("", handler.List)
	router.GET("/search", handler.Search)
	router.GET("/pending-count", handler.PendingCount)
	router.PUT("/:id/crm-id", handler.UpdateCRMID)
}
