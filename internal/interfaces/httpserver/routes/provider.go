package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/leads-api/internal/infrastructure/auth"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/handlers"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/routes/api"
)

// Provider holds all route providers.
type Provider struct {
	API           *api.Routes
	authValidator *auth.Validator
}

// NewProvider creates a new route provider.
func NewProvider(handlerProvider *handlers.Provider, authValidator *auth.Validator) *Provider {
	return &Provider{
		API:           api.NewRoutes(handlerProvider),
		authValidator: authValidator,
	}
}

// Register registers all routes on the engine. Auth applies only to API routes.
func (p *Provider) Register(engine *gin.Engine) {
	if p.authValidator != nil {
		p.API.Register(engine, p.authValidator.Middleware())
	} else {
		p.API.Register(engine, nil)
	}
}
