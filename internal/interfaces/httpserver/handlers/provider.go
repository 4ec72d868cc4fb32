package handlers

import (
	"github.com/rs/zerolog"

	"github.com/janhq/leads-api/internal/domain/contact"
	"github.com/janhq/leads-api/internal/domain/conversation"
	"github.com/janhq/leads-api/internal/domain/metrics"
	"github.com/janhq/leads-api/internal/domain/transferredlead"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Health          *HealthHandler
	Conversation    *ConversationHandler
	Contact         *ContactHandler
	TransferredLead *TransferredLeadHandler
	Metrics         *MetricsHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	conversationService conversation.Service,
	contactService contact.Service,
	leadService transferredlead.Service,
	metricsService metrics.Service,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Health:          NewHealthHandler(),
		Conversation:    NewConversationHandler(conversationService, log),
		Contact:         NewContactHandler(contactService, log),
		TransferredLead: NewTransferredLeadHandler(leadService, log),
		Metrics:         NewMetricsHandler(metricsService, log),
	}
}
