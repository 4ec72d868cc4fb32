//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/leads-api/internal/config"
	"github.com/janhq/leads-api/internal/domain/contact"
	"github.com/janhq/leads-api/internal/domain/conversation"
	"github.com/janhq/leads-api/internal/domain/metrics"
	"github.com/janhq/leads-api/internal/domain/transferredlead"
	"github.com/janhq/leads-api/internal/infrastructure/auth"
	"github.com/janhq/leads-api/internal/infrastructure/database"
	"github.com/janhq/leads-api/internal/infrastructure/logger"
	contactrepo "github.com/janhq/leads-api/internal/infrastructure/repository/contact"
	conversationrepo "github.com/janhq/leads-api/internal/infrastructure/repository/conversation"
	metricsrepo "github.com/janhq/leads-api/internal/infrastructure/repository/metrics"
	leadrepo "github.com/janhq/leads-api/internal/infrastructure/repository/transferredlead"
	"github.com/janhq/leads-api/internal/interfaces/httpserver"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/handlers"
)

var repositorySet = wire.NewSet(
	conversationrepo.NewPostgresRepository,
	wire.Bind(new(conversation.Repository), new(*conversationrepo.PostgresRepository)),
	contactrepo.NewPostgresRepository,
	wire.Bind(new(contact.Repository), new(*contactrepo.PostgresRepository)),
	leadrepo.NewPostgresRepository,
	wire.Bind(new(transferredlead.Repository), new(*leadrepo.PostgresRepository)),
	metricsrepo.NewPostgresRepository,
	wire.Bind(new(metrics.Repository), new(*metricsrepo.PostgresRepository)),
)

var serviceSet = wire.NewSet(
	conversation.NewService,
	contact.NewService,
	transferredlead.NewService,
	metrics.NewService,
)

// BuildApplication assembles the leads service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newPool,
		wire.Bind(new(httpserver.Pinger), new(*database.Pool)),
		newAuthValidator,
		newSanitizer,
		repositorySet,
		serviceSet,
		handlers.NewProvider,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}
