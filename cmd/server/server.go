package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"github.com/janhq/leads-api/internal/config"
	"github.com/janhq/leads-api/internal/domain/contact"
	"github.com/janhq/leads-api/internal/domain/conversation"
	"github.com/janhq/leads-api/internal/domain/metrics"
	"github.com/janhq/leads-api/internal/domain/transferredlead"
	"github.com/janhq/leads-api/internal/infrastructure/auth"
	"github.com/janhq/leads-api/internal/infrastructure/database"
	"github.com/janhq/leads-api/internal/infrastructure/logger"
	promstats "github.com/janhq/leads-api/internal/infrastructure/metrics"
	"github.com/janhq/leads-api/internal/infrastructure/observability"
	contactrepo "github.com/janhq/leads-api/internal/infrastructure/repository/contact"
	conversationrepo "github.com/janhq/leads-api/internal/infrastructure/repository/conversation"
	metricsrepo "github.com/janhq/leads-api/internal/infrastructure/repository/metrics"
	leadrepo "github.com/janhq/leads-api/internal/infrastructure/repository/transferredlead"
	"github.com/janhq/leads-api/internal/interfaces/httpserver"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/handlers"
	"github.com/janhq/leads-api/pkg/telemetry"
)

// @title Leads API
// @version 1.0
// @description Read and search API over conversational lead data
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	pool       *database.Pool
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, pool *database.Pool, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		pool:       pool,
		log:        log,
	}
}

// Start serves HTTP until ctx is cancelled and then releases the database pool.
func (a *Application) Start(ctx context.Context) error {
	defer func() {
		if err := a.pool.Close(); err != nil {
			a.log.Error().Err(err).Msg("close database pool")
		}
	}()
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	pool, err := newPool(ctx, newDatabaseConfig(cfg), log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	sanitizer := newSanitizer(cfg)

	conversationService := conversation.NewService(conversationrepo.NewPostgresRepository(pool), sanitizer, log)
	contactService := contact.NewService(contactrepo.NewPostgresRepository(pool), sanitizer, log)
	leadService := transferredlead.NewService(leadrepo.NewPostgresRepository(pool, log), sanitizer, log)
	metricsService := metrics.NewService(metricsrepo.NewPostgresRepository(pool), log)

	handlerProvider := handlers.NewProvider(conversationService, contactService, leadService, metricsService, log)
	httpServer := httpserver.New(cfg, log, sanitizer, handlerProvider, authValidator, pool)
	app := NewApplication(httpServer, pool, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		URL:             cfg.DatabaseURL,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		User:            cfg.DBUser,
		Password:        cfg.DBPassword,
		Name:            cfg.DBName,
		SSL:             cfg.DBSSL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		QueryTimeout:    cfg.DBQueryTimeout,
		LogLevel:        gormlogger.Warn,
	}
}

func newPool(ctx context.Context, cfg database.Config, log zerolog.Logger) (*database.Pool, error) {
	pool, err := database.Connect(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := promstats.RegisterDBStats(pool.DB(), "leads"); err != nil {
		log.Warn().Err(err).Msg("register database pool metrics")
	}
	return pool, nil
}

func newSanitizer(cfg *config.Config) *telemetry.Sanitizer {
	return telemetry.NewSanitizer(telemetry.PIILevel(cfg.PIILogLevel), cfg.PIISalt)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
