package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/janhq/leads-api/docs/swagger"
	"github.com/janhq/leads-api/internal/config"
	"github.com/janhq/leads-api/internal/infrastructure/auth"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/handlers"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/responses"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/routes"
	"github.com/janhq/leads-api/pkg/telemetry"
)

const readinessTimeout = 2 * time.Second

// Pinger reports database connectivity for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HttpServer wraps the gin engine and its lifecycle.
type HttpServer struct {
	cfg    *config.Config
	engine *gin.Engine
	log    zerolog.Logger
}

// New assembles middleware, operational endpoints and the /api routes.
func New(
	cfg *config.Config,
	log zerolog.Logger,
	sanitizer *telemetry.Sanitizer,
	handlerProvider *handlers.Provider,
	authValidator *auth.Validator,
	db Pinger,
) *HttpServer {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middlewares.RequestID())
	engine.Use(middlewares.Recovery(log))
	engine.Use(middlewares.Tracing(cfg.ServiceName, sanitizer))
	engine.Use(middlewares.Metrics())
	engine.Use(middlewares.CORSWithConfig(middlewares.DefaultCORSConfig(cfg.AllowedOrigins(), cfg.CORSAllowedOriginSuffixes)))
	engine.Use(middlewares.RequestLogger(log, sanitizer))

	registerCoreRoutes(engine, cfg, db)
	routes.NewProvider(handlerProvider, authValidator).Register(engine)
	engine.NoRoute(responses.NotFound)

	return &HttpServer{
		cfg:    cfg,
		engine: engine,
		log:    log,
	}
}

// Handler exposes the engine for tests.
func (s *HttpServer) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP server and blocks until ctx is cancelled, then drains in-flight requests.
func (s *HttpServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr()).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func registerCoreRoutes(engine *gin.Engine, cfg *config.Config, db Pinger) {
	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": cfg.ServiceName,
			"status":  "ok",
		})
	})

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	engine.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
