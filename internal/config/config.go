package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// Config holds the environment driven configuration for the leads service.
type Config struct {
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"leads-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"3001" validate:"min=1,max=65535"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Discrete connection parameters take precedence over DatabaseURL when DB_HOST is set.
	DatabaseURL    string        `env:"DATABASE_URL" validate:"required_without=DBHost"`
	DBHost         string        `env:"DB_HOST"`
	DBPort         int           `env:"DB_PORT" envDefault:"5432" validate:"min=1,max=65535"`
	DBUser         string        `env:"DB_USER"`
	DBPassword     string        `env:"DB_PASSWORD"`
	DBName         string        `env:"DB_NAME"`
	DBSSL          bool          `env:"DB_SSL" envDefault:"false"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	DBQueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"15s"`

	AuthEnabled           bool     `env:"AUTH_ENABLED" envDefault:"true"`
	AuthIssuer            string   `env:"AUTH_ISSUER" validate:"required_if=AuthEnabled true"`
	AuthAudience          string   `env:"AUTH_AUDIENCE"`
	AuthJWKSURL           string   `env:"AUTH_JWKS_URL" validate:"required_if=AuthEnabled true"`
	AuthAuthorizedParties []string `env:"AUTH_AUTHORIZED_PARTIES" envSeparator:","`

	ClientURL                 string   `env:"CLIENT_URL" envDefault:"http://localhost:5173"`
	CORSAllowedOrigins        []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`
	CORSAllowedOriginSuffixes []string `env:"CORS_ALLOWED_ORIGIN_SUFFIXES" envSeparator:","`

	PIILogLevel string `env:"PII_LOG_LEVEL" envDefault:"hashed" validate:"oneof=none hashed full"`
	PIISalt     string `env:"PII_SALT" envDefault:"leads-api"`
}

// Load parses environment variables into Config.
//
// Environment variables win over values loaded from .env files, which in turn win over the
// defaults declared in the struct tags.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	// Production deployments talk to managed Postgres over TLS unless told otherwise.
	if _, set := os.LookupEnv("DB_SSL"); !set && cfg.IsProduction() {
		cfg.DBSSL = true
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("env"), ",", 2)[0]
		if name == "" {
			return field.Name
		}
		return name
	})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required_without":
			msgs = append(msgs, "DATABASE_URL or DB_HOST must be set")
		case "required_if":
			msgs = append(msgs, fmt.Sprintf("%s is required when AUTH_ENABLED is true", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// AllowedOrigins merges CLIENT_URL with the configured CORS origins, without duplicates.
func (c *Config) AllowedOrigins() []string {
	seen := make(map[string]struct{})
	origins := make([]string, 0, len(c.CORSAllowedOrigins)+1)
	for _, origin := range append([]string{c.ClientURL}, c.CORSAllowedOrigins...) {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			continue
		}
		if _, ok := seen[origin]; ok {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins
}
