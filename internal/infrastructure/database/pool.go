package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/janhq/leads-api/internal/infrastructure/metrics"
)

const pingTimeout = 10 * time.Second

var tracer = otel.Tracer("leads-api/database")

// Pool is the process-wide PostgreSQL connection pool. It is created once in main and handed
// to the repositories explicitly.
type Pool struct {
	db           *sqlx.DB
	orm          *gorm.DB
	queryTimeout time.Duration
	log          zerolog.Logger
}

// Connect opens the pool, applies sizing limits and pings the server so misconfiguration fails
// at startup rather than on the first request.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*Pool, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.LogLevel == 0 {
		cfg.LogLevel = gormlogger.Warn
	}
	orm, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		Logger: gormlogger.Default.LogMode(cfg.LogLevel),
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	log.Info().
		Str("dsn", cfg.Redacted()).
		Int("max_open_conns", cfg.MaxOpenConns).
		Bool("ssl", cfg.SSL).
		Msg("database pool ready")

	return &Pool{
		db:           db,
		orm:          orm,
		queryTimeout: cfg.QueryTimeout,
		log:          log.With().Str("component", "database-pool").Logger(),
	}, nil
}

// WithConn borrows one connection for the duration of fn and always returns it to the pool,
// including when fn fails or panics. The operation name labels the span and query metrics.
func (p *Pool) WithConn(ctx context.Context, operation string, fn func(ctx context.Context, conn *sqlx.Conn) error) (err error) {
	ctx, finish := p.begin(ctx, operation)
	defer func() { finish(err) }()

	conn, err := p.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			p.log.Warn().Err(closeErr).Str("operation", operation).Msg("release connection")
		}
	}()

	return fn(ctx, conn)
}

// WithORM runs fn on a gorm session pinned to a single borrowed connection.
func (p *Pool) WithORM(ctx context.Context, operation string, fn func(tx *gorm.DB) error) (err error) {
	ctx, finish := p.begin(ctx, operation)
	defer func() { finish(err) }()

	return p.orm.WithContext(ctx).Connection(fn)
}

func (p *Pool) begin(ctx context.Context, operation string) (context.Context, func(error)) {
	var cancel context.CancelFunc = func() {}
	if p.queryTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.queryTimeout)
	}

	ctx, span := tracer.Start(ctx, "db."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
		),
	)
	start := time.Now()

	return ctx, func(err error) {
		status := "ok"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		metrics.ObserveQuery(operation, status, time.Since(start))
		span.End()
		cancel()
	}
}

// Ping checks connectivity; used by the readiness probe.
func (p *Pool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// DB exposes the underlying *sql.DB for pool statistics.
func (p *Pool) DB() *sql.DB {
	return p.db.DB
}

// Close releases every pooled connection.
func (p *Pool) Close() error {
	return p.db.Close()
}
