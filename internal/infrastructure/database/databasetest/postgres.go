//go:build integration

// Package databasetest starts a disposable PostgreSQL with the leads schema for integration tests.
package databasetest

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/janhq/leads-api/internal/infrastructure/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	dbUser     = "leads"
	dbPassword = "leads"
	dbName     = "leads"
)

// Postgres is a running container plus a pool connected to it.
type Postgres struct {
	Pool      *database.Pool
	Config    database.Config
	container testcontainers.Container
}

// Start launches postgres:15-alpine, applies the schema and connects a pool.
func Start(ctx context.Context) (*Postgres, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     dbUser,
			"POSTGRES_PASSWORD": dbPassword,
			"POSTGRES_DB":       dbName,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("resolve container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("resolve container port: %w", err)
	}

	cfg := database.Config{
		Host:         host,
		Port:         port.Int(),
		User:         dbUser,
		Password:     dbPassword,
		Name:         dbName,
		MaxOpenConns: 5,
		QueryTimeout: 30 * time.Second,
	}

	if err := migrateUp(cfg); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	pool, err := database.Connect(ctx, cfg, zerolog.Nop())
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &Postgres{Pool: pool, Config: cfg, container: container}, nil
}

// Terminate closes the pool and removes the container.
func (p *Postgres) Terminate(ctx context.Context) {
	_ = p.Pool.Close()
	_ = p.container.Terminate(ctx)
}

func migrateUp(cfg database.Config) error {
	dsn, err := cfg.DSN()
	if err != nil {
		return err
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Reset empties every table between tests.
func Reset(t *testing.T, pool *database.Pool) {
	t.Helper()
	err := pool.WithORM(context.Background(), "test.reset", func(tx *gorm.DB) error {
		return tx.Exec(`TRUNCATE transferred_leads, session_documents, knowledge_vault,
			conversations, sessions, contacts RESTART IDENTITY CASCADE`).Error
	})
	require.NoError(t, err)
}

// Seed inserts records (pointers to entities) in order.
func Seed(t *testing.T, pool *database.Pool, records ...any) {
	t.Helper()
	err := pool.WithORM(context.Background(), "test.seed", func(tx *gorm.DB) error {
		for _, record := range records {
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}
