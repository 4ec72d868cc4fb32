package conversation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	domain "github.com/janhq/leads-api/internal/domain/conversation"
	"github.com/janhq/leads-api/internal/domain/query"
	"github.com/janhq/leads-api/internal/infrastructure/database"
	"github.com/janhq/leads-api/internal/utils/platformerrors"
)

// PostgresRepository reads sessions, their messages and vault items from PostgreSQL.
type PostgresRepository struct {
	pool  *database.Pool
	pager database.Pager[sessionRow, domain.Session]
}

// NewPostgresRepository creates a repository backed by the provided pool.
func NewPostgresRepository(pool *database.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
		pager: database.Pager[sessionRow, domain.Session]{
			Count: func() *sqlbuilder.SelectBuilder {
				sb := database.NewSelect()
				sb.Select("COUNT(*)").From("sessions s").
					JoinWithOption(sqlbuilder.LeftJoin, "contacts c", "s.contact_id = c.id")
				return sb
			},
			Select:  selectSessions,
			Search:  searchSessions,
			OrderBy: []string{"s.created_at DESC", "s.id DESC"},
			Map:     sessionRow.toDomain,
		},
	}
}

type sessionRow struct {
	ID           string         `db:"id"`
	CreatedAt    time.Time      `db:"created_at"`
	Status       sql.NullInt64  `db:"status"`
	PhoneNumber  sql.NullString `db:"phone_number"`
	Email        sql.NullString `db:"email"`
	Name         sql.NullString `db:"name"`
	Transferred  bool           `db:"transferred"`
	MessageCount int64          `db:"message_count"`
}

func (r sessionRow) toDomain() domain.Session {
	session := domain.Session{
		ID:           r.ID,
		PhoneNumber:  domain.UnknownPhoneNumber,
		Email:        query.NullableString(r.Email),
		Name:         query.NullableString(r.Name),
		StartedAt:    query.NewTimestamp(r.CreatedAt),
		MessageCount: r.MessageCount,
		Transferred:  r.Transferred,
	}
	if r.PhoneNumber.Valid && r.PhoneNumber.String != "" {
		session.PhoneNumber = r.PhoneNumber.String
	}
	if r.Status.Valid {
		status := int(r.Status.Int64)
		session.Status = &status
	}
	return session
}

func selectSessions() *sqlbuilder.SelectBuilder {
	sb := database.NewSelect()
	sb.Select(
		"s.id::text AS id",
		"s.created_at",
		"s.status",
		"c.phone_number::text AS phone_number",
		"c.email",
		"c.name",
		"EXISTS (SELECT 1 FROM transferred_leads tl WHERE tl.session_id = s.id) AS transferred",
		"(SELECT COUNT(*) FROM conversations conv WHERE conv.session_id = s.id) AS message_count",
	).From("sessions s").
		JoinWithOption(sqlbuilder.LeftJoin, "contacts c", "s.contact_id = c.id")
	return sb
}

func searchSessions(sb *sqlbuilder.SelectBuilder, pattern string) string {
	return sb.Or(
		sb.ILike("c.phone_number::text", pattern),
		sb.ILike("c.email", pattern),
		sb.ILike("c.name", pattern),
	)
}

// List returns a page of sessions; see domain.Repository.
func (r *PostgresRepository) List(ctx context.Context, filter query.Filter) (*query.Page[domain.Session], error) {
	operation := "conversation.list"
	if filter.IsSearch() {
		operation = "conversation.search"
	}

	var page *query.Page[domain.Session]
	err := r.pool.WithConn(ctx, operation, func(ctx context.Context, conn *sqlx.Conn) error {
		var err error
		page, err = r.pager.Fetch(ctx, conn, filter)
		return err
	})
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list sessions", err)
	}
	return page, nil
}

// FindByID loads the session, its messages in chronological order and its vault items.
// A malformed id reads as not found without touching the database.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*domain.Detail, error) {
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	var detail *domain.Detail
	err = r.pool.WithConn(ctx, "conversation.get", func(ctx context.Context, conn *sqlx.Conn) error {
		sb := selectSessions()
		sb.Where(sb.Equal("s.id", sessionID.String()))
		sessionSQL, args := sb.Build()

		var row sessionRow
		if err := sqlx.GetContext(ctx, conn, &row, sessionSQL, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}

		msb := SelectMessages("conv")
		msb.Where(msb.Equal("conv.session_id", row.ID)).OrderBy("conv.created_at ASC", "conv.id ASC")
		messages, err := ScanMessages(ctx, conn, msb)
		if err != nil {
			return err
		}

		vsb := SelectVault("kv")
		vsb.Where(vsb.Equal("kv.session_id", row.ID)).OrderBy("kv.key ASC", "kv.id ASC")
		vault, err := ScanVault(ctx, conn, vsb)
		if err != nil {
			return err
		}

		detail = &domain.Detail{
			Session:        row.toDomain(),
			Messages:       messages,
			KnowledgeVault: vault,
		}
		return nil
	})
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to get session", err)
	}
	return detail, nil
}
