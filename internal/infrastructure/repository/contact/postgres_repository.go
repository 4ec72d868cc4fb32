package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	domain "github.com/janhq/leads-api/internal/domain/contact"
	"github.com/janhq/leads-api/internal/domain/conversation"
	"github.com/janhq/leads-api/internal/domain/query"
	"github.com/janhq/leads-api/internal/infrastructure/database"
	conversationrepo "github.com/janhq/leads-api/internal/infrastructure/repository/conversation"
	"github.com/janhq/leads-api/internal/utils/platformerrors"
)

// PostgresRepository aggregates contacts over their sessions.
type PostgresRepository struct {
	pool  *database.Pool
	pager database.Pager[contactRow, domain.Contact]
}

// NewPostgresRepository creates a repository backed by the provided pool.
func NewPostgresRepository(pool *database.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
		pager: database.Pager[contactRow, domain.Contact]{
			Count: func() *sqlbuilder.SelectBuilder {
				sb := database.NewSelect()
				sb.Select("COUNT(DISTINCT c.id)").From("contacts c").
					Join("sessions s", "s.contact_id = c.id")
				return sb
			},
			Select:  selectContacts,
			Search:  searchContacts,
			OrderBy: []string{"last_activity_at DESC", "c.id ASC"},
			Map:     contactRow.toDomain,
		},
	}
}

type contactRow struct {
	ID                string         `db:"id"`
	Name              sql.NullString `db:"name"`
	PhoneNumber       sql.NullString `db:"phone_number"`
	Email             sql.NullString `db:"email"`
	SessionCount      int64          `db:"session_count"`
	TotalMessageCount int64          `db:"total_message_count"`
	Transferred       bool           `db:"transferred"`
	LastActivityAt    time.Time      `db:"last_activity_at"`
	CRMID             sql.NullString `db:"crm_id"`
}

func (r contactRow) toDomain() domain.Contact {
	c := domain.Contact{
		ID:                r.ID,
		Name:              query.NullableString(r.Name),
		PhoneNumber:       conversation.UnknownPhoneNumber,
		Email:             query.NullableString(r.Email),
		SessionCount:      r.SessionCount,
		TotalMessageCount: r.TotalMessageCount,
		Transferred:       r.Transferred,
		LastActivityAt:    query.NewTimestamp(r.LastActivityAt),
		CRMID:             query.NullableString(r.CRMID),
	}
	if r.PhoneNumber.Valid && r.PhoneNumber.String != "" {
		c.PhoneNumber = r.PhoneNumber.String
	}
	return c
}

// selectContacts groups sessions per contact. Contacts without sessions are excluded by the
// inner join. Message totals come from a per-session subquery so the session join does not
// multiply them.
func selectContacts() *sqlbuilder.SelectBuilder {
	sb := database.NewSelect()
	sb.Select(
		"c.id::text AS id",
		"c.name",
		"c.phone_number::text AS phone_number",
		"c.email",
		"COUNT(s.id) AS session_count",
		"COALESCE(SUM(mc.message_count), 0) AS total_message_count",
		"EXISTS (SELECT 1 FROM transferred_leads tl WHERE tl.contact_id = c.id) AS transferred",
		"MAX(s.created_at) AS last_activity_at",
		`(SELECT tl.crm_id FROM transferred_leads tl
			WHERE tl.contact_id = c.id AND tl.crm_id IS NOT NULL AND tl.crm_id <> ''
			ORDER BY tl.created_at DESC, tl.id DESC LIMIT 1) AS crm_id`,
	).From("contacts c").
		Join("sessions s", "s.contact_id = c.id").
		JoinWithOption(sqlbuilder.LeftJoin,
			"(SELECT session_id, COUNT(*) AS message_count FROM conversations GROUP BY session_id) mc",
			"mc.session_id = s.id").
		GroupBy("c.id", "c.name", "c.phone_number", "c.email")
	return sb
}

func searchContacts(sb *sqlbuilder.SelectBuilder, pattern string) string {
	return sb.Or(
		sb.ILike("c.phone_number::text", pattern),
		sb.ILike("c.email", pattern),
		sb.ILike("c.name", pattern),
	)
}

// List returns a page of contacts ordered by most recent activity.
func (r *PostgresRepository) List(ctx context.Context, filter query.Filter) (*query.Page[domain.Contact], error) {
	operation := "contact.list"
	if filter.IsSearch() {
		operation = "contact.search"
	}

	var page *query.Page[domain.Contact]
	err := r.pool.WithConn(ctx, operation, func(ctx context.Context, conn *sqlx.Conn) error {
		var err error
		page, err = r.pager.Fetch(ctx, conn, filter)
		return err
	})
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list contacts", err)
	}
	return page, nil
}

type sessionRow struct {
	ID           string    `db:"id"`
	CreatedAt    time.Time `db:"created_at"`
	Transferred  bool      `db:"transferred"`
	MessageCount int64     `db:"message_count"`
}

type documentRow struct {
	ID        string         `db:"id"`
	SessionID string         `db:"session_id"`
	Category  sql.NullString `db:"category"`
	ImageID   string         `db:"image_id"`
	Link      string         `db:"link"`
}

// FindByID builds the composite contact view: the aggregate row, session metadata, and every
// message, vault item and document across the contact's sessions.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*domain.Detail, error) {
	contactID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	var detail *domain.Detail
	err = r.pool.WithConn(ctx, "contact.get", func(ctx context.Context, conn *sqlx.Conn) error {
		sb := selectContacts()
		sb.Where(sb.Equal("c.id", contactID.String()))
		contactSQL, args := sb.Build()

		var row contactRow
		if err := sqlx.GetContext(ctx, conn, &row, contactSQL, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}

		sessions, err := r.sessions(ctx, conn, row.ID)
		if err != nil {
			return err
		}

		msb := conversationrepo.SelectMessages("conv")
		msb.Join("sessions s", "s.id = conv.session_id").
			Where(msb.Equal("s.contact_id", row.ID)).
			OrderBy("s.created_at ASC", "conv.created_at ASC", "conv.id ASC")
		messages, err := conversationrepo.ScanMessages(ctx, conn, msb)
		if err != nil {
			return err
		}

		vsb := conversationrepo.SelectVault("kv")
		vsb.Join("sessions s", "s.id = kv.session_id").
			Where(vsb.Equal("s.contact_id", row.ID)).
			OrderBy("s.created_at ASC", "kv.id ASC")
		vault, err := conversationrepo.ScanVault(ctx, conn, vsb)
		if err != nil {
			return err
		}

		documents, err := r.documents(ctx, conn, row.ID)
		if err != nil {
			return err
		}

		detail = &domain.Detail{
			Contact:        row.toDomain(),
			Sessions:       sessions,
			Messages:       messages,
			KnowledgeVault: vault,
			Documents:      documents,
		}
		return nil
	})
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to get contact", err)
	}
	return detail, nil
}

func (r *PostgresRepository) sessions(ctx context.Context, conn *sqlx.Conn, contactID string) ([]domain.SessionMetadata, error) {
	sb := database.NewSelect()
	sb.Select(
		"s.id::text AS id",
		"s.created_at",
		"EXISTS (SELECT 1 FROM transferred_leads tl WHERE tl.session_id = s.id) AS transferred",
		"(SELECT COUNT(*) FROM conversations conv WHERE conv.session_id = s.id) AS message_count",
	).From("sessions s").
		Where(sb.Equal("s.contact_id", contactID)).
		OrderBy("s.created_at ASC", "s.id ASC")
	stmt, args := sb.Build()

	var rows []sessionRow
	if err := sqlx.SelectContext(ctx, conn, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("select sessions: %w", err)
	}

	sessions := make([]domain.SessionMetadata, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, domain.SessionMetadata{
			ID:           row.ID,
			CreatedAt:    query.NewTimestamp(row.CreatedAt),
			Transferred:  row.Transferred,
			MessageCount: row.MessageCount,
		})
	}
	return sessions, nil
}

func (r *PostgresRepository) documents(ctx context.Context, conn *sqlx.Conn, contactID string) ([]domain.Document, error) {
	sb := database.NewSelect()
	sb.Select(
		"d.id::text AS id",
		"d.session_id::text AS session_id",
		"d.category",
		"d.image_id",
		"d.link",
	).From("session_documents d").
		Join("sessions s", "s.id = d.session_id").
		Where(sb.Equal("s.contact_id", contactID)).
		OrderBy("s.created_at ASC", "d.id ASC")
	stmt, args := sb.Build()

	var rows []documentRow
	if err := sqlx.SelectContext(ctx, conn, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("select documents: %w", err)
	}

	documents := make([]domain.Document, 0, len(rows))
	for _, row := range rows {
		documents = append(documents, domain.Document{
			ID:        row.ID,
			SessionID: row.SessionID,
			Category:  query.NullableString(row.Category),
			ImageID:   row.ImageID,
			Link:      row.Link,
		})
	}
	return documents, nil
}
