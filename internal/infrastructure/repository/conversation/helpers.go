package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"

	domain "github.com/janhq/leads-api/internal/domain/conversation"
	"github.com/janhq/leads-api/internal/domain/query"
	"github.com/janhq/leads-api/internal/infrastructure/database"
)

// The message and vault readers are shared with the contact repository, which reads the same
// tables across every session of a contact.

type messageRow struct {
	ID        string         `db:"id"`
	SessionID string         `db:"session_id"`
	Sender    int            `db:"sender"`
	Content   sql.NullString `db:"content"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r messageRow) toDomain() domain.Message {
	return domain.Message{
		ID:        r.ID,
		SessionID: r.SessionID,
		Role:      domain.RoleFromSender(r.Sender),
		Content:   r.Content.String,
		Timestamp: query.NewTimestamp(r.CreatedAt),
	}
}

type vaultRow struct {
	ID        string         `db:"id"`
	SessionID string         `db:"session_id"`
	Key       string         `db:"key"`
	Value     sql.NullString `db:"value"`
}

func (r vaultRow) toDomain() domain.KnowledgeVaultItem {
	return domain.KnowledgeVaultItem{
		ID:        r.ID,
		SessionID: r.SessionID,
		Category:  domain.VaultCategory,
		Key:       r.Key,
		Value:     r.Value.String,
	}
}

// SelectMessages returns a builder over conversations aliased as alias. Callers add the
// filter, any joins and the ordering.
func SelectMessages(alias string) *sqlbuilder.SelectBuilder {
	sb := database.NewSelect()
	sb.Select(
		alias+".id::text AS id",
		alias+".session_id::text AS session_id",
		alias+".sender",
		alias+".content",
		alias+".created_at",
	).From("conversations " + alias)
	return sb
}

// ScanMessages runs sb and maps each row to a message.
func ScanMessages(ctx context.Context, q sqlx.QueryerContext, sb *sqlbuilder.SelectBuilder) ([]domain.Message, error) {
	stmt, args := sb.Build()
	var rows []messageRow
	if err := sqlx.SelectContext(ctx, q, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}

	messages := make([]domain.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, row.toDomain())
	}
	return messages, nil
}

// SelectVault returns a builder over knowledge_vault aliased as alias.
func SelectVault(alias string) *sqlbuilder.SelectBuilder {
	sb := database.NewSelect()
	sb.Select(
		alias+".id::text AS id",
		alias+".session_id::text AS session_id",
		alias+".key",
		alias+".value",
	).From("knowledge_vault " + alias)
	return sb
}

// ScanVault runs sb and maps each row to a vault item.
func ScanVault(ctx context.Context, q sqlx.QueryerContext, sb *sqlbuilder.SelectBuilder) ([]domain.KnowledgeVaultItem, error) {
	stmt, args := sb.Build()
	var rows []vaultRow
	if err := sqlx.SelectContext(ctx, q, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("select knowledge vault: %w", err)
	}

	items := make([]domain.KnowledgeVaultItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}
