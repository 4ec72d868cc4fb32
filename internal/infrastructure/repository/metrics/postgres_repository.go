package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"

	domain "github.com/janhq/leads-api/internal/domain/metrics"
	"github.com/janhq/leads-api/internal/infrastructure/database"
	"github.com/janhq/leads-api/internal/utils/platformerrors"
)

// PostgresRepository computes dashboard aggregates.
type PostgresRepository struct {
	pool *database.Pool
}

func NewPostgresRepository(pool *database.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Totals counts sessions and leads and averages messages over sessions that have any.
func (r *PostgresRepository) Totals(ctx context.Context) (domain.Totals, error) {
	var totals domain.Totals
	err := r.pool.WithConn(ctx, "metrics.summary", func(ctx context.Context, conn *sqlx.Conn) error {
		sessions := database.NewSelect()
		sessions.Select("COUNT(*)").From("sessions")
		if err := getBuilt(ctx, conn, &totals.Sessions, sessions.Build); err != nil {
			return fmt.Errorf("count sessions: %w", err)
		}

		leads := database.NewSelect()
		leads.Select("COUNT(*)").From("transferred_leads")
		if err := getBuilt(ctx, conn, &totals.TransferredLeads, leads.Build); err != nil {
			return fmt.Errorf("count transferred leads: %w", err)
		}

		perSession := database.NewSelect()
		perSession.Select("session_id", "COUNT(*) AS msg_count").
			From("conversations").
			Where(perSession.IsNotNull("session_id")).
			GroupBy("session_id")

		avg := database.NewSelect()
		avg.Select("COALESCE(AVG(msg_count), 0)").From(avg.BuilderAs(perSession, "session_counts"))
		if err := getBuilt(ctx, conn, &totals.AvgMessagesPerSession, avg.Build); err != nil {
			return fmt.Errorf("average messages per session: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Totals{}, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to compute metrics summary", err)
	}
	return totals, nil
}

// MonthlyCounts buckets sessions by creation month; a session counts as transferred when any
// lead references it.
func (r *PostgresRepository) MonthlyCounts(ctx context.Context, since time.Time) ([]domain.MonthlyCount, error) {
	var counts []domain.MonthlyCount
	err := r.pool.WithConn(ctx, "metrics.timeline", func(ctx context.Context, conn *sqlx.Conn) error {
		sb := database.NewSelect()
		sb.Select(
			"TO_CHAR(s.created_at AT TIME ZONE 'UTC', 'YYYY-MM') AS month",
			"COUNT(DISTINCT s.id) AS total_conversations",
			"COUNT(DISTINCT tl.session_id) AS transferred_leads",
		).From("sessions s").
			JoinWithOption(sqlbuilder.LeftJoin, "transferred_leads tl", "tl.session_id = s.id").
			Where(sb.GreaterEqualThan("s.created_at", since)).
			GroupBy("1").
			OrderBy("1 ASC")
		stmt, args := sb.Build()
		return sqlx.SelectContext(ctx, conn, &counts, stmt, args...)
	})
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to compute metrics timeline", err)
	}
	if counts == nil {
		counts = []domain.MonthlyCount{}
	}
	return counts, nil
}

func getBuilt(ctx context.Context, conn *sqlx.Conn, dest any, build func() (string, []any)) error {
	stmt, args := build()
	return sqlx.GetContext(ctx, conn, dest, stmt, args...)
}
