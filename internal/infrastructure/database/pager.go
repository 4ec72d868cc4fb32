package database

import (
	"context"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"

	"github.com/janhq/leads-api/internal/domain/query"
)

// Pager implements the count-then-page read shared by every list and search endpoint.
// R is the scanned row type, T the domain record it maps to.
//
// The two statements run on the same connection but outside a transaction, so the total and
// the page can observe different snapshots under concurrent ingestion.
type Pager[R any, T any] struct {
	// Count returns a builder selecting a single count with every join the search predicate needs.
	Count func() *sqlbuilder.SelectBuilder
	// Select returns a builder with columns, joins and grouping; the pager adds WHERE,
	// ORDER BY, LIMIT and OFFSET.
	Select func() *sqlbuilder.SelectBuilder
	// Search returns the predicate matching the ILIKE pattern against sb's tables.
	Search func(sb *sqlbuilder.SelectBuilder, pattern string) string
	// OrderBy must yield a stable order so pages do not overlap.
	OrderBy []string
	Map     func(R) T
}

// Fetch runs the count and page queries for filter on q.
func (p Pager[R, T]) Fetch(ctx context.Context, q sqlx.QueryerContext, filter query.Filter) (*query.Page[T], error) {
	countSb := p.Count()
	if filter.IsSearch() {
		countSb.Where(p.Search(countSb, filter.Pattern()))
	}
	countSQL, countArgs := countSb.Build()

	var total int64
	if err := sqlx.GetContext(ctx, q, &total, countSQL, countArgs...); err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}

	if total == 0 || int64(filter.Offset()) >= total {
		return query.NewPage[T](nil, total, filter.Pagination), nil
	}

	sb := p.Select()
	if filter.IsSearch() {
		sb.Where(p.Search(sb, filter.Pattern()))
	}
	sb.OrderBy(p.OrderBy...)
	sb.Limit(filter.Limit()).Offset(filter.Offset())
	pageSQL, pageArgs := sb.Build()

	var rows []R
	if err := sqlx.SelectContext(ctx, q, &rows, pageSQL, pageArgs...); err != nil {
		return nil, fmt.Errorf("select page: %w", err)
	}

	data := make([]T, 0, len(rows))
	for _, row := range rows {
		data = append(data, p.Map(row))
	}
	return query.NewPage(data, total, filter.Pagination), nil
}

// NewSelect returns a PostgreSQL-flavored select builder.
func NewSelect() *sqlbuilder.SelectBuilder {
	return sqlbuilder.PostgreSQL.NewSelectBuilder()
}
