package metrics

import (
	"context"
	"time"
)

// Repository computes aggregates over sessions, messages and transferred leads.
type Repository interface {
	Totals(ctx context.Context) (Totals, error)
	// MonthlyCounts buckets sessions created at or after since by calendar month (YYYY-MM),
	// ascending.
	MonthlyCounts(ctx context.Context, since time.Time) ([]MonthlyCount, error)
}
