package conversation

import (
	"context"

	"github.com/janhq/leads-api/internal/domain/query"
)

// Repository reads sessions and their transcripts.
type Repository interface {
	// List returns a page of sessions, newest first. A filter with a search term restricts
	// sessions to those whose contact phone, email or name contains it.
	List(ctx context.Context, filter query.Filter) (*query.Page[Session], error)
	// FindByID returns nil without error when no session has the id.
	FindByID(ctx context.Context, id string) (*Detail, error)
}
