package contact

import (
	"context"

	"github.com/janhq/leads-api/internal/domain/query"
)

// Repository reads contacts that own at least one session.
type Repository interface {
	// List returns a page of contacts ordered by most recent activity. A search term matches
	// phone, email or name.
	List(ctx context.Context, filter query.Filter) (*query.Page[Contact], error)
	// FindByID returns nil without error when the contact is unknown or has no sessions.
	FindByID(ctx context.Context, id string) (*Detail, error)
}
