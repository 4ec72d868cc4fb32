package transferredlead

import (
	"context"

	"github.com/janhq/leads-api/internal/domain/query"
)

// Repository reads transferred leads and records their CRM link.
type Repository interface {
	// List returns a page of leads, newest first. A search term matches contact phone, email,
	// name or the lead summary.
	List(ctx context.Context, filter query.Filter) (*query.Page[Lead], error)
	// PendingCount counts leads without a CRM id. It reports 0 when the store is unavailable.
	PendingCount(ctx context.Context) int64
	// UpdateCRMID sets crm_id and forces crm_entrance to true. An unknown id yields a
	// CRMUpdateNotFound result, not an error.
	UpdateCRMID(ctx context.Context, id int64, crmID string) (*CRMUpdateResult, error)
}
