package transferredlead

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/janhq/leads-api/internal/domain/query"
	"github.com/janhq/leads-api/internal/utils/platformerrors"
	"github.com/janhq/leads-api/pkg/telemetry"
)

// MaxCRMIDLength bounds the external identifier accepted from clients.
const MaxCRMIDLength = 255

// Service describes the transferred lead use cases.
type Service interface {
	List(ctx context.Context, p query.Pagination) (*query.Page[Lead], error)
	Search(ctx context.Context, term string, p query.Pagination) (*query.Page[Lead], error)
	PendingCount(ctx context.Context) int64
	UpdateCRMID(ctx context.Context, id int64, crmID string) (*CRMUpdateResult, error)
}

type service struct {
	repo      Repository
	sanitizer *telemetry.Sanitizer
	log       zerolog.Logger
}

// NewService wires the transferred lead service with its repository.
func NewService(repo Repository, sanitizer *telemetry.Sanitizer, log zerolog.Logger) Service {
	return &service{
		repo:      repo,
		sanitizer: sanitizer,
		log:       log.With().Str("component", "transferred-lead-service").Logger(),
	}
}

func (s *service) List(ctx context.Context, p query.Pagination) (*query.Page[Lead], error) {
	page, err := s.repo.List(ctx, query.NewFilter(p))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list transferred leads")
	}
	return page, nil
}

func (s *service) Search(ctx context.Context, term string, p query.Pagination) (*query.Page[Lead], error) {
	filter := query.NewSearchFilter(term, p)
	if !filter.IsSearch() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "search query is required", nil)
	}

	s.log.Debug().
		Str("term", s.sanitizer.SanitizeSearchTerm(filter.Search)).
		Int("page", p.Page).
		Msg("search transferred leads")

	page, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "search transferred leads")
	}
	return page, nil
}

func (s *service) PendingCount(ctx context.Context) int64 {
	return s.repo.PendingCount(ctx)
}

// UpdateCRMID trims crmID and assigns it to the lead. Blank input is a validation error.
func (s *service) UpdateCRMID(ctx context.Context, id int64, crmID string) (*CRMUpdateResult, error) {
	crmID = NormalizeCRMID(crmID)
	if crmID == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "crm id is required", nil)
	}
	if len(crmID) > MaxCRMIDLength {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"crm id is too long", nil, map[string]any{"length": len(crmID)})
	}

	result, err := s.repo.UpdateCRMID(ctx, id, crmID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "update crm id")
	}
	if result.Found() {
		s.log.Info().Int64("lead_id", id).Msg("crm id assigned")
	}
	return result, nil
}

// NormalizeCRMID strips surrounding whitespace from a client supplied CRM id.
func NormalizeCRMID(raw string) string {
	return strings.TrimSpace(raw)
}
