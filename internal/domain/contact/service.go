package contact

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/janhq/leads-api/internal/domain/query"
	"github.com/janhq/leads-api/internal/utils/platformerrors"
	"github.com/janhq/leads-api/pkg/telemetry"
)

// Service describes the read surface for contacts.
type Service interface {
	List(ctx context.Context, p query.Pagination) (*query.Page[Contact], error)
	Search(ctx context.Context, term string, p query.Pagination) (*query.Page[Contact], error)
	GetByID(ctx context.Context, id string) (*Detail, error)
}

type service struct {
	repo      Repository
	sanitizer *telemetry.Sanitizer
	log       zerolog.Logger
}

// NewService wires the contact service with its repository.
func NewService(repo Repository, sanitizer *telemetry.Sanitizer, log zerolog.Logger) Service {
	return &service{
		repo:      repo,
		sanitizer: sanitizer,
		log:       log.With().Str("component", "contact-service").Logger(),
	}
}

func (s *service) List(ctx context.Context, p query.Pagination) (*query.Page[Contact], error) {
	page, err := s.repo.List(ctx, query.NewFilter(p))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list contacts")
	}
	return page, nil
}

func (s *service) Search(ctx context.Context, term string, p query.Pagination) (*query.Page[Contact], error) {
	filter := query.NewSearchFilter(term, p)
	if !filter.IsSearch() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "search query is required", nil)
	}

	s.log.Debug().
		Str("term", s.sanitizer.SanitizeSearchTerm(filter.Search)).
		Int("page", p.Page).
		Msg("search contacts")

	page, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "search contacts")
	}
	return page, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Detail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "get contact")
	}
	return detail, nil
}
