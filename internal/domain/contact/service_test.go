package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/leads-api/internal/domain/query"
	"github.com/janhq/leads-api/internal/utils/platformerrors"
	"github.com/janhq/leads-api/pkg/telemetry"
)

// MockRepository is a func-field implementation of Repository.
type MockRepository struct {
	ListFunc     func(ctx context.Context, filter query.Filter) (*query.Page[Contact], error)
	FindByIDFunc func(ctx context.Context, id string) (*Detail, error)
}

func (m *MockRepository) List(ctx context.Context, filter query.Filter) (*query.Page[Contact], error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return query.NewPage[Contact](nil, 0, filter.Pagination), nil
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (*Detail, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, telemetry.NewSanitizer(telemetry.PIILevelHashed, "test"), zerolog.Nop())
}

func TestSearch_BlankTermIsValidationError(t *testing.T) {
	for _, term := range []string{"", "   ", "\t\n"} {
		called := false
		repo := &MockRepository{
			ListFunc: func(ctx context.Context, filter query.Filter) (*query.Page[Contact], error) {
				called = true
				return nil, nil
			},
		}

		page, err := newTestService(repo).Search(context.Background(), term, query.NewPagination(1, 20))

		assert.Nil(t, page)
		require.Error(t, err)
		assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation), "term %q", term)
		assert.False(t, called, "term %q reached the repository", term)
	}
}

func TestSearch_TrimsTerm(t *testing.T) {
	var got query.Filter
	repo := &MockRepository{
		ListFunc: func(ctx context.Context, filter query.Filter) (*query.Page[Contact], error) {
			got = filter
			return query.NewPage[Contact](nil, 0, filter.Pagination), nil
		},
	}

	page, err := newTestService(repo).Search(context.Background(), " maria@example.com  ", query.NewPagination(3, 5))

	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Equal(t, "maria@example.com", got.Search)
	assert.Equal(t, 3, got.Page)
	assert.Equal(t, 5, got.PageSize)
}

func TestList_WrapsRepositoryError(t *testing.T) {
	repo := &MockRepository{
		ListFunc: func(ctx context.Context, filter query.Filter) (*query.Page[Contact], error) {
			assert.False(t, filter.IsSearch())
			return nil, errors.New("connection refused")
		},
	}

	page, err := newTestService(repo).List(context.Background(), query.NewPagination(1, 20))

	assert.Nil(t, page)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInternal))
}

func TestGetByID_BlankIDSkipsRepository(t *testing.T) {
	repo := &MockRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*Detail, error) {
			t.Fatalf("unexpected lookup of %q", id)
			return nil, nil
		},
	}

	detail, err := newTestService(repo).GetByID(context.Background(), "  ")

	require.NoError(t, err)
	assert.Nil(t, detail)
}
