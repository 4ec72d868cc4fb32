package transferredlead

import (
	"context"
	"errors"
	"strings"
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
	ListFunc         func(ctx context.Context, filter query.Filter) (*query.Page[Lead], error)
	PendingCountFunc func(ctx context.Context) int64
	UpdateCRMIDFunc  func(ctx context.Context, id int64, crmID string) (*CRMUpdateResult, error)
}

func (m *MockRepository) List(ctx context.Context, filter query.Filter) (*query.Page[Lead], error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return query.NewPage[Lead](nil, 0, filter.Pagination), nil
}

func (m *MockRepository) PendingCount(ctx context.Context) int64 {
	if m.PendingCountFunc != nil {
		return m.PendingCountFunc(ctx)
	}
	return 0
}

func (m *MockRepository) UpdateCRMID(ctx context.Context, id int64, crmID string) (*CRMUpdateResult, error) {
	if m.UpdateCRMIDFunc != nil {
		return m.UpdateCRMIDFunc(ctx, id, crmID)
	}
	return &CRMUpdateResult{Status: CRMUpdateNotFound}, nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, telemetry.NewSanitizer(telemetry.PIILevelHashed, "test"), zerolog.Nop())
}

func TestUpdateCRMID_TrimsBeforeStoring(t *testing.T) {
	var gotID int64
	var gotCRMID string
	repo := &MockRepository{
		UpdateCRMIDFunc: func(ctx context.Context, id int64, crmID string) (*CRMUpdateResult, error) {
			gotID, gotCRMID = id, crmID
			return &CRMUpdateResult{Status: CRMUpdateApplied, Lead: &Lead{ID: "42"}}, nil
		},
	}

	result, err := newTestService(repo).UpdateCRMID(context.Background(), 42, "  SF-001  ")

	require.NoError(t, err)
	assert.True(t, result.Found())
	assert.Equal(t, int64(42), gotID)
	assert.Equal(t, "SF-001", gotCRMID)
}

func TestUpdateCRMID_Validation(t *testing.T) {
	tests := []struct {
		name  string
		crmID string
	}{
		{"empty", ""},
		{"whitespace only", "   \t "},
		{"too long", strings.Repeat("x", MaxCRMIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			repo := &MockRepository{
				UpdateCRMIDFunc: func(ctx context.Context, id int64, crmID string) (*CRMUpdateResult, error) {
					called = true
					return nil, nil
				},
			}

			result, err := newTestService(repo).UpdateCRMID(context.Background(), 1, tt.crmID)

			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
			assert.False(t, called)
		})
	}
}

func TestUpdateCRMID_MaxLengthAccepted(t *testing.T) {
	result, err := newTestService(&MockRepository{
		UpdateCRMIDFunc: func(ctx context.Context, id int64, crmID string) (*CRMUpdateResult, error) {
			return &CRMUpdateResult{Status: CRMUpdateApplied, Lead: &Lead{ID: "42"}}, nil
		},
	}).UpdateCRMID(context.Background(), 1, strings.Repeat("x", MaxCRMIDLength))

	require.NoError(t, err)
	assert.True(t, result.Found())
}

func TestUpdateCRMID_NotFoundPassesThrough(t *testing.T) {
	result, err := newTestService(&MockRepository{}).UpdateCRMID(context.Background(), 999, "SF-001")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, CRMUpdateNotFound, result.Status)
	assert.False(t, result.Found())
}

func TestUpdateCRMID_RepositoryError(t *testing.T) {
	repo := &MockRepository{
		UpdateCRMIDFunc: func(ctx context.Context, id int64, crmID string) (*CRMUpdateResult, error) {
			return nil, errors.New("connection reset")
		},
	}

	result, err := newTestService(repo).UpdateCRMID(context.Background(), 1, "SF-001")

	assert.Nil(t, result)
	require.Error(t, err)
	assert.False(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestSearch_RequiresTerm(t *testing.T) {
	called := false
	repo := &MockRepository{
		ListFunc: func(ctx context.Context, filter query.Filter) (*query.Page[Lead], error) {
			called = true
			return nil, nil
		},
	}

	page, err := newTestService(repo).Search(context.Background(), "   ", query.NewPagination(1, 20))

	assert.Nil(t, page)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.False(t, called)
}

func TestSearch_PassesTrimmedTerm(t *testing.T) {
	var got query.Filter
	repo := &MockRepository{
		ListFunc: func(ctx context.Context, filter query.Filter) (*query.Page[Lead], error) {
			got = filter
			return query.NewPage[Lead](nil, 0, filter.Pagination), nil
		},
	}

	_, err := newTestService(repo).Search(context.Background(), "  solar ", query.NewPagination(2, 10))

	require.NoError(t, err)
	assert.Equal(t, "solar", got.Search)
	assert.Equal(t, 2, got.Page)
}

func TestPendingCount(t *testing.T) {
	repo := &MockRepository{PendingCountFunc: func(ctx context.Context) int64 { return 7 }}
	assert.Equal(t, int64(7), newTestService(repo).PendingCount(context.Background()))
}
