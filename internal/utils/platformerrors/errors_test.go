package platformerrors

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError_CarriesRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")

	err := NewError(ctx, LayerRepository, ErrorTypeDatabaseError, "list sessions", errors.New("boom"))

	require.NotNil(t, err)
	assert.Equal(t, "req-123", err.GetRequestID())
	assert.NotEmpty(t, err.GetUUID())
	assert.Contains(t, err.Error(), "list sessions")
	assert.Contains(t, err.Error(), "boom")
}

func TestAsError_KeepsTypeAndUUID(t *testing.T) {
	inner := NewError(context.Background(), LayerDomain, ErrorTypeValidation, "crm id is empty", nil)

	wrapped := AsError(context.Background(), LayerHandler, inner, "update crm id")

	assert.Equal(t, ErrorTypeValidation, wrapped.Type)
	assert.Equal(t, inner.UUID, wrapped.UUID)
	assert.True(t, errors.Is(wrapped, inner))
}

func TestAsError_PlainErrorBecomesInternal(t *testing.T) {
	wrapped := AsError(context.Background(), LayerDomain, errors.New("io"), "fetch")
	assert.Equal(t, ErrorTypeInternal, wrapped.Type)
	assert.Nil(t, AsError(context.Background(), LayerDomain, nil, "fetch"))
}

func TestErrorTypeToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrorTypeToHTTPStatus(ErrorTypeNotFound))
	assert.Equal(t, http.StatusBadRequest, ErrorTypeToHTTPStatus(ErrorTypeValidation))
	assert.Equal(t, http.StatusUnauthorized, ErrorTypeToHTTPStatus(ErrorTypeUnauthorized))
	assert.Equal(t, http.StatusInternalServerError, ErrorTypeToHTTPStatus(ErrorTypeDatabaseError))
	assert.Equal(t, http.StatusInternalServerError, ErrorTypeToHTTPStatus("SOMETHING_ELSE"))
}

func TestIsErrorType(t *testing.T) {
	err := NewError(context.Background(), LayerRepository, ErrorTypeNotFound, "missing", nil)
	assert.True(t, IsErrorType(err, ErrorTypeNotFound))
	assert.False(t, IsErrorType(err, ErrorTypeValidation))
	assert.False(t, IsErrorType(errors.New("plain"), ErrorTypeNotFound))
	assert.False(t, IsErrorType(nil, ErrorTypeNotFound))
}
