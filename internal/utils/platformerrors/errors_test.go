package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorCarriesRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	err := NewError(ctx, LayerDomain, ErrorTypeValidation, "username is required", nil, "")

	assert.Equal(t, "req-123", err.RequestID)
	assert.NotEmpty(t, err.UUID)
	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Contains(t, err.Error(), "username is required")
}

func TestAsErrorKeepsInnerType(t *testing.T) {
	inner := NewError(context.Background(), LayerStore, ErrorTypeNotFound, "chat not found", nil, "fixed-uuid")
	wrapped := AsError(context.Background(), LayerHandler, fmt.Errorf("open chat: %w", inner), "failed to open chat")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrorTypeNotFound, wrapped.Type)
	assert.Equal(t, "fixed-uuid", wrapped.UUID)
	assert.True(t, IsErrorType(wrapped, ErrorTypeNotFound))
}

func TestAsErrorDefaultsToInternal(t *testing.T) {
	wrapped := AsError(context.Background(), LayerStore, errors.New("disk full"), "write profile")
	assert.Equal(t, ErrorTypeInternal, wrapped.Type)
	assert.Nil(t, AsError(context.Background(), LayerStore, nil, "noop"))
}

func TestErrorTypeToHTTPStatus(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    int
	}{
		{ErrorTypeNotFound, http.StatusNotFound},
		{ErrorTypeValidation, http.StatusBadRequest},
		{ErrorTypeConflict, http.StatusConflict},
		{ErrorTypeNotImplemented, http.StatusNotImplemented},
		{ErrorTypeStorage, http.StatusInternalServerError},
		{ErrorType("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.errType), func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorTypeToHTTPStatus(tt.errType))
		})
	}
}
