package platformerrors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAndDecode(t *testing.T, err error) (int, HTTPErrorDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(c, err, zerolog.Nop())

	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return rec.Code, *body.Error
}

func TestWriteErrorIncludesClientDetails(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-9")
	err := NewErrorWithContext(ctx, LayerDomain, ErrorTypeConflict, "session is not active", nil, "",
		map[string]any{"state": "landing"})

	code, detail := writeAndDecode(t, err)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "conflict_error", detail.Type)
	assert.Equal(t, "req-9", detail.RequestID)
	assert.Equal(t, err.UUID, detail.Code)
	assert.Equal(t, "landing", detail.Details["state"])
}

func TestWriteErrorHidesServerDetails(t *testing.T) {
	err := NewErrorWithContext(context.Background(), LayerStore, ErrorTypeStorage, "failed to save profile",
		errors.New("dial tcp"), "", map[string]any{"key": "profile"})

	code, detail := writeAndDecode(t, err)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "storage_error", detail.Type)
	assert.Nil(t, detail.Details)
}

func TestWriteErrorOpaqueForPlainErrors(t *testing.T) {
	code, detail := writeAndDecode(t, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal_error", detail.Type)
	assert.Equal(t, "internal error", detail.Message)
}
