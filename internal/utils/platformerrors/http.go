package platformerrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HTTPErrorResponse is the error envelope every route returns.
type HTTPErrorResponse struct {
	Error *HTTPErrorDetail `json:"error"`
}

// HTTPErrorDetail describes one failed request. Details is only filled for client errors,
// so a conflict tells the caller which session state rejected it.
type HTTPErrorDetail struct {
	Message   string         `json:"message"`
	Type      string         `json:"type"`
	Code      string         `json:"code,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// WriteError logs err and writes it with the status of its type.
// Errors that are not PlatformErrors become opaque internal errors.
func WriteError(c *gin.Context, err error, log zerolog.Logger) {
	platformErr := GetPlatformError(err)
	if platformErr == nil {
		if err != nil {
			log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		}
		c.JSON(http.StatusInternalServerError, HTTPErrorResponse{
			Error: &HTTPErrorDetail{Message: "internal error", Type: ErrorTypeString(ErrorTypeInternal)},
		})
		return
	}

	LogError(log, platformErr)

	status := ErrorTypeToHTTPStatus(platformErr.Type)
	detail := &HTTPErrorDetail{
		Message:   platformErr.Message,
		Type:      ErrorTypeString(platformErr.Type),
		Code:      platformErr.UUID,
		RequestID: platformErr.RequestID,
	}
	if status < http.StatusInternalServerError && len(platformErr.Context) > 0 {
		detail.Details = platformErr.Context
	}
	c.JSON(status, HTTPErrorResponse{Error: detail})
}

// ErrorTypeString converts an ErrorType to the snake_case name used in responses.
func ErrorTypeString(t ErrorType) string {
	switch t {
	case ErrorTypeNotFound:
		return "not_found_error"
	case ErrorTypeValidation:
		return "validation_error"
	case ErrorTypeConflict:
		return "conflict_error"
	case ErrorTypeNotImplemented:
		return "not_implemented_error"
	case ErrorTypeStorage:
		return "storage_error"
	default:
		return "internal_error"
	}
}
