package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/janhq/aura-server/internal/utils/platformerrors"
)

// HandleError writes err as a typed error response. Errors that are not platform
// errors are wrapped with message and reported as internal.
func HandleError(c *gin.Context, err error, message string) {
	logger := log.With().Str("path", c.Request.URL.Path).Logger()

	if platformerrors.GetPlatformError(err) == nil {
		err = platformerrors.AsError(c.Request.Context(), platformerrors.LayerRoute, err, message)
	}
	platformerrors.WriteError(c, err, logger)
}

// HandleNewError creates and writes a new typed error response.
// Use this for route-level errors like request validation.
func HandleNewError(c *gin.Context, errorType platformerrors.ErrorType, message string) {
	c.JSON(platformerrors.ErrorTypeToHTTPStatus(errorType), ErrorResponse{
		Error: &ErrorDetail{
			Message: message,
			Type:    platformerrors.ErrorTypeString(errorType),
		},
	})
}

// HandleBindError reports a malformed request body or query.
func HandleBindError(c *gin.Context, err error) {
	HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request: "+err.Error())
}

// NoContent writes a 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
