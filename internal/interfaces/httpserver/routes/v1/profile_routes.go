package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/aura-server/internal/domain/profile"
	"github.com/janhq/aura-server/internal/interfaces/httpserver/handlers"
	profilereq "github.com/janhq/aura-server/internal/interfaces/httpserver/requests/profile"
	"github.com/janhq/aura-server/internal/interfaces/httpserver/responses"
	sessionres "github.com/janhq/aura-server/internal/interfaces/httpserver/responses/session"
)

// RegisterProfileRoutes registers the routes editing the active user's profile.
func RegisterProfileRoutes(router gin.IRoutes, handler *handlers.ProfileHandler) {
	router.GET("/profile", getProfile(handler))
	router.PATCH("/profile", updateProfile(handler))
	router.PATCH("/profile/privacy", updatePrivacy(handler))
	router.POST("/profile/ai-features/:feature/toggle", toggleAIFeature(handler))
}

func getProfile(handler *handlers.ProfileHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, privacy, err := handler.Get(c.Request.Context())
		if err != nil {
			responses.HandleError(c, err, "failed to get profile")
			return
		}
		c.JSON(http.StatusOK, sessionres.NewProfileResponse(user, privacy))
	}
}

func updateProfile(handler *handlers.ProfileHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req profilereq.UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		if _, err := handler.Update(c.Request.Context(), req.ToEdit()); err != nil {
			responses.HandleError(c, err, "failed to update profile")
			return
		}
		user, privacy, err := handler.Get(c.Request.Context())
		if err != nil {
			responses.HandleError(c, err, "failed to get profile")
			return
		}
		c.JSON(http.StatusOK, sessionres.NewProfileResponse(user, privacy))
	}
}

func updatePrivacy(handler *handlers.ProfileHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req profilereq.UpdatePrivacyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		privacy, err := handler.UpdatePrivacy(c.Request.Context(), req.ToPatch())
		if err != nil {
			responses.HandleError(c, err, "failed to update privacy")
			return
		}
		c.JSON(http.StatusOK, sessionres.NewPrivacyResponse(privacy))
	}
}

func toggleAIFeature(handler *handlers.ProfileHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		feature := profile.Feature(c.Param("feature"))

		if _, err := handler.ToggleAIFeature(c.Request.Context(), feature); err != nil {
			responses.HandleError(c, err, "failed to toggle AI feature")
			return
		}
		user, privacy, err := handler.Get(c.Request.Context())
		if err != nil {
			responses.HandleError(c, err, "failed to get profile")
			return
		}
		c.JSON(http.StatusOK, sessionres.NewProfileResponse(user, privacy))
	}
}
