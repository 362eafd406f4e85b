package v1

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/aura-server/internal/domain/session"
	"github.com/janhq/aura-server/internal/infrastructure/camera"
	"github.com/janhq/aura-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/aura-server/internal/interfaces/httpserver/requests"
	sessionreq "github.com/janhq/aura-server/internal/interfaces/httpserver/requests/session"
	"github.com/janhq/aura-server/internal/interfaces/httpserver/responses"
	sessionres "github.com/janhq/aura-server/internal/interfaces/httpserver/responses/session"
	"github.com/janhq/aura-server/internal/utils/platformerrors"
)

// RegisterSessionRoutes registers the session lifecycle routes.
func RegisterSessionRoutes(router gin.IRoutes, handler *handlers.SessionHandler) {
	router.GET("/session", getSession(handler))
	router.POST("/session/signup", sessionAction(handler.StartSignup, "failed to start signup"))
	router.POST("/session/login", sessionAction(handler.StartLogin, "failed to start login"))
	router.POST("/session/back", sessionAction(handler.Back, "failed to go back"))
	router.POST("/session/signup/steps", submitSignupStep(handler))
	router.POST("/session/login/steps", submitLoginStep(handler))
	router.POST("/session/setup", completeSetup(handler))

	router.POST("/session/emotion-scan/start", sessionAction(handler.BeginScan, "failed to start emotion scan"))
	router.POST("/session/emotion-scan/retry", sessionAction(handler.RetryScan, "failed to retry emotion scan"))
	router.POST("/session/emotion-scan/capture", captureScan(handler))
	router.POST("/session/emotion-scan/skip", sessionAction(handler.SkipScan, "failed to skip emotion scan"))
	router.POST("/session/emotion-scan/camera-error", reportCameraError(handler))
	router.PUT("/session/emotion-scan/frame", pushFrame(handler))

	router.POST("/session/logout", sessionAction(handler.Logout, "failed to log out"))
}

// getSession returns the snapshot, optionally after pending advisory work settles.
func getSession(handler *handlers.SessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query requests.WaitQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		snap := handler.Snapshot()
		if query.Wait {
			var err error
			if snap, err = handler.WaitIdle(c.Request.Context()); err != nil {
				responses.HandleError(c, err, "failed to wait for session")
				return
			}
		}
		c.JSON(http.StatusOK, sessionres.NewSnapshotResponse(snap))
	}
}

func sessionAction(action func(ctx context.Context) (session.Snapshot, error), message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := action(c.Request.Context())
		if err != nil {
			responses.HandleError(c, err, message)
			return
		}
		c.JSON(http.StatusOK, sessionres.NewSnapshotResponse(snap))
	}
}

// submitSignupStep advances signup. Step 4 starts a background username check;
// wait=true returns its outcome.
func submitSignupStep(handler *handlers.SessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query requests.WaitQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			responses.HandleBindError(c, err)
			return
		}
		var req sessionreq.SignupStepRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		snap, err := handler.SubmitSignupStep(c.Request.Context(), req.ToInput(), query.Wait)
		if err != nil {
			responses.HandleError(c, err, "failed to submit signup step")
			return
		}
		c.JSON(http.StatusOK, sessionres.NewSnapshotResponse(snap))
	}
}

func submitLoginStep(handler *handlers.SessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sessionreq.LoginStepRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		snap, err := handler.SubmitLoginStep(c.Request.Context(), req.ToInput())
		if err != nil {
			responses.HandleError(c, err, "failed to submit login step")
			return
		}
		c.JSON(http.StatusOK, sessionres.NewSnapshotResponse(snap))
	}
}

func completeSetup(handler *handlers.SessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sessionreq.SetupRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			responses.HandleBindError(c, err)
			return
		}

		snap, err := handler.CompleteSetup(c.Request.Context(), req.ToPatch())
		if err != nil {
			responses.HandleError(c, err, "failed to complete setup")
			return
		}
		c.JSON(http.StatusOK, sessionres.NewSnapshotResponse(snap))
	}
}

func captureScan(handler *handlers.SessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query requests.WaitQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		snap, err := handler.CaptureScan(c.Request.Context(), query.Wait)
		if err != nil {
			responses.HandleError(c, err, "failed to capture emotion scan")
			return
		}
		c.JSON(http.StatusOK, sessionres.NewSnapshotResponse(snap))
	}
}

func reportCameraError(handler *handlers.SessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sessionreq.CameraErrorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		snap, err := handler.ReportCameraError(c.Request.Context(), req.Reason)
		if err != nil {
			responses.HandleError(c, err, "failed to report camera error")
			return
		}
		c.JSON(http.StatusOK, sessionres.NewSnapshotResponse(snap))
	}
}

// pushFrame delivers a JPEG or PNG frame from the client camera to an open scan.
func pushFrame(handler *handlers.SessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := http.MaxBytesReader(c.Writer, c.Request.Body, camera.MaxFrameBytes)
		data, err := io.ReadAll(body)
		if err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "frame is too large or unreadable")
			return
		}

		if err := handler.PushFrame(c.Request.Context(), data); err != nil {
			responses.HandleError(c, err, "failed to push frame")
			return
		}
		responses.NoContent(c)
	}
}
