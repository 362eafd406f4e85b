package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/aura-server/internal/interfaces/httpserver/handlers"
	chatreq "github.com/janhq/aura-server/internal/interfaces/httpserver/requests/chat"
	"github.com/janhq/aura-server/internal/interfaces/httpserver/responses"
	chatres "github.com/janhq/aura-server/internal/interfaces/httpserver/responses/chat"
)

// RegisterChatRoutes registers chat, group and workspace routes.
// All of them answer 409 unless the session is active.
func RegisterChatRoutes(router gin.IRoutes, handler *handlers.ChatHandler) {
	router.GET("/chats", listChats(handler))
	router.GET("/chats/:chat_id", openChat(handler))
	router.POST("/chats/:chat_id/messages", sendMessage(handler))
	router.POST("/chats/:chat_id/workspaces/:workspace_id/toggle", toggleTag(handler))

	router.POST("/groups", createGroup(handler))

	router.POST("/workspaces", createWorkspace(handler))
	router.PUT("/workspaces/:workspace_id", updateWorkspace(handler))
	router.DELETE("/workspaces/:workspace_id", deleteWorkspace(handler))
}

func listChats(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query chatreq.ListChatsQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		sessions, err := handler.ListChats(c.Request.Context(), query.Workspace)
		if err != nil {
			responses.HandleError(c, err, "failed to list chats")
			return
		}
		c.JSON(http.StatusOK, chatres.NewListChatsResponse(query.Workspace, sessions))
	}
}

func openChat(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		thread, err := handler.OpenChat(c.Request.Context(), c.Param("chat_id"))
		if err != nil {
			responses.HandleError(c, err, "failed to open chat")
			return
		}
		c.JSON(http.StatusOK, chatres.NewThreadResponse(thread))
	}
}

func sendMessage(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatreq.SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		msg, err := handler.SendMessage(c.Request.Context(), c.Param("chat_id"), req.Text)
		if err != nil {
			responses.HandleError(c, err, "failed to send message")
			return
		}
		c.JSON(http.StatusCreated, chatres.NewMessageResponse(msg))
	}
}

func toggleTag(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		updated, err := handler.ToggleTag(c.Request.Context(), c.Param("chat_id"), c.Param("workspace_id"))
		if err != nil {
			responses.HandleError(c, err, "failed to toggle workspace tag")
			return
		}
		c.JSON(http.StatusOK, chatres.NewToggleTagResponse(updated))
	}
}

func createGroup(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatreq.CreateGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		group, err := handler.CreateGroup(c.Request.Context(), req.ToDomain())
		if err != nil {
			responses.HandleError(c, err, "failed to create group")
			return
		}
		c.JSON(http.StatusCreated, chatres.NewChatResponse(*group))
	}
}

func createWorkspace(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatreq.WorkspaceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		ws, err := handler.CreateWorkspace(c.Request.Context(), req.ToDomain(""))
		if err != nil {
			responses.HandleError(c, err, "failed to create workspace")
			return
		}
		c.JSON(http.StatusCreated, chatres.NewWorkspaceResponse(ws))
	}
}

func updateWorkspace(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatreq.WorkspaceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		ws, err := handler.UpdateWorkspace(c.Request.Context(), req.ToDomain(c.Param("workspace_id")))
		if err != nil {
			responses.HandleError(c, err, "failed to update workspace")
			return
		}
		c.JSON(http.StatusOK, chatres.NewWorkspaceResponse(ws))
	}
}

func deleteWorkspace(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("workspace_id")
		if err := handler.DeleteWorkspace(c.Request.Context(), id); err != nil {
			responses.HandleError(c, err, "failed to delete workspace")
			return
		}
		c.JSON(http.StatusOK, chatres.NewDeleteWorkspaceResponse(id))
	}
}
