package handlers

import (
	"context"

	"github.com/janhq/aura-server/internal/domain/chat"
	"github.com/janhq/aura-server/internal/domain/profile"
)

// ChatHandler handles chat, group and workspace HTTP requests.
type ChatHandler struct {
	service chat.Service
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(service chat.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) ListChats(ctx context.Context, filter string) ([]chat.Session, error) {
	return h.service.ListChats(ctx, filter)
}

func (h *ChatHandler) ToggleTag(ctx context.Context, chatID, workspaceID string) (*chat.Session, error) {
	return h.service.ToggleTag(ctx, chatID, workspaceID)
}

func (h *ChatHandler) OpenChat(ctx context.Context, chatID string) (*chat.Thread, error) {
	return h.service.OpenChat(ctx, chatID)
}

func (h *ChatHandler) SendMessage(ctx context.Context, chatID, text string) (*chat.Message, error) {
	return h.service.SendMessage(ctx, chatID, text)
}

func (h *ChatHandler) CreateGroup(ctx context.Context, req chat.CreateGroupRequest) (*chat.Session, error) {
	return h.service.CreateGroup(ctx, req)
}

func (h *ChatHandler) CreateWorkspace(ctx context.Context, ws profile.Workspace) (*profile.Workspace, error) {
	return h.service.CreateWorkspace(ctx, ws)
}

func (h *ChatHandler) UpdateWorkspace(ctx context.Context, ws profile.Workspace) (*profile.Workspace, error) {
	return h.service.UpdateWorkspace(ctx, ws)
}

func (h *ChatHandler) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	return h.service.DeleteWorkspace(ctx, workspaceID)
}
