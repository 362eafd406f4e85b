// Package chat contains request DTOs for the chat, group and workspace endpoints.
package chat

import (
	domainchat "github.com/janhq/aura-server/internal/domain/chat"
	"github.com/janhq/aura-server/internal/domain/profile"
)

// ListChatsQuery selects the workspace filter; empty means all.
type ListChatsQuery struct {
	Workspace string `form:"workspace"`
}

// SendMessageRequest appends a message to a chat.
type SendMessageRequest struct {
	Text string `json:"text" binding:"required,max=4000"`
}

// CreateGroupRequest creates a group. Workspace is the filter active in the client,
// which the new group is tagged with unless it is "all".
type CreateGroupRequest struct {
	Name      string `json:"name" binding:"required,max=64"`
	Color     string `json:"color"`
	Workspace string `json:"workspace"`
}

func (r CreateGroupRequest) ToDomain() domainchat.CreateGroupRequest {
	return domainchat.CreateGroupRequest{Name: r.Name, Color: r.Color, ActiveFilter: r.Workspace}
}

// WorkspaceRequest creates or replaces a workspace.
type WorkspaceRequest struct {
	Name  string `json:"name" binding:"required,max=64"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (r WorkspaceRequest) ToDomain(id string) profile.Workspace {
	return profile.Workspace{ID: id, Name: r.Name, Icon: r.Icon, Color: r.Color}
}
