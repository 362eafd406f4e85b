// Package chat contains response DTOs for the chat, group and workspace endpoints.
package chat

import (
	domainchat "github.com/janhq/aura-server/internal/domain/chat"
	"github.com/janhq/aura-server/internal/domain/profile"
)

// ChatResponse is a chat session with its display title resolved.
type ChatResponse struct {
	Object string `json:"object"`
	Title  string `json:"title"`
	domainchat.Session
}

func NewChatResponse(s domainchat.Session) ChatResponse {
	return ChatResponse{Object: "chat", Title: s.Title(), Session: s}
}

// ListChatsResponse is the filtered chat list.
type ListChatsResponse struct {
	Object    string         `json:"object"`
	Workspace string         `json:"workspace"`
	Data      []ChatResponse `json:"data"`
}

func NewListChatsResponse(filter string, sessions []domainchat.Session) ListChatsResponse {
	if filter == "" {
		filter = domainchat.FilterAll
	}
	data := make([]ChatResponse, 0, len(sessions))
	for _, s := range sessions {
		data = append(data, NewChatResponse(s))
	}
	return ListChatsResponse{Object: "list", Workspace: filter, Data: data}
}

// ThreadResponse is an opened chat.
type ThreadResponse struct {
	Object   string               `json:"object"`
	Chat     ChatResponse         `json:"chat"`
	Messages []domainchat.Message `json:"messages"`
}

func NewThreadResponse(t *domainchat.Thread) ThreadResponse {
	return ThreadResponse{Object: "thread", Chat: NewChatResponse(t.Session), Messages: t.Messages}
}

// MessageResponse is a sent message.
type MessageResponse struct {
	Object string `json:"object"`
	domainchat.Message
}

func NewMessageResponse(m *domainchat.Message) MessageResponse {
	return MessageResponse{Object: "message", Message: *m}
}

// ToggleTagResponse reports the chat after a tag toggle. Chat is nil when the
// chat or workspace does not exist and nothing changed.
type ToggleTagResponse struct {
	Object  string        `json:"object"`
	Changed bool          `json:"changed"`
	Chat    *ChatResponse `json:"chat,omitempty"`
}

func NewToggleTagResponse(s *domainchat.Session) ToggleTagResponse {
	if s == nil {
		return ToggleTagResponse{Object: "chat.tag"}
	}
	resp := NewChatResponse(*s)
	return ToggleTagResponse{Object: "chat.tag", Changed: true, Chat: &resp}
}

// WorkspaceResponse is a single workspace.
type WorkspaceResponse struct {
	Object string `json:"object"`
	profile.Workspace
}

func NewWorkspaceResponse(ws *profile.Workspace) WorkspaceResponse {
	return WorkspaceResponse{Object: "workspace", Workspace: *ws}
}

// DeleteWorkspaceResponse confirms a cascade delete.
type DeleteWorkspaceResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

func NewDeleteWorkspaceResponse(id string) DeleteWorkspaceResponse {
	return DeleteWorkspaceResponse{ID: id, Object: "workspace.deleted", Deleted: true}
}
