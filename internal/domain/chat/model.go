package chat

import (
	"slices"

	"github.com/janhq/aura-server/internal/domain/profile"
)

// FilterAll selects every chat session regardless of workspace tags.
const FilterAll = "all"

// DeliveryStatus is the delivery state of a message snapshot.
type DeliveryStatus string

const (
	StatusSent      DeliveryStatus = "sent"
	StatusDelivered DeliveryStatus = "delivered"
	StatusRead      DeliveryStatus = "read"
)

// Sender distinguishes the local user from everyone else in a display thread.
type Sender string

const (
	SenderMe    Sender = "me"
	SenderOther Sender = "other"
)

const (
	// SelfID is the sender id used for messages authored locally.
	SelfID = "me"
	// GroupEstablishedText is the synthetic last message of a new group.
	GroupEstablishedText = "Collective established."
	// GroupDescription is the description given to new groups.
	GroupDescription = "A new collective frequency."
	// ThreadSeedText opens every display thread.
	ThreadSeedText = "Stable frequency established."
	// ThreadSeedSender is the display name of the thread seed message.
	ThreadSeedSender = "Aura Node"
)

// MessageSnapshot is the persisted summary of the latest message of a chat.
type MessageSnapshot struct {
	ID         string         `json:"id" yaml:"id"`
	SenderID   string         `json:"senderId" yaml:"senderId"`
	ReceiverID string         `json:"receiverId" yaml:"receiverId"`
	Text       string         `json:"text" yaml:"text"`
	Timestamp  int64          `json:"timestamp" yaml:"timestamp"`
	Status     DeliveryStatus `json:"status" yaml:"status"`
	SenderName string         `json:"senderName,omitempty" yaml:"senderName,omitempty"`
}

// GroupMetadata describes a group conversation.
type GroupMetadata struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	MemberCount int    `json:"memberCount" yaml:"memberCount"`
	Color       string `json:"color" yaml:"color"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Session is a conversation, one-to-one (Partner set) or group (GroupMetadata set).
type Session struct {
	ID            string           `json:"id" yaml:"id"`
	IsGroup       bool             `json:"isGroup" yaml:"isGroup"`
	Partner       *profile.User    `json:"partner,omitempty" yaml:"partner,omitempty"`
	GroupMetadata *GroupMetadata   `json:"groupMetadata,omitempty" yaml:"groupMetadata,omitempty"`
	LastMessage   *MessageSnapshot `json:"lastMessage,omitempty" yaml:"lastMessage,omitempty"`
	UnreadCount   int              `json:"unreadCount" yaml:"unreadCount"`
	WorkspaceIDs  []string         `json:"workspaceIds" yaml:"workspaceIds"`
}

// Valid reports whether exactly one of Partner and GroupMetadata is set, matching IsGroup.
func (s *Session) Valid() bool {
	if s.IsGroup {
		return s.GroupMetadata != nil && s.Partner == nil
	}
	return s.Partner != nil && s.GroupMetadata == nil
}

// HasTag reports whether the session is tagged with workspaceID.
func (s *Session) HasTag(workspaceID string) bool {
	return slices.Contains(s.WorkspaceIDs, workspaceID)
}

// ToggleTag flips membership of workspaceID.
func (s *Session) ToggleTag(workspaceID string) {
	if s.HasTag(workspaceID) {
		s.RemoveTag(workspaceID)
		return
	}
	s.WorkspaceIDs = append(s.WorkspaceIDs, workspaceID)
}

// RemoveTag strips every occurrence of workspaceID. It reports whether anything was removed.
func (s *Session) RemoveTag(workspaceID string) bool {
	before := len(s.WorkspaceIDs)
	s.WorkspaceIDs = slices.DeleteFunc(s.WorkspaceIDs, func(id string) bool { return id == workspaceID })
	return len(s.WorkspaceIDs) != before
}

// Normalize enforces non-nil, duplicate-free tags.
func (s *Session) Normalize() {
	if s.WorkspaceIDs == nil {
		s.WorkspaceIDs = []string{}
		return
	}
	seen := make(map[string]struct{}, len(s.WorkspaceIDs))
	out := s.WorkspaceIDs[:0]
	for _, id := range s.WorkspaceIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	s.WorkspaceIDs = out
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	out := s
	out.Partner = s.Partner.Clone()
	if s.GroupMetadata != nil {
		meta := *s.GroupMetadata
		out.GroupMetadata = &meta
	}
	if s.LastMessage != nil {
		msg := *s.LastMessage
		out.LastMessage = &msg
	}
	out.WorkspaceIDs = append([]string{}, s.WorkspaceIDs...)
	return out
}

// Title is the display name of the conversation.
func (s *Session) Title() string {
	if s.IsGroup && s.GroupMetadata != nil {
		return s.GroupMetadata.Name
	}
	if s.Partner != nil {
		return s.Partner.DisplayName
	}
	return ""
}

// Message is a display-only thread entry. Threads are never persisted.
type Message struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Sender     Sender `json:"sender"`
	SenderName string `json:"senderName"`
	Timestamp  int64  `json:"timestamp"`
}

// Thread is an open chat with its display messages.
type Thread struct {
	Session  Session   `json:"session"`
	Messages []Message `json:"messages"`
}

// CreateGroupRequest carries the group-creation form.
type CreateGroupRequest struct {
	Name         string
	Color        string
	ActiveFilter string
}

func cloneSessions(in []Session) []Session {
	out := make([]Session, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
