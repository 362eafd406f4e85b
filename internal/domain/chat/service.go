package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/aura-server/internal/domain/profile"
	"github.com/janhq/aura-server/internal/utils/idgen"
	"github.com/janhq/aura-server/internal/utils/platformerrors"
)

// Service is the workspace/chat filter model.
type Service interface {
	ListChats(ctx context.Context, filter string) ([]Session, error)
	ToggleTag(ctx context.Context, chatID, workspaceID string) (*Session, error)
	CreateWorkspace(ctx context.Context, ws profile.Workspace) (*profile.Workspace, error)
	UpdateWorkspace(ctx context.Context, ws profile.Workspace) (*profile.Workspace, error)
	DeleteWorkspace(ctx context.Context, workspaceID string) error
	CreateGroup(ctx context.Context, req CreateGroupRequest) (*Session, error)
	OpenChat(ctx context.Context, chatID string) (*Thread, error)
	SendMessage(ctx context.Context, chatID, text string) (*Message, error)
}

type service struct {
	store   Store
	owner   Owner
	locker  Locker
	auditor Auditor
	ids     idgen.Generator
	now     func() time.Time
	log     zerolog.Logger

	mu       sync.Mutex
	loaded   bool
	sessions []Session
	threads  map[string][]Message
}

// NewService creates the filter model. A nil now defaults to time.Now.
func NewService(
	store Store,
	owner Owner,
	locker Locker,
	auditor Auditor,
	ids idgen.Generator,
	now func() time.Time,
	log zerolog.Logger,
) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		store:   store,
		owner:   owner,
		locker:  locker,
		auditor: auditor,
		ids:     ids,
		now:     now,
		log:     log.With().Str("component", "chat-service").Logger(),
		threads: make(map[string][]Message),
	}
}

// ensureLoaded reads the chat document once. Callers hold s.mu.
func (s *service) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	sessions, err := s.store.Load(ctx)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load chat sessions")
	}
	for i := range sessions {
		sessions[i].Normalize()
	}
	s.sessions = sessions
	s.loaded = true
	return nil
}

// persist writes the in-memory sessions. Callers hold s.mu.
func (s *service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.sessions); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist chat sessions")
	}
	return nil
}

func (s *service) indexOf(chatID string) int {
	for i := range s.sessions {
		if s.sessions[i].ID == chatID {
			return i
		}
	}
	return -1
}

func (s *service) ListChats(ctx context.Context, filter string) ([]Session, error) {
	if _, err := s.owner.CurrentProfile(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	if filter == "" || filter == FilterAll {
		return cloneSessions(s.sessions), nil
	}

	result := make([]Session, 0, len(s.sessions))
	for i := range s.sessions {
		if s.sessions[i].HasTag(filter) {
			result = append(result, s.sessions[i].Clone())
		}
	}
	return result, nil
}

// ToggleTag flips membership. An unknown chat or workspace leaves everything untouched and returns nil.
func (s *service) ToggleTag(ctx context.Context, chatID, workspaceID string) (*Session, error) {
	user, err := s.owner.CurrentProfile(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	idx := s.indexOf(chatID)
	if idx < 0 || !user.HasWorkspace(workspaceID) {
		s.log.Debug().Str("chat_id", chatID).Str("workspace_id", workspaceID).Msg("tag toggle ignored")
		return nil, nil
	}

	s.sessions[idx].ToggleTag(workspaceID)
	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	updated := s.sessions[idx].Clone()
	s.log.Info().
		Str("chat_id", chatID).
		Str("workspace_id", workspaceID).
		Bool("tagged", updated.HasTag(workspaceID)).
		Msg("chat tag toggled")
	return &updated, nil
}

func (s *service) CreateWorkspace(ctx context.Context, ws profile.Workspace) (*profile.Workspace, error) {
	ws, err := s.prepareWorkspace(ctx, ws)
	if err != nil {
		return nil, err
	}

	if _, err := s.owner.MutateProfile(ctx, func(u *profile.User) error {
		u.Workspaces = append(u.Workspaces, ws)
		return nil
	}); err != nil {
		return nil, err
	}

	s.log.Info().Str("workspace_id", ws.ID).Str("name", ws.Name).Msg("workspace created")
	return &ws, nil
}

// UpdateWorkspace replaces the workspace with the same id, or appends it when absent.
func (s *service) UpdateWorkspace(ctx context.Context, ws profile.Workspace) (*profile.Workspace, error) {
	ws, err := s.prepareWorkspace(ctx, ws)
	if err != nil {
		return nil, err
	}

	if _, err := s.owner.MutateProfile(ctx, func(u *profile.User) error {
		for i := range u.Workspaces {
			if u.Workspaces[i].ID == ws.ID {
				u.Workspaces[i] = ws
				return nil
			}
		}
		u.Workspaces = append(u.Workspaces, ws)
		return nil
	}); err != nil {
		return nil, err
	}

	s.log.Info().Str("workspace_id", ws.ID).Msg("workspace saved")
	return &ws, nil
}

func (s *service) prepareWorkspace(ctx context.Context, ws profile.Workspace) (profile.Workspace, error) {
	ws.Name = strings.TrimSpace(ws.Name)
	if ws.Name == "" {
		return ws, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "workspace name is required", nil, "")
	}
	if ws.ID == "" {
		ws.ID = s.ids.NewID("ws")
	}
	if ws.Icon == "" {
		ws.Icon = profile.DefaultWorkspaceIcon
	}
	if ws.Color == "" {
		ws.Color = profile.Palette[0]
	}
	return ws, nil
}

// DeleteWorkspace removes the workspace and strips its id from every chat.
// Both documents are written while holding the store lock.
func (s *service) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	unlock, err := s.locker.Lock(ctx)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to lock store")
	}
	defer unlock()

	if _, err := s.owner.MutateProfile(ctx, func(u *profile.User) error {
		kept := u.Workspaces[:0]
		for _, ws := range u.Workspaces {
			if ws.ID != workspaceID {
				kept = append(kept, ws)
			}
		}
		u.Workspaces = kept
		return nil
	}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	before := cloneSessions(s.sessions)
	stripped := 0
	for i := range s.sessions {
		if s.sessions[i].RemoveTag(workspaceID) {
			stripped++
		}
	}
	if err := s.persist(ctx); err != nil {
		s.sessions = before
		return err
	}

	s.log.Info().Str("workspace_id", workspaceID).Int("chats_untagged", stripped).Msg("workspace deleted")
	return nil
}

func (s *service) CreateGroup(ctx context.Context, req CreateGroupRequest) (*Session, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "group name is required", nil, "")
	}
	if _, err := s.owner.CurrentProfile(ctx); err != nil {
		return nil, err
	}

	color := req.Color
	if color == "" {
		color = profile.Palette[0]
	}

	tags := []string{}
	if req.ActiveFilter != "" && req.ActiveFilter != FilterAll {
		tags = append(tags, req.ActiveFilter)
	}

	groupID := s.ids.NewID("group")
	group := Session{
		ID:      groupID,
		IsGroup: true,
		GroupMetadata: &GroupMetadata{
			ID:          groupID,
			Name:        name,
			MemberCount: 1,
			Color:       color,
			Description: GroupDescription,
		},
		UnreadCount:  0,
		WorkspaceIDs: tags,
		LastMessage: &MessageSnapshot{
			ID:         s.ids.NewID("m"),
			SenderID:   SelfID,
			ReceiverID: groupID,
			Text:       GroupEstablishedText,
			Timestamp:  s.now().UnixMilli(),
			Status:     StatusSent,
		},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.sessions = append([]Session{group}, s.sessions...)
	if err := s.persist(ctx); err != nil {
		s.sessions = s.sessions[1:]
		return nil, err
	}

	s.log.Info().Str("chat_id", groupID).Str("name", name).Strs("workspace_ids", tags).Msg("group created")
	created := group.Clone()
	return &created, nil
}

func (s *service) OpenChat(ctx context.Context, chatID string) (*Thread, error) {
	if _, err := s.owner.CurrentProfile(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	idx := s.indexOf(chatID)
	if idx < 0 {
		return nil, chatNotFound(ctx, chatID)
	}

	messages := s.threadFor(chatID)
	return &Thread{
		Session:  s.sessions[idx].Clone(),
		Messages: append([]Message(nil), messages...),
	}, nil
}

// SendMessage appends to the display thread and hands the text to the background auditor.
func (s *service) SendMessage(ctx context.Context, chatID, text string) (*Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "message text is required", nil, "")
	}
	if _, err := s.owner.CurrentProfile(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if err := s.ensureLoaded(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.indexOf(chatID) < 0 {
		s.mu.Unlock()
		return nil, chatNotFound(ctx, chatID)
	}

	msg := Message{
		ID:         s.ids.NewID("msg"),
		Text:       text,
		Sender:     SenderMe,
		SenderName: "Me",
		Timestamp:  s.now().UnixMilli(),
	}
	s.threads[chatID] = append(s.threadFor(chatID), msg)
	s.mu.Unlock()

	if s.auditor != nil {
		s.auditor.Submit(chatID, text)
	}

	s.log.Debug().Str("chat_id", chatID).Str("message_id", msg.ID).Msg("message appended")
	return &msg, nil
}

// threadFor returns the thread of chatID, seeding it on first access. Callers hold s.mu.
func (s *service) threadFor(chatID string) []Message {
	thread, ok := s.threads[chatID]
	if !ok {
		thread = []Message{{
			ID:         s.ids.NewID("msg"),
			Text:       ThreadSeedText,
			Sender:     SenderOther,
			SenderName: ThreadSeedSender,
			Timestamp:  s.now().Add(-time.Hour).UnixMilli(),
		}}
		s.threads[chatID] = thread
	}
	return thread
}

func chatNotFound(ctx context.Context, chatID string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
		"chat not found", nil, "", map[string]any{"chat_id": chatID})
}
