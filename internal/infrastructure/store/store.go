// Package store maps the domain documents onto a kvstore.Store with a JSON codec.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/aura-server/internal/domain/chat"
	"github.com/janhq/aura-server/internal/domain/profile"
	"github.com/janhq/aura-server/internal/infrastructure/kvstore"
	"github.com/janhq/aura-server/internal/infrastructure/metrics"
	"github.com/janhq/aura-server/internal/seed"
	"github.com/janhq/aura-server/internal/utils/platformerrors"
)

// Document keys.
const (
	ProfileKey      = "profile"
	ChatSessionsKey = "chat-sessions"
)

// ProfileStore persists the single profile document.
type ProfileStore struct {
	kv  kvstore.Store
	log zerolog.Logger
}

// NewProfileStore creates a profile repository over kv.
func NewProfileStore(kv kvstore.Store, log zerolog.Logger) *ProfileStore {
	return &ProfileStore{
		kv:  kv,
		log: log.With().Str("component", "profile-store").Logger(),
	}
}

// Load returns nil when no profile is stored or the stored one cannot be decoded.
func (s *ProfileStore) Load(ctx context.Context) (*profile.User, error) {
	raw, err := s.kv.Get(ctx, ProfileKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError(ctx, err, "failed to load profile")
	}

	var user profile.User
	if err := json.Unmarshal(raw, &user); err != nil || user.ID == "" {
		s.log.Warn().Err(err).Msg("stored profile is unreadable, treating as absent")
		metrics.RecordCorruptDocument(ProfileKey)
		return nil, nil
	}
	return &user, nil
}

func (s *ProfileStore) Save(ctx context.Context, user *profile.User) error {
	if user == nil {
		return fmt.Errorf("save profile: nil user")
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.kv.Put(ctx, ProfileKey, raw); err != nil {
		return storageError(ctx, err, "failed to save profile")
	}
	return nil
}

func (s *ProfileStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, ProfileKey); err != nil {
		return storageError(ctx, err, "failed to clear profile")
	}
	return nil
}

// ChatStore persists the chat-sessions document, falling back to seeded chats.
type ChatStore struct {
	kv   kvstore.Store
	seed *seed.Data
	now  func() time.Time
	log  zerolog.Logger
}

// NewChatStore creates a chat repository over kv. data supplies the sessions used
// when nothing is stored.
func NewChatStore(kv kvstore.Store, data *seed.Data, now func() time.Time, log zerolog.Logger) *ChatStore {
	if now == nil {
		now = time.Now
	}
	return &ChatStore{
		kv:   kv,
		seed: data,
		now:  now,
		log:  log.With().Str("component", "chat-store").Logger(),
	}
}

func (s *ChatStore) Load(ctx context.Context) ([]chat.Session, error) {
	raw, err := s.kv.Get(ctx, ChatSessionsKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return s.seeded(), nil
	}
	if err != nil {
		return nil, storageError(ctx, err, "failed to load chat sessions")
	}

	var sessions []chat.Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		s.log.Warn().Err(err).Msg("stored chat sessions are unreadable, using seed")
		metrics.RecordCorruptDocument(ChatSessionsKey)
		return s.seeded(), nil
	}
	for i := range sessions {
		if !sessions[i].Valid() {
			s.log.Warn().Str("chat_id", sessions[i].ID).Msg("stored chat session is malformed, using seed")
			metrics.RecordCorruptDocument(ChatSessionsKey)
			return s.seeded(), nil
		}
		sessions[i].Normalize()
	}
	if sessions == nil {
		sessions = []chat.Session{}
	}
	return sessions, nil
}

func (s *ChatStore) Save(ctx context.Context, sessions []chat.Session) error {
	if sessions == nil {
		sessions = []chat.Session{}
	}
	raw, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encode chat sessions: %w", err)
	}
	if err := s.kv.Put(ctx, ChatSessionsKey, raw); err != nil {
		return storageError(ctx, err, "failed to save chat sessions")
	}
	return nil
}

// storageError marks a backend failure so it surfaces as a storage_error response.
func storageError(ctx context.Context, err error, message string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerStore, platformerrors.ErrorTypeStorage, message, err, "")
}

func (s *ChatStore) seeded() []chat.Session {
	if s.seed == nil {
		return []chat.Session{}
	}
	return s.seed.Sessions(s.now())
}
