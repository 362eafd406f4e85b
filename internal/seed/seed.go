// Package seed holds the data the server starts from when nothing is persisted yet.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/janhq/aura-server/internal/domain/chat"
	"github.com/janhq/aura-server/internal/domain/profile"
)

//go:embed seed.yaml
var embedded []byte

// ChatSeed is a seeded chat whose last message timestamp is relative to load time.
type ChatSeed struct {
	chat.Session   `yaml:",inline"`
	LastMessageAge time.Duration `yaml:"lastMessageAge"`
}

// Data is the full seed document.
type Data struct {
	KnownHandles      []string            `yaml:"knownHandles"`
	DefaultWorkspaces []profile.Workspace `yaml:"defaultWorkspaces"`
	Chats             []ChatSeed          `yaml:"chats"`
	Directory         []profile.User      `yaml:"directory"`
}

// Load parses the file at path, or the embedded document when path is empty.
func Load(path string) (*Data, error) {
	raw := embedded
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

// Parse decodes a seed document and checks the chats are well formed.
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i := range data.Chats {
		if !data.Chats[i].Valid() {
			return nil, fmt.Errorf("seed chat %q: partner and groupMetadata do not match isGroup", data.Chats[i].ID)
		}
	}
	return &data, nil
}

// Sessions returns the seeded chats with timestamps resolved against now.
func (d *Data) Sessions(now time.Time) []chat.Session {
	sessions := make([]chat.Session, 0, len(d.Chats))
	for _, c := range d.Chats {
		s := c.Session.Clone()
		if s.LastMessage != nil {
			s.LastMessage.Timestamp = now.Add(-c.LastMessageAge).UnixMilli()
		}
		s.Normalize()
		sessions = append(sessions, s)
	}
	return sessions
}
