package handlers

import (
	"github.com/google/wire"
)

// Provider holds all HTTP handlers.
type Provider struct {
	Session   *SessionHandler
	Profile   *ProfileHandler
	Chat      *ChatHandler
	Directory *DirectoryHandler
}

// NewProvider creates a new handler provider.
func NewProvider(
	sessionHandler *SessionHandler,
	profileHandler *ProfileHandler,
	chatHandler *ChatHandler,
	directoryHandler *DirectoryHandler,
) *Provider {
	return &Provider{
		Session:   sessionHandler,
		Profile:   profileHandler,
		Chat:      chatHandler,
		Directory: directoryHandler,
	}
}

// HandlerProvider provides all handlers for wire.
var HandlerProvider = wire.NewSet(
	NewSessionHandler,
	NewProfileHandler,
	NewChatHandler,
	NewDirectoryHandler,
	NewProvider,
)
