package handlers

import (
	"github.com/janhq/aura-server/internal/domain/profile"
)

// DirectoryHandler serves identity search.
type DirectoryHandler struct {
	directory *profile.Directory
}

// NewDirectoryHandler creates a new directory handler.
func NewDirectoryHandler(directory *profile.Directory) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

func (h *DirectoryHandler) Search(query string) []profile.User {
	return h.directory.Search(query)
}
