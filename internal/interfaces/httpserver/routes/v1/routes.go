package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/aura-server/internal/interfaces/httpserver/handlers"
)

// Routes holds the v1 route configuration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes creates a new v1 routes instance.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register registers all v1 routes on the engine.
func (r *Routes) Register(engine *gin.Engine) {
	v1 := engine.Group("/v1")
	RegisterSessionRoutes(v1, r.handlers.Session)
	RegisterProfileRoutes(v1, r.handlers.Profile)
	RegisterChatRoutes(v1, r.handlers.Chat)
	RegisterDirectoryRoutes(v1, r.handlers.Directory)
}
