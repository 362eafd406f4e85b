package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/aura-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/aura-server/internal/interfaces/httpserver/responses"
)

// RegisterDirectoryRoutes registers identity search.
func RegisterDirectoryRoutes(router gin.IRoutes, handler *handlers.DirectoryHandler) {
	router.GET("/directory", func(c *gin.Context) {
		c.JSON(http.StatusOK, responses.NewListResponse(handler.Search(c.Query("q"))))
	})
}
