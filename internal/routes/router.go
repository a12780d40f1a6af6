package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/viakisun/vws-rnd/internal/handlers"
	"github.com/viakisun/vws-rnd/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Projects      *handlers.ProjectHandler
	AnnualBudgets *handlers.AnnualBudgetHandler
	Export        *handlers.ExportHandler
}

// SetupRouter builds the engine with request logging and all API routes.
func SetupRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	RegisterAPIRoutes(r.Group("/api"), h)
	return r
}
