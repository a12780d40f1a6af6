package routes

import "github.com/gin-gonic/gin"

// RegisterAPIRoutes mounts the project and annual-budget endpoints.
func RegisterAPIRoutes(api *gin.RouterGroup, h Handlers) {
	projects := api.Group("/projects")
	{
		projects.POST("", h.Projects.CreateProject)
		projects.GET("", h.Projects.ListProjects)
		projects.GET("/:id", h.Projects.GetProject)
		projects.DELETE("/:id", h.Projects.DeleteProject)

		projects.GET("/:id/annual-budgets", h.AnnualBudgets.ListAnnualBudgets)
		projects.POST("/:id/annual-budgets", h.AnnualBudgets.ReplaceAnnualBudgets)
		projects.PUT("/:id/annual-budgets", h.AnnualBudgets.UpdateAnnualBudget)
		projects.DELETE("/:id/annual-budgets", h.AnnualBudgets.DeleteAnnualBudget)
		projects.GET("/:id/annual-budgets/export", h.Export.ExportAnnualBudgets)
	}
}
