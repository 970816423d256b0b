package routes

import (
	"github.com/datawizard/backend/internal/controllers"
	"github.com/datawizard/backend/internal/engine"
	"github.com/datawizard/backend/internal/middleware"
	"github.com/datawizard/backend/internal/services"
	"github.com/datawizard/backend/internal/store"
	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Store     store.Store
	Catalog   store.Catalog      // defaults to Store; set to a cached catalog when Redis is configured
	Cache     controllers.Pinger // optional
	Engine    engine.Engine
	OutputDir string
	JWTSecret string
}

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine, deps Dependencies) {
	catalog := deps.Catalog
	if catalog == nil {
		catalog = deps.Store
	}

	// Initialize services
	preferences := services.NewPreferenceStore(deps.Store)
	orchestrator := services.NewJobOrchestrator(
		services.NewReferenceResolver(catalog),
		preferences,
		services.NewJobRecorder(deps.Store),
		services.NewArtifactRegistrar(deps.Store),
		deps.Engine,
		deps.OutputDir,
	)
	history := services.NewHistoryService(deps.Store, deps.Store, preferences)

	// Initialize controllers
	jobController := controllers.NewJobController(orchestrator)
	historyController := controllers.NewHistoryController(history)
	preferenceController := controllers.NewPreferenceController(preferences)
	healthController := controllers.NewHealthController(deps.Store, deps.Cache)

	r.GET("/health", healthController.Health)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(deps.JWTSecret))
	{
		api.POST("/jobs", jobController.RunJob)

		api.GET("/history", historyController.GetHistory)
		api.GET("/files/recent", historyController.GetRecentFiles)
		api.GET("/stats/file-types", historyController.GetFileTypeStats)
		api.GET("/dashboard", historyController.GetDashboard)

		prefs := api.Group("/preferences")
		{
			prefs.GET("/format", preferenceController.GetFormat)
			prefs.PUT("/format", preferenceController.SetFormat)
		}
	}
}
