package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/spdavis3/golf-pool/internal/api/handlers"
	"github.com/spdavis3/golf-pool/internal/api/middleware"
	"github.com/spdavis3/golf-pool/internal/providers"
	"github.com/spdavis3/golf-pool/internal/services"
)

// SetupRoutes configures the HTML pages, the JSON API, and the
// admin-gated routes on the given router.
func SetupRoutes(router *gin.Engine, store *services.PoolStore, espn *providers.ESPNClient, owgr *providers.OWGRClient, adminPassword string, logger *logrus.Logger) {
	pages := handlers.NewPageHandler(store, espn, owgr, logger)
	picks := handlers.NewPicksHandler(store, espn, logger)
	admin := handlers.NewAdminHandler(store, espn, adminPassword, logger)

	router.GET("/health", handlers.Health)

	// Pages
	router.GET("/", pages.Dashboard)
	router.GET("/enter", pages.EntryForm)
	router.GET("/edit/:name", pages.EditForm)
	router.GET("/history", pages.History)

	// Admin session
	router.GET("/admin/login", admin.LoginForm)
	router.POST("/admin/login", admin.Login)
	router.GET("/admin/logout", admin.Logout)
	router.GET("/admin", middleware.AdminRequired, admin.Panel)

	// JSON API and form actions
	api := router.Group("/api")
	{
		api.GET("/picks", picks.GetPicks)
		api.GET("/leaderboard", picks.Leaderboard)
		api.GET("/standings", picks.Standings)
		api.GET("/history", picks.History)
		api.POST("/picks", picks.Submit)
		api.POST("/edit", picks.Edit)
		api.POST("/delete", picks.Delete)

		adminAPI := api.Group("", middleware.AdminRequired)
		{
			adminAPI.POST("/lock", admin.Lock)
			adminAPI.POST("/unlock", admin.Unlock)
			adminAPI.POST("/archive", admin.Archive)
			adminAPI.POST("/settings", admin.UpdateSettings)
		}
	}
}
