package api

import (
	"github.com/gin-gonic/gin"

	"github.com/balenascatcher/bilge-simulasyon/internal/config"
)

func SetupRoutes(router *gin.Engine, handler *Handler, cfg *config.Config) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Student portal
		v1.GET("/assignments", handler.ListAssignments)
		v1.POST("/login", handler.Login)
		v1.POST("/logout", handler.Logout)
		v1.GET("/invoice", handler.Invoice)
		v1.POST("/declaration", handler.SubmitDeclaration)

		// Instructor panel
		panel := v1.Group("/panel", PanelAuthMiddleware(cfg))
		{
			panel.GET("/attempts", handler.PanelAttempts)
			panel.GET("/stats", handler.PanelStats)
			panel.GET("/report", handler.PanelReport)
			panel.POST("/publish", handler.PanelPublish)
		}
	}
}
