package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kyra/interntrack/internal/app/controllers"
	"github.com/kyra/interntrack/internal/app/models"
	"github.com/kyra/interntrack/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	trackerController *controllers.TrackerController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	me := authenticated.Group("/me")
	{
		me.GET("/profile", trackerController.GetProfile)
		me.GET("/dashboard", trackerController.GetDashboard)
		me.POST("/feedback", trackerController.LogFeedback)

		// only students log their own journey
		journey := me.Group("")
		journey.Use(authMiddleware.RoleRequired(models.RoleStudent))
		{
			journey.POST("/internships", trackerController.LogInternship)
			journey.POST("/courses", trackerController.LogCourse)
		}
	}

	// role visibility is checked per request by the controller
	authenticated.GET("/metrics/:role", trackerController.GetMetrics)

	reports := authenticated.Group("/reports")
	{
		reports.GET("/:role", trackerController.GetReport)
		reports.GET("/:role/export", trackerController.ExportReport)
	}
}
