package routes

import (
	"mediassist-server/internal/config"
	"mediassist-server/internal/handlers"
	"mediassist-server/internal/middleware"
	"mediassist-server/internal/models"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Dependencies are the collaborators the routes are built from.
type Dependencies struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	Users  handlers.UserRepository
	Cases  handlers.CaseService
	// Health adds fields to the /health body. Optional.
	Health func() gin.H
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	cfg := deps.Cfg

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.Users, cfg)
	userHandler := handlers.NewUserHandler(deps.Users)
	caseHandler := handlers.NewCaseHandler(deps.Cases, deps.Logger)
	submitLimiter := middleware.NewRateLimiter(cfg.SubmitRatePerMinute)

	router.Use(middleware.CorrelationID())

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		private.GET("/auth/profile", authHandler.GetProfile)
		private.GET("/doctors", userHandler.GetDoctors)

		patientRoutes := private.Group("/patient")
		patientRoutes.Use(middleware.RoleAuthMiddleware(models.RolePatient))
		{
			patientRoutes.POST("/cases", middleware.RateLimitMiddleware(submitLimiter), caseHandler.SubmitCase)
			patientRoutes.GET("/cases", caseHandler.GetPatientCases)
			patientRoutes.GET("/cases/:id", caseHandler.GetPatientCase)
		}

		doctorRoutes := private.Group("/doctor")
		doctorRoutes.Use(middleware.RoleAuthMiddleware(models.RoleDoctor))
		{
			doctorRoutes.GET("/cases", caseHandler.GetDoctorCases)
			doctorRoutes.GET("/cases/:id", caseHandler.GetDoctorCase)
			doctorRoutes.PATCH("/cases/:id/review", caseHandler.ReviewCase)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "UP"}
		if deps.Health != nil {
			for k, v := range deps.Health() {
				body[k] = v
			}
		}
		c.JSON(http.StatusOK, body)
	})
}
