package main

import (
	"log"
	"time"

	"courtflow_go/config"
	"courtflow_go/db"
	"courtflow_go/handlers"
	"courtflow_go/middleware"
	"courtflow_go/models"
	"courtflow_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.Court{},
		&models.Case{},
		&models.Hearing{},
		&models.CaseDocument{},
		&models.Notification{},
		&models.Session{},
		&models.PasswordResetToken{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize file storage (R2 with local fallback)
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes (no authentication required)
	e.POST("/api/auth/register", handlers.Register)
	e.POST("/api/auth/login", handlers.Login, middleware.LoginRateLimiter.Middleware())
	e.POST("/api/auth/forgot-password", handlers.ForgotPassword, middleware.PasswordResetRateLimiter.Middleware())
	e.POST("/api/auth/reset-password", handlers.ResetPassword)

	// Protected routes (Bearer token required)
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.GET("/me", handlers.Me)
		api.POST("/auth/logout", handlers.Logout)

		// Cases (handler-level authorization via the case action policy)
		api.GET("/cases", handlers.GetCases)
		api.POST("/cases", handlers.FileCase)
		api.POST("/cases/check-duplicates", handlers.CheckDuplicates)
		api.GET("/cases/:id", handlers.GetCase)
		api.PUT("/cases/:id/assign", handlers.AssignJudge)
		api.PUT("/cases/:id/status", handlers.UpdateCaseStatus)
		api.DELETE("/cases/:id", handlers.DeleteCase)
		api.GET("/cases/:id/summary.pdf", handlers.DownloadCaseSummaryPDF)

		// Hearings
		api.GET("/hearings", handlers.GetHearings)
		api.POST("/cases/:id/hearings", handlers.ScheduleHearing)
		api.PUT("/hearings/:id", handlers.UpdateHearing)

		// Documents
		api.POST("/cases/:id/documents", handlers.UploadDocument)
		api.GET("/cases/:id/documents", handlers.GetCaseDocuments)
		api.GET("/documents/:id/download", handlers.DownloadDocument)
		api.DELETE("/documents/:id", handlers.DeleteDocument)

		// Notifications
		api.GET("/notifications", handlers.GetNotifications)
		api.PUT("/notifications/read-all", handlers.MarkAllNotificationsRead)
		api.PUT("/notifications/:id/read", handlers.MarkNotificationRead)

		// Courts (any role can list; creation is admin-only below)
		api.GET("/courts", handlers.GetCourts)

		// Admin-only routes
		adminRoutes := api.Group("")
		adminRoutes.Use(middleware.RequireRole(models.RoleAdmin))
		{
			adminRoutes.GET("/users", handlers.GetUsers)
			adminRoutes.POST("/users", handlers.CreateUser)
			adminRoutes.PUT("/users/:id", handlers.UpdateUser)
			adminRoutes.DELETE("/users/:id", handlers.DeactivateUser)
			adminRoutes.GET("/judges", handlers.GetJudges)

			adminRoutes.POST("/courts", handlers.CreateCourt)

			adminRoutes.GET("/reports/summary", handlers.GetReportsSummary)
			adminRoutes.GET("/reports/export", handlers.ExportCasesReport)
		}
	}

	// Start background cleanup jobs (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			// Clean up expired sessions
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}

			// Clean up expired password reset tokens
			if err := services.CleanupExpiredTokens(db.DB); err != nil {
				log.Printf("Error cleaning up expired tokens: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
