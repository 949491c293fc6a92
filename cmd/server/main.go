package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"claims_backoffice/config"
	"claims_backoffice/db"
	"claims_backoffice/handlers"
	"claims_backoffice/middleware"
	"claims_backoffice/models"
	"claims_backoffice/services"
	"claims_backoffice/services/i18n"
	"claims_backoffice/services/jobs"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := i18n.Load(); err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	services.InitializeStorage(cfg)
	services.InitializeReportCache(cfg.RedisURL, cfg.ReportCacheTTL)

	// Rewrite activity roles saved with the legacy vocabulary
	if changed, err := services.MigrateActivityRoles(context.Background(), db.DB); err != nil {
		log.Printf("[WARNING] Activity role migration failed: %v", err)
	} else {
		for role, n := range changed {
			log.Printf("[INFO] Migrated %d activities from role %s", n, role)
		}
	}

	scheduler, err := jobs.StartScheduler(db.DB, cfg)
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	middleware.InitAssetVersions("static")

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = services.Validator{}

	// HTML forms send PUT and DELETE as POST with a _method field
	e.Pre(echomiddleware.MethodOverrideWithConfig(echomiddleware.MethodOverrideConfig{
		Getter: echomiddleware.MethodFromForm("_method"),
	}))

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.BodyLimit("12M"))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Static files
	e.Static("/static", "static")

	app := e.Group("")
	app.Use(middleware.BasicAuth(cfg, db.DB, middleware.AuthFailureLimiter))
	app.Use(middleware.Locale(cfg))
	app.Use(middleware.AuditContext())

	app.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/claims")
	})
	app.GET("/settings/language", handlers.SetLanguageHandler)
	app.GET("/search", handlers.SearchPageHandler)
	app.GET("/api/search", handlers.SearchHandler)
	app.GET("/api/me", handlers.GetCurrentUserHandler)

	// Claims
	app.GET("/claims", handlers.ClaimsPageHandler)
	app.GET("/claims/new", handlers.NewClaimPageHandler)
	app.GET("/claims/:id", handlers.ClaimDetailPageHandler)
	app.GET("/claims/:id/edit", handlers.EditClaimPageHandler)

	claims := app.Group("/api/claims")
	{
		claims.GET("", handlers.GetClaimsHandler)
		claims.POST("", handlers.CreateClaimHandler)
		claims.GET("/by-number/:number", handlers.GetClaimByNumberHandler)
		claims.GET("/:id", handlers.GetClaimHandler)
		claims.PUT("/:id", handlers.UpdateClaimHandler)
		claims.DELETE("/:id", handlers.DeleteClaimHandler)
		claims.GET("/:id/audit", handlers.GetClaimAuditHandler)
		claims.GET("/:id/activities", handlers.GetClaimActivitiesHandler)
		claims.GET("/:id/movements", handlers.GetClaimMovementsHandler)
		claims.POST("/:id/movements", handlers.CreateMovementHandler)
		claims.GET("/:id/documents", handlers.GetClaimDocumentsHandler)
		claims.POST("/:id/documents", handlers.UploadClaimDocumentHandler, middleware.UploadRateLimiter.Middleware())
	}

	// Policies
	app.GET("/policies", handlers.PoliciesPageHandler)
	app.GET("/policies/new", handlers.NewPolicyPageHandler)
	app.GET("/policies/:id", handlers.PolicyDetailPageHandler)
	app.GET("/policies/:id/edit", handlers.EditPolicyPageHandler)

	policies := app.Group("/api/policies")
	{
		policies.GET("", handlers.GetPoliciesHandler)
		policies.POST("", handlers.CreatePolicyHandler)
		policies.GET("/by-number/:number", handlers.GetPolicyByNumberHandler)
		policies.GET("/import/template", handlers.GetPolicyImportTemplateHandler)
		policies.POST("/import", handlers.ImportPoliciesHandler, middleware.UploadRateLimiter.Middleware())
		policies.GET("/:id", handlers.GetPolicyHandler)
		policies.PUT("/:id", handlers.UpdatePolicyHandler)
		policies.DELETE("/:id", handlers.DeletePolicyHandler)
	}

	// Activities
	app.GET("/activities", handlers.ActivitiesPageHandler)
	app.GET("/activities/new", handlers.NewActivityPageHandler)
	app.GET("/activities/:id", handlers.ActivityDetailPageHandler)
	app.GET("/activities/:id/edit", handlers.EditActivityPageHandler)

	activities := app.Group("/api/activities")
	{
		activities.GET("", handlers.GetActivitiesHandler)
		activities.POST("", handlers.CreateActivityHandler)
		activities.GET("/:id", handlers.GetActivityHandler)
		activities.PUT("/:id", handlers.UpdateActivityHandler)
		activities.DELETE("/:id", handlers.DeleteActivityHandler)
	}

	// Movements, exclusions and documents
	app.GET("/api/movements", handlers.GetMovementsHandler)
	app.DELETE("/api/movements/:id", handlers.DeleteMovementHandler)

	app.GET("/api/exclusions", handlers.GetExclusionsHandler)
	app.POST("/api/exclusions", handlers.CreateExclusionHandler)
	app.PUT("/api/exclusions/:id", handlers.UpdateExclusionHandler)
	app.DELETE("/api/exclusions/:id", handlers.DeleteExclusionHandler)

	app.GET("/api/documents/:id", handlers.DownloadDocumentHandler)
	app.DELETE("/api/documents/:id", handlers.DeleteDocumentHandler)

	// Reports
	app.GET("/reports", handlers.ReportsPageHandler)
	app.GET("/api/reports/summary", handlers.GetReportSummaryHandler)

	// User management is admin-only once authentication is on
	users := app.Group("/api/users")
	if cfg.AuthEnabled {
		users.Use(middleware.RequireRole(models.RoleAdmin))
	}
	{
		users.GET("", handlers.GetUsersHandler)
		users.POST("", handlers.CreateUserHandler)
		users.PUT("/:id", handlers.UpdateUserHandler)
	}

	// Start server
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] Server shutdown: %v", err)
	}
}
