package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/crm-api/internal/config"
	"github.com/yukikurage/crm-api/internal/constants"
	"github.com/yukikurage/crm-api/internal/database"
	"github.com/yukikurage/crm-api/internal/handlers"
	"github.com/yukikurage/crm-api/internal/middleware"
	"github.com/yukikurage/crm-api/internal/repository"
	"github.com/yukikurage/crm-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()
	opts := []repository.Option{repository.WithLeadIDMaxAttempts(cfg.LeadIDMaxAttempts)}

	// Repositories
	userRepo := repository.NewUserRepository(db, opts...)
	memberRepo := repository.NewTeamMemberRepository(db, opts...)
	activityRepo := repository.NewActivityRepository(db, opts...)
	leadRepo := repository.NewLeadRepository(db, opts...)
	callRepo := repository.NewCallRepository(db)
	scheduledRepo := repository.NewScheduledCallRepository(db)
	timesheetRepo := repository.NewTimesheetRepository(db)

	svc := handlers.Services{
		Auth:        services.NewAuthService(userRepo, memberRepo, activityRepo),
		Leads:       services.NewLeadService(leadRepo, activityRepo),
		Calls:       services.NewCallService(callRepo, scheduledRepo, activityRepo),
		Timesheets:  services.NewTimesheetService(timesheetRepo, activityRepo),
		Activities:  services.NewActivityService(activityRepo),
		TeamMembers: services.NewTeamMemberService(memberRepo, userRepo, activityRepo),
	}

	// Initialize Gin router
	r := gin.Default()

	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "CRM API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterRoutes(r.Group("/api"), svc)

	// Start server
	log.Printf("Server starting on %s", cfg.HTTPAddress)
	if err := r.Run(cfg.HTTPAddress); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newSessionStore connects the Redis session store. Cookies are Secure only
// in release mode.
func newSessionStore(cfg *config.Config) (redisStore.Store, error) {
	store, err := redisStore.NewStore(
		10,    // Redis pool size
		"tcp", // network type
		cfg.RedisHost+":"+cfg.RedisPort,
		"", // password
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		return nil, err
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
