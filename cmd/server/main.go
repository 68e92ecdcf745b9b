package main

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"weighscale/internal/config"
	"weighscale/internal/database"
	"weighscale/internal/handlers"
	"weighscale/internal/models"
	"weighscale/internal/redis"
	"weighscale/internal/repository"
	"weighscale/internal/services"
	"weighscale/pkg/cloud"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Generate and persist the device id on first run
	deviceID, err := cfg.EnsureDeviceID(".env")
	if err != nil {
		log.Fatal("Failed to ensure device ID:", err)
	}
	logger.Info("device id ready", "device_id", deviceID)

	// Initialize database
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis session cache if configured
	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = redis.Initialize(cfg.RedisURL)
		if err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		defer cache.Close()
	}

	// Initialize cloud identity client
	cloudClient := cloud.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, deviceID)

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Mirror the device id into the settings table
	if err := settingRepo.Set(models.SettingDeviceID, deviceID); err != nil {
		log.Fatal("Failed to store device ID:", err)
	}

	// Initialize services
	customerService := services.NewCustomerService(customerRepo, ticketRepo)
	ticketService := services.NewTicketService(ticketRepo)
	authService := services.NewAuthService(userRepo, sessionRepo, cache, cloudClient, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	customerHandler := handlers.NewCustomerHandler(customerService, logger)
	ticketHandler := handlers.NewTicketHandler(ticketService, logger)
	systemHandler := handlers.NewSystemHandler(cloudClient, deviceID, logger)

	// Setup routes
	router := gin.Default()

	router.GET("/health", systemHandler.Health)
	router.GET("/device-id", systemHandler.DeviceID)

	api := router.Group("/api")
	{
		api.GET("/validate-token", systemHandler.ValidateToken)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.POST("/validate-session", authHandler.ValidateSession)
			auth.POST("/users", authHandler.CreateUser)
			auth.POST("/change-password", authHandler.ChangePassword)
			auth.POST("/cloud-auth", authHandler.CloudAuth)
		}

		customers := api.Group("/customers")
		{
			customers.GET("", customerHandler.List)
			customers.POST("", customerHandler.Create)
			customers.GET("/:id", customerHandler.Get)
			customers.PUT("/:id", customerHandler.Update)
			customers.DELETE("/:id", customerHandler.Delete)
		}

		tickets := api.Group("/weigh-tickets")
		{
			tickets.GET("", ticketHandler.List)
			tickets.POST("", ticketHandler.Create)
			tickets.GET("/:id", ticketHandler.Get)
			tickets.PUT("/:id", ticketHandler.Update)
			tickets.DELETE("/:id", ticketHandler.Delete)
		}
	}

	// Serve the built dashboard when present
	if info, err := os.Stat(cfg.FrontendDir); err == nil && info.IsDir() {
		router.Static("/static", filepath.Join(cfg.FrontendDir, "static"))
		router.NoRoute(func(c *gin.Context) {
			c.File(filepath.Join(cfg.FrontendDir, "index.html"))
		})
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
