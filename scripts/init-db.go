package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"weighscale/internal/config"
	"weighscale/internal/database"
	"weighscale/internal/models"
	"weighscale/internal/repository"
	"weighscale/internal/services"
)

// Setup tool: initializes the database, persists the device id and creates
// the first admin user.
func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	name := flag.String("name", "", "admin full name")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
	}

	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	deviceID, err := cfg.EnsureDeviceID(".env")
	if err != nil {
		log.Fatal("Failed to ensure device ID:", err)
	}
	fmt.Printf("Device ID: %s\n", deviceID)

	// Initialize database
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	settingRepo := repository.NewSettingRepository(db)
	if err := settingRepo.Set(models.SettingDeviceID, deviceID); err != nil {
		log.Fatal("Failed to store device ID:", err)
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	authService := services.NewAuthService(userRepo, sessionRepo, nil, nil, logger)

	fmt.Println("Creating admin user...")
	user, err := authService.CreateUser(*username, *password, *name, string(models.RoleAdmin))
	if err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	fmt.Printf("Admin user %s created successfully (id %d)\n", user.Username, user.ID)
}
