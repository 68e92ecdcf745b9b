package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"weighscale/internal/config"
	"weighscale/internal/database"
	"weighscale/internal/repository"
	"weighscale/internal/services"
	"weighscale/internal/sheets"

	"github.com/robfig/cron/v3"
)

const runTimeout = 5 * time.Minute

func main() {
	// Load configuration
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	deviceID, err := cfg.EnsureDeviceID(".env")
	if err != nil {
		log.Fatal("Failed to ensure device ID:", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize spreadsheet client
	writer, err := sheets.NewClient(context.Background(), cfg.GoogleCredentialsFile, cfg.SpreadsheetID)
	if err != nil {
		log.Fatal("Failed to create spreadsheet client:", err)
	}

	ticketRepo := repository.NewTicketRepository(db)
	backupService := services.NewBackupService(ticketRepo, writer, deviceID, logger)

	// One-shot by default; with BACKUP_SCHEDULE set, run on a cron schedule
	// in-process.
	if cfg.BackupSchedule == "" {
		if err := runOnce(backupService, logger); err != nil {
			os.Exit(1)
		}
		return
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.BackupSchedule, func() {
		runOnce(backupService, logger)
	})
	if err != nil {
		log.Fatal("Invalid backup schedule:", err)
	}

	logger.Info("backup scheduler started", "schedule", cfg.BackupSchedule)
	scheduler.Run()
}

func runOnce(backupService services.BackupService, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := backupService.Run(ctx); err != nil {
		logger.Error("backup process failed", "error", err)
		return err
	}
	logger.Info("backup process completed")
	return nil
}
