package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"weighscale/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize opens (creating if needed) the station's SQLite database file
// and migrates the schema. The handle is returned to the caller and injected
// into every component; there is no package-level database state.
func Initialize(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	// SQLite does not enforce foreign keys unless asked to, and the pragma is
	// per-connection, so it has to ride the DSN to reach every pooled
	// connection.
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)"), config)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Database connected and migrated successfully")
	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Customer{},
		&models.WeighTicket{},
		&models.LocalUser{},
		&models.Session{},
		&models.AppSetting{},
	)
}
