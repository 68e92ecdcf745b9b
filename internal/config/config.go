package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort            string
	DatabasePath          string
	RedisURL              string
	SupabaseURL           string
	SupabaseServiceKey    string
	SpreadsheetID         string
	GoogleCredentialsFile string
	BackupSchedule        string
	FrontendDir           string
	DeviceID              string
}

func Load() *Config {
	// Load .env file if exists
	godotenv.Load()

	return &Config{
		ServerPort:            getEnv("SERVER_PORT", "8080"),
		DatabasePath:          getEnv("DB_PATH", "database/weight_scale.db"),
		RedisURL:              getEnv("REDIS_URL", ""),
		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SpreadsheetID:         getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		BackupSchedule:        getEnv("BACKUP_SCHEDULE", ""),
		FrontendDir:           getEnv("FRONTEND_DIR", "frontend/build"),
		DeviceID:              getEnv("PI_DEVICE_ID", ""),
	}
}

// EnsureDeviceID generates the station's device id on first run and writes
// it back to the .env file so it survives restarts. Registration with the
// cloud dashboard uses this id.
func (c *Config) EnsureDeviceID(envPath string) (string, error) {
	if c.DeviceID != "" {
		return c.DeviceID, nil
	}

	deviceID := uuid.NewString()
	if err := writeEnvValue(envPath, "PI_DEVICE_ID", deviceID); err != nil {
		return "", fmt.Errorf("failed to persist device id: %w", err)
	}

	c.DeviceID = deviceID
	os.Setenv("PI_DEVICE_ID", deviceID)
	return deviceID, nil
}

var deviceIDLine = regexp.MustCompile(`(?m)^PI_DEVICE_ID=.*$`)

func writeEnvValue(envPath, key, value string) error {
	line := key + "=" + value

	content, err := os.ReadFile(envPath)
	if os.IsNotExist(err) {
		return os.WriteFile(envPath, []byte(line+"\n"), 0o600)
	}
	if err != nil {
		return err
	}

	text := string(content)
	if deviceIDLine.MatchString(text) {
		text = deviceIDLine.ReplaceAllString(text, line)
	} else {
		if !strings.HasSuffix(text, "\n") && text != "" {
			text += "\n"
		}
		text += line + "\n"
	}
	return os.WriteFile(envPath, []byte(text), 0o600)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
