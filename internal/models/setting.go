package models

import (
	"time"
)

type AppSetting struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	Value     string    `json:"value" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Settings keys.
const (
	SettingDeviceID = "device_id"
)
