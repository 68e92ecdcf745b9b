package models

import (
	"time"
)

// Session is an opaque server-side login token. Expired rows are not swept;
// they are simply treated as invalid at validation time.
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// CloudUserPrefix marks a session minted from a cloud token exchange rather
// than a local login.
const CloudUserPrefix = "cloud:"
