package models

import (
	"time"
)

// WeighTicket records one vehicle's gross/tare/net transaction across the
// scale. Weight and timestamp columns are nullable: a ticket opened at the
// first weighing carries only a gross weight until the vehicle returns.
type WeighTicket struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	TicketNumber string     `json:"ticket_number" gorm:"unique;not null"`
	CustomerID   *uint      `json:"customer_id"`
	Customer     *Customer  `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	VehicleID    string     `json:"vehicle_id"`
	Material     string     `json:"material" gorm:"not null"`
	GrossWeight  *float64   `json:"gross_weight"`
	TareWeight   *float64   `json:"tare_weight"`
	NetWeight    *float64   `json:"net_weight"`
	Unit         string     `json:"unit" gorm:"default:'kg'"`
	WeighInTime  *time.Time `json:"weigh_in_time"`
	WeighOutTime *time.Time `json:"weigh_out_time"`
	Status       string     `json:"status" gorm:"default:'pending'"` // pending, completed, cancelled
	Notes        string     `json:"notes"`
	BackupStatus string     `json:"backup_status" gorm:"default:'pending'"` // pending, completed, failed
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// WeighTicketDetail is a ticket row joined with its customer's display
// fields, the shape every read endpoint returns.
type WeighTicketDetail struct {
	WeighTicket
	CustomerName    *string `json:"customer_name"`
	CustomerCompany *string `json:"customer_company"`
}

type TicketStatus string

const (
	TicketPending   TicketStatus = "pending"
	TicketCompleted TicketStatus = "completed"
	TicketCancelled TicketStatus = "cancelled"
)

type BackupStatus string

const (
	BackupPending   BackupStatus = "pending"
	BackupCompleted BackupStatus = "completed"
	BackupFailed    BackupStatus = "failed"
)
