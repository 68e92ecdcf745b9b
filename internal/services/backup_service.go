package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"weighscale/internal/models"
	"weighscale/internal/repository"
)

// SheetWriter appends ticket rows to the external spreadsheet.
type SheetWriter interface {
	EnsureSheet(ctx context.Context) error
	AppendRows(ctx context.Context, rows [][]interface{}) error
}

type BackupService interface {
	// Run exports all completed, not-yet-backed-up tickets. The fetched
	// batch succeeds or fails as a whole: any export error marks every
	// ticket in it failed so the next scheduled run retries them.
	Run(ctx context.Context) error
}

type backupService struct {
	ticketRepo repository.TicketRepository
	writer     SheetWriter
	deviceID   string
	logger     *slog.Logger
}

func NewBackupService(ticketRepo repository.TicketRepository, writer SheetWriter, deviceID string, logger *slog.Logger) BackupService {
	return &backupService{
		ticketRepo: ticketRepo,
		writer:     writer,
		deviceID:   deviceID,
		logger:     logger,
	}
}

func (s *backupService) Run(ctx context.Context) error {
	s.logger.Info("starting weigh tickets backup")

	tickets, err := s.ticketRepo.GetPendingBackup()
	if err != nil {
		return fmt.Errorf("failed to load tickets pending backup: %w", err)
	}
	if len(tickets) == 0 {
		s.logger.Info("no new tickets to backup")
		return nil
	}
	s.logger.Info("found weigh tickets to backup", "count", len(tickets))

	ids := make([]uint, len(tickets))
	rows := make([][]interface{}, len(tickets))
	for i, t := range tickets {
		ids[i] = t.ID
		rows[i] = s.buildRow(t)
	}

	if err := s.export(ctx, rows); err != nil {
		if markErr := s.ticketRepo.MarkBackupStatus(ids, models.BackupFailed); markErr != nil {
			s.logger.Error("failed to mark tickets after backup failure", "error", markErr)
		}
		return fmt.Errorf("backup to spreadsheet failed: %w", err)
	}

	if err := s.ticketRepo.MarkBackupStatus(ids, models.BackupCompleted); err != nil {
		return fmt.Errorf("failed to mark tickets as backed up: %w", err)
	}

	s.logger.Info("successfully backed up tickets", "count", len(tickets))
	return nil
}

func (s *backupService) export(ctx context.Context, rows [][]interface{}) error {
	if err := s.writer.EnsureSheet(ctx); err != nil {
		return err
	}
	return s.writer.AppendRows(ctx, rows)
}

func (s *backupService) buildRow(t models.WeighTicketDetail) []interface{} {
	customer := "Unknown"
	if t.CustomerName != nil && *t.CustomerName != "" {
		customer = *t.CustomerName
	}
	company := ""
	if t.CustomerCompany != nil {
		company = *t.CustomerCompany
	}

	return []interface{}{
		t.TicketNumber,
		customer,
		company,
		t.VehicleID,
		t.Material,
		weightCell(t.GrossWeight),
		weightCell(t.TareWeight),
		weightCell(t.NetWeight),
		t.Unit,
		timeCell(t.WeighInTime),
		timeCell(t.WeighOutTime),
		t.Status,
		t.Notes,
		t.CreatedAt.Format("2006-01-02"),
		s.deviceID,
	}
}

func weightCell(w *float64) interface{} {
	if w == nil {
		return ""
	}
	return *w
}

func timeCell(t *time.Time) interface{} {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
