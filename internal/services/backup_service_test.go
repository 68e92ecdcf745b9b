package services

import (
	"context"
	"errors"
	"testing"

	"weighscale/internal/models"
	"weighscale/internal/repository"
	"weighscale/internal/ticket"
)

type fakeSheetWriter struct {
	rows      [][]interface{}
	appendErr error
	ensureErr error
}

func (f *fakeSheetWriter) EnsureSheet(ctx context.Context) error {
	return f.ensureErr
}

func (f *fakeSheetWriter) AppendRows(ctx context.Context, rows [][]interface{}) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.rows = append(f.rows, rows...)
	return nil
}

func newBackupFixture(t *testing.T, writer SheetWriter) (BackupService, TicketService, repository.TicketRepository) {
	t.Helper()
	db := newTestDB(t)
	ticketRepo := repository.NewTicketRepository(db)
	backup := NewBackupService(ticketRepo, writer, "device-123", newTestLogger())
	return backup, NewTicketService(ticketRepo), ticketRepo
}

func TestBackupExportsCompletedTickets(t *testing.T) {
	writer := &fakeSheetWriter{}
	backup, ticketSvc, ticketRepo := newBackupFixture(t, writer)

	completed, err := ticketSvc.CreateTicket(ticket.CreateInput{
		Material:    "Gravel",
		GrossWeight: floatPtr(5000),
		TareWeight:  floatPtr(2000),
	})
	if err != nil {
		t.Fatal(err)
	}
	pending, err := ticketSvc.CreateTicket(ticket.CreateInput{Material: "Sand"})
	if err != nil {
		t.Fatal(err)
	}

	if err := backup.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(writer.rows) != 1 {
		t.Fatalf("exported rows = %d, want 1 (only the completed ticket)", len(writer.rows))
	}
	row := writer.rows[0]
	if row[0] != completed.TicketNumber {
		t.Errorf("row ticket number = %v, want %v", row[0], completed.TicketNumber)
	}
	if row[1] != "Unknown" {
		t.Errorf("row customer = %v, want Unknown placeholder", row[1])
	}
	if row[len(row)-1] != "device-123" {
		t.Errorf("row device id = %v, want device-123", row[len(row)-1])
	}

	after, err := ticketRepo.GetByID(completed.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.BackupStatus != string(models.BackupCompleted) {
		t.Errorf("backup_status = %q, want completed", after.BackupStatus)
	}
	untouched, err := ticketRepo.GetByID(pending.ID)
	if err != nil {
		t.Fatal(err)
	}
	if untouched.BackupStatus != string(models.BackupPending) {
		t.Errorf("pending ticket backup_status = %q, want still pending", untouched.BackupStatus)
	}
}

func TestBackupMarksBatchFailed(t *testing.T) {
	writer := &fakeSheetWriter{appendErr: errors.New("quota exceeded")}
	backup, ticketSvc, ticketRepo := newBackupFixture(t, writer)

	created, err := ticketSvc.CreateTicket(ticket.CreateInput{
		Material:    "Gravel",
		GrossWeight: floatPtr(5000),
		TareWeight:  floatPtr(2000),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := backup.Run(context.Background()); err == nil {
		t.Fatal("expected export failure")
	}

	after, err := ticketRepo.GetByID(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.BackupStatus != string(models.BackupFailed) {
		t.Errorf("backup_status = %q, want failed", after.BackupStatus)
	}

	// Failed tickets are retried by the next run.
	writer.appendErr = nil
	if err := backup.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	after, err = ticketRepo.GetByID(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.BackupStatus != string(models.BackupCompleted) {
		t.Errorf("backup_status = %q, want completed after retry", after.BackupStatus)
	}
}

func TestBackupNoEligibleTickets(t *testing.T) {
	writer := &fakeSheetWriter{ensureErr: errors.New("should not be called")}
	backup, _, _ := newBackupFixture(t, writer)

	if err := backup.Run(context.Background()); err != nil {
		t.Fatalf("empty run should succeed, got %v", err)
	}
}
