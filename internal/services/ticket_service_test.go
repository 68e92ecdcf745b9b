package services

import (
	"encoding/json"
	"errors"
	"testing"

	"weighscale/internal/models"
	"weighscale/internal/repository"
	"weighscale/internal/ticket"
)

func newTicketFixture(t *testing.T) (TicketService, repository.TicketRepository, repository.CustomerRepository) {
	t.Helper()
	db := newTestDB(t)
	ticketRepo := repository.NewTicketRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	return NewTicketService(ticketRepo), ticketRepo, customerRepo
}

func patchFromJSON(t *testing.T, body string) ticket.Patch {
	t.Helper()
	var p ticket.Patch
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCreateTicketWithBothWeights(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	detail, err := svc.CreateTicket(ticket.CreateInput{
		Material:    "Gravel",
		GrossWeight: floatPtr(5000),
		TareWeight:  floatPtr(2000),
	})
	if err != nil {
		t.Fatal(err)
	}

	if detail.NetWeight == nil || *detail.NetWeight != 3000 {
		t.Errorf("net weight = %v, want 3000", detail.NetWeight)
	}
	if detail.Status != string(models.TicketCompleted) {
		t.Errorf("status = %q, want completed", detail.Status)
	}
	if detail.WeighInTime == nil || detail.WeighOutTime == nil {
		t.Fatal("both weigh timestamps should be set at creation with both weights")
	}
	if !detail.WeighInTime.Equal(*detail.WeighOutTime) {
		t.Error("weigh-in and weigh-out should share the creation instant")
	}
	if detail.BackupStatus != string(models.BackupPending) {
		t.Errorf("backup_status = %q, want pending", detail.BackupStatus)
	}
	if detail.TicketNumber == "" {
		t.Error("ticket number not generated")
	}
}

func TestCreateTicketJoinsCustomer(t *testing.T) {
	svc, _, customerRepo := newTicketFixture(t)

	customer := &models.Customer{Name: "Acme Hauling", Company: "Acme"}
	if err := customerRepo.Create(customer); err != nil {
		t.Fatal(err)
	}

	detail, err := svc.CreateTicket(ticket.CreateInput{
		Material:   "Sand",
		CustomerID: &customer.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if detail.CustomerName == nil || *detail.CustomerName != "Acme Hauling" {
		t.Errorf("customer_name = %v, want Acme Hauling", detail.CustomerName)
	}
}

func TestCreateTicketRejectsUnknownCustomer(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	bogus := uint(9999)
	_, err := svc.CreateTicket(ticket.CreateInput{
		Material:   "Gravel",
		CustomerID: &bogus,
	})
	if err == nil {
		t.Fatal("ticket referencing a nonexistent customer must not be created")
	}
}

func TestUpdateTicketWeighOut(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	created, err := svc.CreateTicket(ticket.CreateInput{
		Material:    "Gravel",
		GrossWeight: floatPtr(5000),
	})
	if err != nil {
		t.Fatal(err)
	}
	weighIn := *created.WeighInTime

	updated, err := svc.UpdateTicket(created.ID, patchFromJSON(t, `{"tare_weight": 2100}`))
	if err != nil {
		t.Fatal(err)
	}

	if updated.NetWeight == nil || *updated.NetWeight != 2900 {
		t.Errorf("net weight = %v, want 2900", updated.NetWeight)
	}
	if updated.Status != string(models.TicketCompleted) {
		t.Errorf("status = %q, want completed", updated.Status)
	}
	if updated.WeighOutTime == nil {
		t.Error("weigh_out_time not stamped")
	}
	if updated.WeighInTime == nil || !updated.WeighInTime.Equal(weighIn) {
		t.Errorf("weigh_in_time moved: %v, want %v", updated.WeighInTime, weighIn)
	}
}

func TestUpdateTicketNoFields(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	// A completed ticket is the risky case: the engine could re-derive
	// net/status from the stored weights even with an empty payload.
	created, err := svc.CreateTicket(ticket.CreateInput{
		Material:    "Gravel",
		GrossWeight: floatPtr(5000),
		TareWeight:  floatPtr(2000),
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.UpdateTicket(created.ID, patchFromJSON(t, `{}`))
	if !errors.Is(err, ticket.ErrNoFields) {
		t.Fatalf("err = %v, want ErrNoFields", err)
	}

	// The rejected update must not have written anything.
	after, err := svc.GetTicketByID(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !after.UpdatedAt.Equal(created.UpdatedAt) {
		t.Error("no-op update still touched the row")
	}
}

func TestUpdateTicketNotFound(t *testing.T) {
	svc, _, _ := newTicketFixture(t)
	_, err := svc.UpdateTicket(9999, patchFromJSON(t, `{"notes": "x"}`))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListTicketsFilterAndPaginate(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateTicket(ticket.CreateInput{
			Material:    "Gravel",
			GrossWeight: floatPtr(5000),
			TareWeight:  floatPtr(2000),
		}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.CreateTicket(ticket.CreateInput{Material: "Sand"}); err != nil {
		t.Fatal(err)
	}

	completed, total, err := svc.ListTickets(repository.TicketFilter{Status: string(models.TicketCompleted)})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(completed) != 3 {
		t.Errorf("completed tickets = %d (total %d), want 3", len(completed), total)
	}

	paged, total, err := svc.ListTickets(repository.TicketFilter{Page: 1, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	if len(paged) != 2 {
		t.Errorf("page size = %d, want 2", len(paged))
	}

	bySearch, _, err := svc.ListTickets(repository.TicketFilter{Search: "Sand"})
	if err != nil {
		t.Fatal(err)
	}
	if len(bySearch) != 1 {
		t.Errorf("search hits = %d, want 1", len(bySearch))
	}
}

func TestDeleteTicket(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	created, err := svc.CreateTicket(ticket.CreateInput{Material: "Gravel"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteTicket(created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetTicketByID(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
	if err := svc.DeleteTicket(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound on double delete", err)
	}
}
