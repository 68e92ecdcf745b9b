package services

import (
	"errors"
	"testing"

	"weighscale/internal/models"
	"weighscale/internal/repository"
	"weighscale/internal/ticket"
)

func newCustomerFixture(t *testing.T) (CustomerService, TicketService) {
	t.Helper()
	db := newTestDB(t)
	customerRepo := repository.NewCustomerRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	return NewCustomerService(customerRepo, ticketRepo), NewTicketService(ticketRepo)
}

func TestCreateCustomerRequiresName(t *testing.T) {
	svc, _ := newCustomerFixture(t)
	err := svc.CreateCustomer(&models.Customer{Company: "Acme"})
	if !errors.Is(err, ErrNameRequired) {
		t.Fatalf("err = %v, want ErrNameRequired", err)
	}
}

func TestDeleteCustomerGuardedByTickets(t *testing.T) {
	customerSvc, ticketSvc := newCustomerFixture(t)

	customer := &models.Customer{Name: "Acme Hauling"}
	if err := customerSvc.CreateCustomer(customer); err != nil {
		t.Fatal(err)
	}

	created, err := ticketSvc.CreateTicket(ticket.CreateInput{
		Material:   "Gravel",
		CustomerID: &customer.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := customerSvc.DeleteCustomer(customer.ID); !errors.Is(err, ErrCustomerHasTickets) {
		t.Fatalf("err = %v, want ErrCustomerHasTickets", err)
	}

	// Once the referencing ticket is gone the delete goes through.
	if err := ticketSvc.DeleteTicket(created.ID); err != nil {
		t.Fatal(err)
	}
	if err := customerSvc.DeleteCustomer(customer.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := customerSvc.GetCustomerByID(customer.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestUpdateCustomer(t *testing.T) {
	svc, _ := newCustomerFixture(t)

	customer := &models.Customer{Name: "Acme Hauling", Phone: "555-0100"}
	if err := svc.CreateCustomer(customer); err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateCustomer(customer.ID, &models.Customer{Name: "Acme Hauling Ltd"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Acme Hauling Ltd" {
		t.Errorf("name = %q, want updated name", updated.Name)
	}
	if updated.Phone != "" {
		t.Errorf("phone = %q, update is a full replace", updated.Phone)
	}

	if _, err := svc.UpdateCustomer(9999, &models.Customer{Name: "Nobody"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSearchCustomers(t *testing.T) {
	svc, _ := newCustomerFixture(t)

	for _, c := range []*models.Customer{
		{Name: "Acme Hauling", Company: "Acme"},
		{Name: "Borealis Gravel"},
	} {
		if err := svc.CreateCustomer(c); err != nil {
			t.Fatal(err)
		}
	}

	hits, err := svc.GetAllCustomers("acme")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Name != "Acme Hauling" {
		t.Errorf("search hits = %v, want Acme Hauling only", hits)
	}

	all, err := svc.GetAllCustomers("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("all customers = %d, want 2", len(all))
	}
}
