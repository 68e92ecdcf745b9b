package services

import (
	"errors"

	"weighscale/internal/models"
	"weighscale/internal/repository"

	"gorm.io/gorm"
)

type CustomerService interface {
	CreateCustomer(customer *models.Customer) error
	GetCustomerByID(id uint) (*models.Customer, error)
	GetAllCustomers(search string) ([]models.Customer, error)
	UpdateCustomer(id uint, customer *models.Customer) (*models.Customer, error)
	DeleteCustomer(id uint) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
	ticketRepo   repository.TicketRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository, ticketRepo repository.TicketRepository) CustomerService {
	return &customerService{customerRepo: customerRepo, ticketRepo: ticketRepo}
}

func (s *customerService) CreateCustomer(customer *models.Customer) error {
	if customer.Name == "" {
		return ErrNameRequired
	}
	return s.customerRepo.Create(customer)
}

func (s *customerService) GetCustomerByID(id uint) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return customer, err
}

func (s *customerService) GetAllCustomers(search string) ([]models.Customer, error) {
	return s.customerRepo.GetAll(search)
}

func (s *customerService) UpdateCustomer(id uint, customer *models.Customer) (*models.Customer, error) {
	if customer.Name == "" {
		return nil, ErrNameRequired
	}

	existing, err := s.customerRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	existing.Name = customer.Name
	existing.Company = customer.Company
	existing.Email = customer.Email
	existing.Phone = customer.Phone
	existing.Address = customer.Address

	if err := s.customerRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *customerService) DeleteCustomer(id uint) error {
	_, err := s.customerRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	// Deletion is blocked, not cascaded, while tickets still reference the
	// customer.
	count, err := s.ticketRepo.CountByCustomer(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCustomerHasTickets
	}

	return s.customerRepo.Delete(id)
}
