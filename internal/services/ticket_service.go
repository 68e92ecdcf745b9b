package services

import (
	"errors"
	"time"

	"weighscale/internal/models"
	"weighscale/internal/repository"
	"weighscale/internal/ticket"

	"gorm.io/gorm"
)

// ticketNumberAttempts bounds the regenerate-and-retry loop when a random
// ticket number collides with an existing one.
const ticketNumberAttempts = 3

type TicketService interface {
	CreateTicket(input ticket.CreateInput) (*models.WeighTicketDetail, error)
	GetTicketByID(id uint) (*models.WeighTicketDetail, error)
	ListTickets(filter repository.TicketFilter) ([]models.WeighTicketDetail, int64, error)
	UpdateTicket(id uint, patch ticket.Patch) (*models.WeighTicketDetail, error)
	DeleteTicket(id uint) error
}

type ticketService struct {
	ticketRepo repository.TicketRepository
}

func NewTicketService(ticketRepo repository.TicketRepository) TicketService {
	return &ticketService{ticketRepo: ticketRepo}
}

func (s *ticketService) CreateTicket(input ticket.CreateInput) (*models.WeighTicketDetail, error) {
	now := time.Now()

	var created *models.WeighTicket
	for attempt := 0; attempt < ticketNumberAttempts; attempt++ {
		row, err := ticket.Derive(input, ticket.GenerateNumber(now), now)
		if err != nil {
			return nil, err
		}
		err = s.ticketRepo.Create(row)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return nil, err
		}
		created = row
		break
	}
	if created == nil {
		return nil, errors.New("failed to allocate a unique ticket number")
	}

	return s.ticketRepo.GetDetailByID(created.ID)
}

func (s *ticketService) GetTicketByID(id uint) (*models.WeighTicketDetail, error) {
	detail, err := s.ticketRepo.GetDetailByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return detail, err
}

func (s *ticketService) ListTickets(filter repository.TicketFilter) ([]models.WeighTicketDetail, int64, error) {
	return s.ticketRepo.List(filter)
}

func (s *ticketService) UpdateTicket(id uint, patch ticket.Patch) (*models.WeighTicketDetail, error) {
	updated, err := s.ticketRepo.ApplyPatch(id, func(current *models.WeighTicket) (map[string]interface{}, error) {
		return ticket.Apply(current, patch, time.Now())
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.ticketRepo.GetDetailByID(updated.ID)
}

func (s *ticketService) DeleteTicket(id uint) error {
	_, err := s.ticketRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return s.ticketRepo.Delete(id)
}
