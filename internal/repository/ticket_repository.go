package repository

import (
	"time"

	"weighscale/internal/models"

	"gorm.io/gorm"
)

// TicketFilter narrows and pages the ticket list. Zero values mean "no
// filter"; Page and Limit get defaults when unset.
type TicketFilter struct {
	Status     string
	CustomerID *uint
	Search     string
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	Limit      int
}

const ticketDetailColumns = "weigh_tickets.*, customers.name AS customer_name, customers.company AS customer_company"

type TicketRepository interface {
	Create(ticket *models.WeighTicket) error
	GetByID(id uint) (*models.WeighTicket, error)
	GetDetailByID(id uint) (*models.WeighTicketDetail, error)
	List(filter TicketFilter) ([]models.WeighTicketDetail, int64, error)
	// ApplyPatch loads the current row, asks derive for the column
	// assignments, writes them and re-reads — all in one transaction, so
	// concurrent edits to the same ticket cannot interleave.
	ApplyPatch(id uint, derive func(current *models.WeighTicket) (map[string]interface{}, error)) (*models.WeighTicket, error)
	Delete(id uint) error
	CountByCustomer(customerID uint) (int64, error)
	GetPendingBackup() ([]models.WeighTicketDetail, error)
	MarkBackupStatus(ids []uint, status models.BackupStatus) error
}

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ticket *models.WeighTicket) error {
	return r.db.Create(ticket).Error
}

func (r *ticketRepository) GetByID(id uint) (*models.WeighTicket, error) {
	var ticket models.WeighTicket
	err := r.db.First(&ticket, id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) GetDetailByID(id uint) (*models.WeighTicketDetail, error) {
	var detail models.WeighTicketDetail
	err := r.db.Model(&models.WeighTicket{}).
		Select(ticketDetailColumns).
		Joins("LEFT JOIN customers ON customers.id = weigh_tickets.customer_id").
		Where("weigh_tickets.id = ?", id).
		First(&detail).Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *ticketRepository) filtered(filter TicketFilter) *gorm.DB {
	query := r.db.Model(&models.WeighTicket{}).
		Joins("LEFT JOIN customers ON customers.id = weigh_tickets.customer_id")

	if filter.Status != "" {
		query = query.Where("weigh_tickets.status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("weigh_tickets.customer_id = ?", *filter.CustomerID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"weigh_tickets.ticket_number LIKE ? OR weigh_tickets.vehicle_id LIKE ? OR weigh_tickets.material LIKE ? OR customers.name LIKE ?",
			like, like, like, like,
		)
	}
	if filter.StartDate != nil {
		query = query.Where("weigh_tickets.created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("weigh_tickets.created_at <= ?", *filter.EndDate)
	}
	return query
}

func (r *ticketRepository) List(filter TicketFilter) ([]models.WeighTicketDetail, int64, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var details []models.WeighTicketDetail
	err := r.filtered(filter).
		Select(ticketDetailColumns).
		Order("weigh_tickets.created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(&details).Error
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

func (r *ticketRepository) ApplyPatch(id uint, derive func(current *models.WeighTicket) (map[string]interface{}, error)) (*models.WeighTicket, error) {
	var updated models.WeighTicket
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current models.WeighTicket
		if err := tx.First(&current, id).Error; err != nil {
			return err
		}
		assignments, err := derive(&current)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.WeighTicket{}).Where("id = ?", id).Updates(assignments).Error; err != nil {
			return err
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ticketRepository) Delete(id uint) error {
	return r.db.Delete(&models.WeighTicket{}, id).Error
}

func (r *ticketRepository) CountByCustomer(customerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.WeighTicket{}).Where("customer_id = ?", customerID).Count(&count).Error
	return count, err
}

func (r *ticketRepository) GetPendingBackup() ([]models.WeighTicketDetail, error) {
	var details []models.WeighTicketDetail
	err := r.db.Model(&models.WeighTicket{}).
		Select(ticketDetailColumns).
		Joins("LEFT JOIN customers ON customers.id = weigh_tickets.customer_id").
		Where("weigh_tickets.status = ?", models.TicketCompleted).
		Where("weigh_tickets.backup_status IN ?", []models.BackupStatus{models.BackupPending, models.BackupFailed}).
		Order("weigh_tickets.created_at ASC").
		Scan(&details).Error
	return details, err
}

func (r *ticketRepository) MarkBackupStatus(ids []uint, status models.BackupStatus) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.WeighTicket{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"backup_status": string(status),
			"updated_at":    time.Now(),
		}).Error
}
