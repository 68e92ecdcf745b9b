package repository

import (
	"time"

	"weighscale/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.LocalUser) error
	GetByID(id uint) (*models.LocalUser, error)
	GetByUsername(username string) (*models.LocalUser, error)
	UpdatePassword(id uint, passwordHash string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.LocalUser) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.LocalUser, error) {
	var user models.LocalUser
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(username string) (*models.LocalUser, error) {
	var user models.LocalUser
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(id uint, passwordHash string) error {
	return r.db.Model(&models.LocalUser{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	}).Error
}
