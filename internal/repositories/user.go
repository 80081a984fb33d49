package repositories

import "finch/internal/models"

// UserRepository defines data access for users.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	IncrementTokenVersion(userID uint) error
}
