package repositories

import (
	"context"
	"log"

	"finch/internal/models"
	"finch/internal/repositories/cache"

	"gorm.io/gorm"
)

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *gorm.DB, cache *cache.CacheService) UserRepository {
	return &userRepository{
		db:    db,
		cache: cache,
	}
}

func (r *userRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	// Try cache first; the auth middleware hits this on every request.
	if r.cache != nil {
		key := r.cache.GenerateKey("user", "id", id)
		if user, err := r.cache.GetUser(context.Background(), key); err == nil {
			return user, nil
		}
	}

	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.CacheUser(context.Background(), &user); err != nil {
			log.Printf("Failed to cache user %d: %v", user.ID, err)
		}
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return ErrDatabaseOperation
	}
	if r.cache != nil {
		if err := r.cache.InvalidateUser(context.Background(), user); err != nil {
			log.Printf("Failed to invalidate user cache %d: %v", user.ID, err)
		}
	}
	return nil
}

func (r *userRepository) IncrementTokenVersion(userID uint) error {
	user, err := r.GetByID(userID)
	if err != nil {
		return err
	}
	user.TokenVersion++
	return r.Update(user)
}
