// Package repository implements the data access layer for the application.
package repository

import (
	"context"

	"glowup/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Username or email already taken", err)
		}
		return classify(err, "User", user.ID)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, classify(err, "User", id)
	}
	return &user, nil
}

// Update applies column updates and returns the stored row. Keys are column names.
func (r *userRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (*models.User, error) {
	var user *models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			if isUniqueConstraintError(res.Error) {
				return models.NewConflictError("Username already taken", res.Error)
			}
			return classify(res.Error, "User", id)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User", id)
		}

		var stored models.User
		if err := tx.First(&stored, id).Error; err != nil {
			return classify(err, "User", id)
		}
		user = &stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
