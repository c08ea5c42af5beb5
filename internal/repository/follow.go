package repository

import (
	"context"
	"fmt"

	"glowup/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository stores directed follow edges.
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followerID, followingID uint) error
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a FollowRepository backed by db.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(follow).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Already following this user", err)
		}
		return classify(err, "User", follow.FollowingID)
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID uint) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Follow", fmt.Sprintf("%d->%d", followerID, followingID))
	}
	return nil
}
