package repository

import (
	"context"
	"fmt"

	"glowup/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository stores likes; one per (user, post).
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, userID, postID uint) error
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a LikeRepository backed by db.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(like).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Post already liked", err)
		}
		return classify(err, "Post", like.PostID)
	}
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, postID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Like", fmt.Sprintf("user %d on post %d", userID, postID))
	}
	return nil
}
