package repository

import (
	"context"
	"time"

	"glowup/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	UpdateContent(ctx context.Context, id uint, content string, updatedAt time.Time) (*models.Comment, error)
	Delete(ctx context.Context, id uint) (*models.Comment, error)
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return classify(err, "Comment", comment.ID)
	}
	return nil
}

// ListByPost returns a post's comments in chronological order.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	comments := make([]*models.Comment, 0)
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint, content string, updatedAt time.Time) (*models.Comment, error) {
	var comment *models.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Comment{}).Where("id = ?", id).
			Updates(map[string]interface{}{"content": content, "updated_at": updatedAt})
		if res.Error != nil {
			return classify(res.Error, "Comment", id)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Comment", id)
		}
		var stored models.Comment
		if err := tx.First(&stored, id).Error; err != nil {
			return classify(err, "Comment", id)
		}
		comment = &stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes the comment and returns the deleted row.
func (r *commentRepository) Delete(ctx context.Context, id uint) (*models.Comment, error) {
	var comment *models.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored models.Comment
		if err := tx.First(&stored, id).Error; err != nil {
			return classify(err, "Comment", id)
		}
		res := tx.Delete(&models.Comment{}, id)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Comment", id)
		}
		comment = &stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}
