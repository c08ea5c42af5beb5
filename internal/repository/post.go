package repository

import (
	"context"

	"glowup/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetType(ctx context.Context, id uint) (models.PostType, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	ListFeed(ctx context.Context, followerID uint, limit, offset int) ([]*models.Post, error)
	CreateBeforeAfter(ctx context.Context, detail *models.BeforeAfter) error
	CreateProgressLog(ctx context.Context, detail *models.ProgressLog) error
	CreateRoutine(ctx context.Context, detail *models.Routine) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return classify(err, "Post", post.ID)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.withDetails(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		return nil, classify(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) GetType(ctx context.Context, id uint) (models.PostType, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Select("id", "post_type").First(&post, id).Error; err != nil {
		return "", classify(err, "Post", id)
	}
	return post.PostType, nil
}

// ListByUser returns the user's posts, newest first. Posts sharing a
// timestamp are ordered by descending id.
func (r *postRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0)
	err := r.withDetails(r.db.WithContext(ctx)).
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListFeed returns posts authored by the users followerID follows, as one
// globally ordered page over the join with follows.
func (r *postRepository) ListFeed(ctx context.Context, followerID uint, limit, offset int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0)
	err := r.withDetails(r.db.WithContext(ctx)).
		Joins("JOIN follows ON follows.following_id = posts.user_id").
		Where("follows.follower_id = ?", followerID).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) CreateBeforeAfter(ctx context.Context, detail *models.BeforeAfter) error {
	if err := r.db.WithContext(ctx).Create(detail).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Post already has a before/after entry", err)
		}
		return classify(err, "Post", detail.PostID)
	}
	return nil
}

func (r *postRepository) CreateProgressLog(ctx context.Context, detail *models.ProgressLog) error {
	if err := r.db.WithContext(ctx).Create(detail).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Post already has a progress log", err)
		}
		return classify(err, "Post", detail.PostID)
	}
	return nil
}

func (r *postRepository) CreateRoutine(ctx context.Context, detail *models.Routine) error {
	if err := r.db.WithContext(ctx).Create(detail).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Post already has a routine", err)
		}
		return classify(err, "Post", detail.PostID)
	}
	return nil
}

// withDetails adds count subqueries and preloads the author and detail rows.
func (r *postRepository) withDetails(db *gorm.DB) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count"

	return db.Model(&models.Post{}).
		Select(selectQuery).
		Preload("User").
		Preload("BeforeAfter").
		Preload("ProgressLog").
		Preload("Routine")
}
