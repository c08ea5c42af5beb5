package service

import (
	"context"

	"glowup/internal/cache"
	"glowup/internal/models"
	"glowup/internal/notifications"
	"glowup/internal/repository"
	"glowup/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	cache       *cache.Cache
	publisher   notifications.Publisher
}

type CreateCommentInput struct {
	UserID  uint   `json:"user_id" validate:"gt=0"`
	PostID  uint   `json:"post_id" validate:"gt=0"`
	Content string `json:"content" validate:"nonul,min=1,max=1000"`
}

type UpdateCommentInput struct {
	ID      uint   `json:"id" validate:"gt=0"`
	Content string `json:"content" validate:"nonul,min=1,max=1000"`
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	c *cache.Cache,
	publisher notifications.Publisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		cache:       c,
		publisher:   publisher,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.userRepo, in.UserID); err != nil {
		return nil, err
	}
	if err := requirePost(ctx, s.postRepo, in.PostID); err != nil {
		return nil, err
	}

	ts := now()
	comment := &models.Comment{
		UserID:    in.UserID,
		PostID:    in.PostID,
		Content:   in.Content,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.cache.InvalidatePost(ctx, in.PostID)
	notifications.Emit(ctx, s.publisher, notifications.EventCommentCreated, comment)
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.UpdateContent(ctx, in.ID, in.Content, now())
	if err != nil {
		return nil, err
	}

	notifications.Emit(ctx, s.publisher, notifications.EventCommentUpdated, comment)
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, id uint) (*SuccessResult, error) {
	if err := validation.Var("id", id, "gt=0"); err != nil {
		return nil, err
	}

	deleted, err := s.commentRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.InvalidatePost(ctx, deleted.PostID)
	notifications.Emit(ctx, s.publisher, notifications.EventCommentDeleted, deleted)
	return &SuccessResult{Success: true}, nil
}

// GetPostComments lists a post's comments oldest first.
func (s *CommentService) GetPostComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if err := validation.Var("post_id", postID, "gt=0"); err != nil {
		return nil, err
	}
	if err := requirePost(ctx, s.postRepo, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}
