package service

import (
	"context"

	"glowup/internal/cache"
	"glowup/internal/models"
	"glowup/internal/notifications"
	"glowup/internal/repository"
	"glowup/internal/validation"
)

// SocialService manages follows and likes.
type SocialService struct {
	followRepo repository.FollowRepository
	likeRepo   repository.LikeRepository
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	cache      *cache.Cache
	publisher  notifications.Publisher
}

type FollowInput struct {
	FollowerID  uint `json:"follower_id" validate:"gt=0"`
	FollowingID uint `json:"following_id" validate:"gt=0,nefield=FollowerID"`
}

type LikeInput struct {
	UserID uint `json:"user_id" validate:"gt=0"`
	PostID uint `json:"post_id" validate:"gt=0"`
}

func NewSocialService(
	followRepo repository.FollowRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	c *cache.Cache,
	publisher notifications.Publisher,
) *SocialService {
	return &SocialService{
		followRepo: followRepo,
		likeRepo:   likeRepo,
		userRepo:   userRepo,
		postRepo:   postRepo,
		cache:      c,
		publisher:  publisher,
	}
}

func (s *SocialService) FollowUser(ctx context.Context, in FollowInput) (*models.Follow, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.userRepo, in.FollowerID); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.userRepo, in.FollowingID); err != nil {
		return nil, err
	}

	follow := &models.Follow{
		FollowerID:  in.FollowerID,
		FollowingID: in.FollowingID,
		CreatedAt:   now(),
	}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		return nil, err
	}

	notifications.Emit(ctx, s.publisher, notifications.EventFollowCreated, follow)
	return follow, nil
}

func (s *SocialService) UnfollowUser(ctx context.Context, in FollowInput) (*SuccessResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.followRepo.Delete(ctx, in.FollowerID, in.FollowingID); err != nil {
		return nil, err
	}

	notifications.Emit(ctx, s.publisher, notifications.EventFollowDeleted, in)
	return &SuccessResult{Success: true}, nil
}

func (s *SocialService) LikePost(ctx context.Context, in LikeInput) (*models.Like, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.userRepo, in.UserID); err != nil {
		return nil, err
	}
	if err := requirePost(ctx, s.postRepo, in.PostID); err != nil {
		return nil, err
	}

	like := &models.Like{
		UserID:    in.UserID,
		PostID:    in.PostID,
		CreatedAt: now(),
	}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		return nil, err
	}

	s.cache.InvalidatePost(ctx, in.PostID)
	notifications.Emit(ctx, s.publisher, notifications.EventLikeCreated, like)
	return like, nil
}

func (s *SocialService) UnlikePost(ctx context.Context, in LikeInput) (*SuccessResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.likeRepo.Delete(ctx, in.UserID, in.PostID); err != nil {
		return nil, err
	}

	s.cache.InvalidatePost(ctx, in.PostID)
	notifications.Emit(ctx, s.publisher, notifications.EventLikeDeleted, in)
	return &SuccessResult{Success: true}, nil
}
