package service

import (
	"context"
	"fmt"

	"glowup/internal/cache"
	"glowup/internal/models"
	"glowup/internal/notifications"
	"glowup/internal/repository"
	"glowup/internal/validation"
)

type PostService struct {
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	cache     *cache.Cache
	publisher notifications.Publisher
}

type CreatePostInput struct {
	UserID   uint            `json:"user_id" validate:"gt=0"`
	Content  *string         `json:"content" validate:"omitnil,nonul,max=2000"`
	ImageURL *string         `json:"image_url" validate:"omitnil,nonul"`
	PostType models.PostType `json:"post_type" validate:"omitempty,oneof=general before_after progress routine"`
}

// ListPostsInput pages through a user's posts or feed. Nil limit and offset
// fall back to DefaultListLimit and 0.
type ListPostsInput struct {
	UserID uint `json:"user_id" validate:"gt=0"`
	Limit  *int `json:"limit" validate:"omitnil,min=1,max=100"`
	Offset *int `json:"offset" validate:"omitnil,min=0"`
}

type CreateBeforeAfterInput struct {
	PostID         uint    `json:"post_id" validate:"gt=0"`
	BeforeImageURL string  `json:"before_image_url" validate:"required,nonul"`
	AfterImageURL  string  `json:"after_image_url" validate:"required,nonul"`
	Description    *string `json:"description" validate:"omitnil,nonul,max=1000"`
	TimePeriod     *string `json:"time_period" validate:"omitnil,nonul,max=100"`
}

type CreateProgressLogInput struct {
	PostID       uint     `json:"post_id" validate:"gt=0"`
	ActivityType string   `json:"activity_type" validate:"nonul,min=1,max=100"`
	Description  string   `json:"description" validate:"nonul,min=1,max=1000"`
	MetricValue  *float64 `json:"metric_value"`
	MetricUnit   *string  `json:"metric_unit" validate:"omitnil,nonul,max=20"`
}

type CreateRoutineInput struct {
	PostID      uint               `json:"post_id" validate:"gt=0"`
	RoutineType models.RoutineType `json:"routine_type" validate:"oneof=skincare workout diet other"`
	Title       string             `json:"title" validate:"nonul,min=1,max=200"`
	Description string             `json:"description" validate:"nonul,min=1,max=2000"`
	Steps       []string           `json:"steps" validate:"required,dive,nonul,min=1"`
	Duration    *string            `json:"duration" validate:"omitnil,nonul,max=100"`
}

// detailCreated is the payload of post.detail_created events.
type detailCreated struct {
	PostID   uint            `json:"post_id"`
	PostType models.PostType `json:"post_type"`
	Detail   interface{}     `json:"detail"`
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	c *cache.Cache,
	publisher notifications.Publisher,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		userRepo:  userRepo,
		cache:     c,
		publisher: publisher,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.userRepo, in.UserID); err != nil {
		return nil, err
	}

	postType := in.PostType
	if postType == "" {
		postType = models.PostTypeGeneral
	}

	ts := now()
	post := &models.Post{
		UserID:    in.UserID,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		PostType:  postType,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	notifications.Emit(ctx, s.publisher, notifications.EventPostCreated, post)
	return post, nil
}

// GetPost returns one post with its author, detail row and counters.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	if err := validation.Var("id", id, "gt=0"); err != nil {
		return nil, err
	}

	// Posts are cached without their author, which is read through the user cache.
	var (
		post   models.Post
		author *models.User
	)
	err := s.cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		found, err := s.postRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		post = *found
		author, post.User = post.User, nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	if author == nil {
		if author, err = loadUser(ctx, s.cache, s.userRepo, post.UserID); err != nil {
			return nil, err
		}
	}
	post.User = author
	return &post, nil
}

func (s *PostService) GetUserPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	limit, offset := pageParams(in.Limit, in.Offset)
	return s.postRepo.ListByUser(ctx, in.UserID, limit, offset)
}

// GetFeed lists posts from the users in.UserID follows, newest first.
func (s *PostService) GetFeed(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	limit, offset := pageParams(in.Limit, in.Offset)
	return s.postRepo.ListFeed(ctx, in.UserID, limit, offset)
}

func (s *PostService) CreateBeforeAfter(ctx context.Context, in CreateBeforeAfterInput) (*models.BeforeAfter, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.requirePostType(ctx, in.PostID, models.PostTypeBeforeAfter); err != nil {
		return nil, err
	}

	detail := &models.BeforeAfter{
		PostID:         in.PostID,
		BeforeImageURL: in.BeforeImageURL,
		AfterImageURL:  in.AfterImageURL,
		Description:    in.Description,
		TimePeriod:     in.TimePeriod,
		CreatedAt:      now(),
	}
	if err := s.postRepo.CreateBeforeAfter(ctx, detail); err != nil {
		return nil, err
	}

	s.detailCreated(ctx, detail.PostID, models.PostTypeBeforeAfter, detail)
	return detail, nil
}

func (s *PostService) CreateProgressLog(ctx context.Context, in CreateProgressLogInput) (*models.ProgressLog, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.requirePostType(ctx, in.PostID, models.PostTypeProgress); err != nil {
		return nil, err
	}

	detail := &models.ProgressLog{
		PostID:       in.PostID,
		ActivityType: in.ActivityType,
		Description:  in.Description,
		MetricValue:  in.MetricValue,
		MetricUnit:   in.MetricUnit,
		CreatedAt:    now(),
	}
	if err := s.postRepo.CreateProgressLog(ctx, detail); err != nil {
		return nil, err
	}

	s.detailCreated(ctx, detail.PostID, models.PostTypeProgress, detail)
	return detail, nil
}

func (s *PostService) CreateRoutine(ctx context.Context, in CreateRoutineInput) (*models.Routine, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.requirePostType(ctx, in.PostID, models.PostTypeRoutine); err != nil {
		return nil, err
	}

	steps := make([]string, len(in.Steps))
	copy(steps, in.Steps)
	detail := &models.Routine{
		PostID:      in.PostID,
		RoutineType: in.RoutineType,
		Title:       in.Title,
		Description: in.Description,
		Steps:       steps,
		Duration:    in.Duration,
		CreatedAt:   now(),
	}
	if err := s.postRepo.CreateRoutine(ctx, detail); err != nil {
		return nil, err
	}

	s.detailCreated(ctx, detail.PostID, models.PostTypeRoutine, detail)
	return detail, nil
}

// requirePostType fails with NOT_FOUND when the post is missing and with a
// validation error when it is of another type.
func (s *PostService) requirePostType(ctx context.Context, postID uint, want models.PostType) error {
	got, err := s.postRepo.GetType(ctx, postID)
	if err != nil {
		return err
	}
	if got != want {
		return models.NewFieldValidationError([]models.FieldError{{
			Field:   "post_id",
			Rule:    "post_type",
			Param:   string(want),
			Message: fmt.Sprintf("post %d has type %s, expected %s", postID, got, want),
		}})
	}
	return nil
}

func (s *PostService) detailCreated(ctx context.Context, postID uint, postType models.PostType, detail interface{}) {
	s.cache.InvalidatePost(ctx, postID)
	notifications.Emit(ctx, s.publisher, notifications.EventPostDetailCreated, detailCreated{
		PostID:   postID,
		PostType: postType,
		Detail:   detail,
	})
}

// requireUser returns NOT_FOUND when the user does not exist.
func requireUser(ctx context.Context, users repository.UserRepository, id uint) error {
	ok, err := users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

// requirePost returns NOT_FOUND when the post does not exist.
func requirePost(ctx context.Context, posts repository.PostRepository, id uint) error {
	_, err := posts.GetType(ctx, id)
	return err
}
