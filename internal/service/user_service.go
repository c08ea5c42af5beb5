package service

import (
	"context"

	"glowup/internal/cache"
	"glowup/internal/models"
	"glowup/internal/notifications"
	"glowup/internal/repository"
	"glowup/internal/validation"
)

type UserService struct {
	userRepo  repository.UserRepository
	cache     *cache.Cache
	publisher notifications.Publisher
}

type CreateUserInput struct {
	Username       string  `json:"username" validate:"required,nonul,min=3,max=50"`
	Email          string  `json:"email" validate:"required,nonul,email"`
	ProfilePicture *string `json:"profile_picture" validate:"omitnil,nonul"`
	Bio            *string `json:"bio" validate:"omitnil,nonul,max=500"`
}

// UpdateUserInput carries a partial update. An absent field is left alone,
// null clears a nullable column and a value replaces it.
type UpdateUserInput struct {
	ID             uint                    `json:"id" validate:"gt=0"`
	Username       models.Optional[string] `json:"username"`
	ProfilePicture models.Optional[string] `json:"profile_picture"`
	Bio            models.Optional[string] `json:"bio"`
}

func NewUserService(userRepo repository.UserRepository, c *cache.Cache, publisher notifications.Publisher) *UserService {
	return &UserService{userRepo: userRepo, cache: c, publisher: publisher}
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	ts := now()
	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		ProfilePicture: in.ProfilePicture,
		Bio:            in.Bio,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	notifications.Emit(ctx, s.publisher, notifications.EventUserCreated, user)
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	if err := validation.Var("id", id, "gt=0"); err != nil {
		return nil, err
	}

	return loadUser(ctx, s.cache, s.userRepo, id)
}

// loadUser reads a user through the user cache.
func loadUser(ctx context.Context, c *cache.Cache, users repository.UserRepository, id uint) (*models.User, error) {
	var user models.User
	err := c.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		found, err := users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		user = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	if err := validateUserUpdate(in); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": now()}
	if in.Username.HasValue() {
		updates["username"] = in.Username.Value
	}
	if in.ProfilePicture.Set {
		updates["profile_picture"] = in.ProfilePicture.Ptr()
	}
	if in.Bio.Set {
		updates["bio"] = in.Bio.Ptr()
	}

	user, err := s.userRepo.Update(ctx, in.ID, updates)
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateUser(ctx, user.ID)
	notifications.Emit(ctx, s.publisher, notifications.EventUserUpdated, user)
	return user, nil
}

func validateUserUpdate(in UpdateUserInput) error {
	errs := []error{validation.Struct(in)}
	if in.Username.Set {
		if in.Username.Null {
			errs = append(errs, models.NewFieldValidationError([]models.FieldError{{
				Field:   "username",
				Rule:    "required",
				Message: "username cannot be null",
			}}))
		} else {
			errs = append(errs, validation.Var("username", in.Username.Value, "nonul,min=3,max=50"))
		}
	}
	if in.ProfilePicture.HasValue() {
		errs = append(errs, validation.Var("profile_picture", in.ProfilePicture.Value, "nonul"))
	}
	if in.Bio.HasValue() {
		errs = append(errs, validation.Var("bio", in.Bio.Value, "nonul,max=500"))
	}
	return validation.Merge(errs...)
}
