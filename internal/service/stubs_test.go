package service

import (
	"context"
	"testing"
	"time"

	"glowup/internal/cache"
	"glowup/internal/models"
	"glowup/internal/repository"
	"glowup/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn  func(context.Context, *models.User) error
	getByIDFn func(context.Context, uint) (*models.User, error)
	updateFn  func(context.Context, uint, map[string]interface{}) (*models.User, error)
	existsFn  func(context.Context, uint) (bool, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) Update(ctx context.Context, id uint, updates map[string]interface{}) (*models.User, error) {
	return s.updateFn(ctx, id, updates)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:  func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		updateFn:  func(_ context.Context, id uint, _ map[string]interface{}) (*models.User, error) { return &models.User{ID: id}, nil },
		existsFn:  func(_ context.Context, _ uint) (bool, error) { return true, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn            func(context.Context, *models.Post) error
	getByIDFn           func(context.Context, uint) (*models.Post, error)
	getTypeFn           func(context.Context, uint) (models.PostType, error)
	listByUserFn        func(context.Context, uint, int, int) ([]*models.Post, error)
	listFeedFn          func(context.Context, uint, int, int) ([]*models.Post, error)
	createBeforeAfterFn func(context.Context, *models.BeforeAfter) error
	createProgressFn    func(context.Context, *models.ProgressLog) error
	createRoutineFn     func(context.Context, *models.Routine) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetType(ctx context.Context, id uint) (models.PostType, error) {
	return s.getTypeFn(ctx, id)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) ListFeed(ctx context.Context, followerID uint, limit, offset int) ([]*models.Post, error) {
	return s.listFeedFn(ctx, followerID, limit, offset)
}
func (s *postRepoStub) CreateBeforeAfter(ctx context.Context, detail *models.BeforeAfter) error {
	return s.createBeforeAfterFn(ctx, detail)
}
func (s *postRepoStub) CreateProgressLog(ctx context.Context, detail *models.ProgressLog) error {
	return s.createProgressFn(ctx, detail)
}
func (s *postRepoStub) CreateRoutine(ctx context.Context, detail *models.Routine) error {
	return s.createRoutineFn(ctx, detail)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:            func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:           func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		getTypeFn:           func(_ context.Context, _ uint) (models.PostType, error) { return models.PostTypeGeneral, nil },
		listByUserFn:        func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) { return []*models.Post{}, nil },
		listFeedFn:          func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) { return []*models.Post{}, nil },
		createBeforeAfterFn: func(_ context.Context, _ *models.BeforeAfter) error { return nil },
		createProgressFn:    func(_ context.Context, _ *models.ProgressLog) error { return nil },
		createRoutineFn:     func(_ context.Context, _ *models.Routine) error { return nil },
	}
}

func assertValidationError(t *testing.T, err error) *models.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := models.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T", err)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	return appErr
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.HasCode(err, code), "expected %s, got %v", code, err)
}

func fieldNames(appErr *models.AppError) []string {
	names := make([]string, 0, len(appErr.Fields))
	for _, f := range appErr.Fields {
		names = append(names, f.Field)
	}
	return names
}

// env wires every service over an in-memory SQLite store, a miniredis cache
// and a recording publisher.
type env struct {
	db        *gorm.DB
	redis     *miniredis.Miniredis
	publisher *testutil.PublisherStub
	users     *UserService
	posts     *PostService
	social    *SocialService
	comments  *CommentService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.OpenDB(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	c := cache.New(rdb)

	pub := &testutil.PublisherStub{}
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	social := NewSocialService(
		repository.NewFollowRepository(db),
		repository.NewLikeRepository(db),
		userRepo, postRepo, c, pub,
	)

	return &env{
		db:        db,
		redis:     mr,
		publisher: pub,
		users:     NewUserService(userRepo, c, pub),
		posts:     NewPostService(postRepo, userRepo, c, pub),
		social:    social,
		comments:  NewCommentService(repository.NewCommentRepository(db), postRepo, userRepo, c, pub),
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func assertRecent(t *testing.T, ts time.Time) {
	t.Helper()
	assert.Equal(t, time.UTC, ts.Location())
	assert.WithinDuration(t, time.Now(), ts, 5*time.Second)
	assert.Zero(t, ts.Nanosecond()%1000)
}
