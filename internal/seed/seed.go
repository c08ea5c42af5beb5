package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"glowup/internal/database"
	"glowup/internal/middleware"
	"glowup/internal/models"
	"glowup/internal/validation"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Defaults applied by DefaultOptions and NewFactory.
const (
	DefaultUsers          = 50
	DefaultPostsPerUser   = 4
	DefaultFollowsPerUser = 8
	DefaultMaxDays        = 90
	DefaultBatchSize      = 100
)

// Options configures a seeding run. It can be read from YAML with LoadOptions.
type Options struct {
	Users           int   `yaml:"users" validate:"min=1,max=100000"`
	PostsPerUser    int   `yaml:"posts_per_user" validate:"min=0,max=1000"`
	FollowsPerUser  int   `yaml:"follows_per_user" validate:"min=0"`
	LikesPerPost    int   `yaml:"likes_per_post" validate:"min=0"`
	CommentsPerPost int   `yaml:"comments_per_post" validate:"min=0"`
	MaxDays         int   `yaml:"max_days" validate:"min=1,max=3650"`
	BatchSize       int   `yaml:"batch_size" validate:"min=1"`
	RandSeed        int64 `yaml:"rand_seed"`
	Clean           bool  `yaml:"clean"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Users:           DefaultUsers,
		PostsPerUser:    DefaultPostsPerUser,
		FollowsPerUser:  DefaultFollowsPerUser,
		LikesPerPost:    5,
		CommentsPerPost: 3,
		MaxDays:         DefaultMaxDays,
		BatchSize:       DefaultBatchSize,
	}
}

// LoadOptions reads options from a YAML file on top of DefaultOptions.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read seed options: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse seed options: %w", err)
	}
	return opts, opts.Validate()
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	return validation.Struct(o)
}

// Result counts the rows a run created.
type Result struct {
	Users    int
	Posts    int
	Details  int
	Follows  int
	Likes    int
	Comments int
}

// Seeder writes generated data to the database.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

// NewSeeder returns a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db:      db,
		opts:    opts,
		factory: NewFactory(opts.RandSeed, opts.MaxDays),
	}
}

// Run seeds users, posts with their detail rows, follows, likes and comments.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	if err := s.opts.Validate(); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	if s.opts.Clean {
		if err := ClearAll(db); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
	}

	res := &Result{}

	users, err := s.seedUsers(db)
	if err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	res.Users = len(users)
	middleware.Logger.Info("Seeded users", slog.Int("count", res.Users))

	posts, details, err := s.seedPosts(db, users)
	if err != nil {
		return nil, fmt.Errorf("seed posts: %w", err)
	}
	res.Posts, res.Details = len(posts), details
	middleware.Logger.Info("Seeded posts", slog.Int("count", res.Posts), slog.Int("details", details))

	if res.Follows, err = s.seedFollows(db, users); err != nil {
		return nil, fmt.Errorf("seed follows: %w", err)
	}
	if res.Likes, err = s.seedLikes(db, users, posts); err != nil {
		return nil, fmt.Errorf("seed likes: %w", err)
	}
	if res.Comments, err = s.seedComments(db, users, posts); err != nil {
		return nil, fmt.Errorf("seed comments: %w", err)
	}

	middleware.Logger.Info("Seeding complete",
		slog.Int("follows", res.Follows),
		slog.Int("likes", res.Likes),
		slog.Int("comments", res.Comments),
	)
	return res, nil
}

func (s *Seeder) seedUsers(db *gorm.DB) ([]*models.User, error) {
	users := make([]*models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		users = append(users, s.factory.BuildUser())
	}
	if err := db.CreateInBatches(users, s.opts.BatchSize).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// seedPosts cycles through every post type so each one is represented.
func (s *Seeder) seedPosts(db *gorm.DB, users []*models.User) ([]*models.Post, int, error) {
	posts := make([]*models.Post, 0, len(users)*s.opts.PostsPerUser)
	for _, user := range users {
		for j := 0; j < s.opts.PostsPerUser; j++ {
			postType := models.PostTypes[len(posts)%len(models.PostTypes)]
			posts = append(posts, s.factory.BuildPost(user, postType))
		}
	}
	if len(posts) == 0 {
		return posts, 0, nil
	}
	if err := db.Omit(clause.Associations).CreateInBatches(posts, s.opts.BatchSize).Error; err != nil {
		return nil, 0, err
	}

	var (
		beforeAfters []*models.BeforeAfter
		progressLogs []*models.ProgressLog
		routines     []*models.Routine
		details      int
	)
	for _, post := range posts {
		if !post.PostType.HasDetail() {
			continue
		}
		details++
		switch post.PostType {
		case models.PostTypeBeforeAfter:
			beforeAfters = append(beforeAfters, s.factory.BuildBeforeAfter(post))
		case models.PostTypeProgress:
			progressLogs = append(progressLogs, s.factory.BuildProgressLog(post))
		case models.PostTypeRoutine:
			routines = append(routines, s.factory.BuildRoutine(post))
		}
	}

	if len(beforeAfters) > 0 {
		if err := db.CreateInBatches(beforeAfters, s.opts.BatchSize).Error; err != nil {
			return nil, 0, err
		}
	}
	if len(progressLogs) > 0 {
		if err := db.CreateInBatches(progressLogs, s.opts.BatchSize).Error; err != nil {
			return nil, 0, err
		}
	}
	if len(routines) > 0 {
		if err := db.CreateInBatches(routines, s.opts.BatchSize).Error; err != nil {
			return nil, 0, err
		}
	}
	return posts, details, nil
}

// seedFollows gives each user up to FollowsPerUser distinct followees, never itself.
func (s *Seeder) seedFollows(db *gorm.DB, users []*models.User) (int, error) {
	n := len(users)
	perUser := min(s.opts.FollowsPerUser, n-1)
	if perUser <= 0 {
		return 0, nil
	}

	follows := make([]*models.Follow, 0, n*perUser)
	for i, user := range users {
		start := s.factory.Intn(n - 1)
		for k := 0; k < perUser; k++ {
			offset := 1 + (start+k)%(n-1)
			follows = append(follows, &models.Follow{
				FollowerID:  user.ID,
				FollowingID: users[(i+offset)%n].ID,
			})
		}
	}
	if err := db.Omit(clause.Associations).CreateInBatches(follows, s.opts.BatchSize).Error; err != nil {
		return 0, err
	}
	return len(follows), nil
}

func (s *Seeder) seedLikes(db *gorm.DB, users []*models.User, posts []*models.Post) (int, error) {
	n := len(users)
	var likes []*models.Like
	for _, post := range posts {
		count := s.factory.Intn(min(s.opts.LikesPerPost, n) + 1)
		start := s.factory.Intn(n)
		for k := 0; k < count; k++ {
			likes = append(likes, &models.Like{
				UserID: users[(start+k)%n].ID,
				PostID: post.ID,
			})
		}
	}
	if len(likes) == 0 {
		return 0, nil
	}
	if err := db.Omit(clause.Associations).CreateInBatches(likes, s.opts.BatchSize).Error; err != nil {
		return 0, err
	}
	return len(likes), nil
}

func (s *Seeder) seedComments(db *gorm.DB, users []*models.User, posts []*models.Post) (int, error) {
	var comments []*models.Comment
	for _, post := range posts {
		count := s.factory.Intn(s.opts.CommentsPerPost + 1)
		for k := 0; k < count; k++ {
			author := users[s.factory.Intn(len(users))]
			comments = append(comments, s.factory.BuildComment(author, post))
		}
	}
	if len(comments) == 0 {
		return 0, nil
	}
	if err := db.CreateInBatches(comments, s.opts.BatchSize).Error; err != nil {
		return 0, err
	}
	return len(comments), nil
}

// ClearAll deletes every row, children first.
func ClearAll(db *gorm.DB) error {
	middleware.Logger.Info("Clearing existing data")
	all := database.PersistentModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(all[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
