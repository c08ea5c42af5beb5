//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"glowup/internal/database"
	"glowup/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgres starts a throwaway PostgreSQL, applies the SQL migrations
// and returns a GORM handle.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("glowup_test"),
		tcpostgres.WithUsername("glowup"),
		tcpostgres.WithPassword("glowup"),
		tc.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tc.TerminateContainer(ctr) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrator, err := database.NewMigrator(dsn)
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	status, err := migrator.Status()
	require.NoError(t, err)
	assert.False(t, status.Dirty)
	require.NoError(t, migrator.Close())

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	})
	require.NoError(t, err)
	return db
}

func TestPostgres_RepositoriesAgainstMigratedSchema(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	follows := NewFollowRepository(db)
	likes := NewLikeRepository(db)
	comments := NewCommentRepository(db)

	alice := &models.User{Username: "alice", Email: "alice@example.com"}
	bob := &models.User{Username: "bob", Email: "bob@example.com"}
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))
	assertCode(t, users.Create(ctx, &models.User{Username: "alice", Email: "x@example.com"}), models.CodeConflict)

	post := &models.Post{UserID: bob.ID, PostType: models.PostTypeRoutine}
	require.NoError(t, posts.Create(ctx, post))
	assertCode(t, posts.Create(ctx, &models.Post{UserID: 9999, PostType: models.PostTypeGeneral}), models.CodeNotFound)

	require.NoError(t, posts.CreateRoutine(ctx, &models.Routine{
		PostID:      post.ID,
		RoutineType: models.RoutineTypeWorkout,
		Title:       "Push day",
		Description: "chest and triceps",
		Steps:       []string{"bench", "dips"},
	}))
	assertCode(t, posts.CreateRoutine(ctx, &models.Routine{
		PostID:      post.ID,
		RoutineType: models.RoutineTypeWorkout,
		Title:       "again",
		Description: "again",
		Steps:       []string{"x"},
	}), models.CodeConflict)

	require.NoError(t, follows.Create(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}))
	assertCode(t, follows.Create(ctx, &models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}), models.CodeConflict)

	require.NoError(t, likes.Create(ctx, &models.Like{UserID: alice.ID, PostID: post.ID}))
	require.NoError(t, comments.Create(ctx, &models.Comment{UserID: alice.ID, PostID: post.ID, Content: "strong"}))

	feed, err := posts.ListFeed(ctx, alice.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, 1, feed[0].LikesCount)
	assert.Equal(t, 1, feed[0].CommentsCount)
	require.NotNil(t, feed[0].Routine)
	assert.Equal(t, []string{"bench", "dips"}, feed[0].Routine.Steps)

	require.NoError(t, db.Delete(&models.User{}, bob.ID).Error)
	var remaining int64
	require.NoError(t, db.Model(&models.Routine{}).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
