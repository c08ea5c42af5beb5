package repository

import (
	"context"
	"testing"
	"time"

	"glowup/internal/models"
	"glowup/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := testutil.CreateUser(t, db)
	b := testutil.CreateUser(t, db)

	follow := &models.Follow{FollowerID: a.ID, FollowingID: b.ID}
	require.NoError(t, repo.Create(ctx, follow))
	assert.NotZero(t, follow.ID)

	err := repo.Create(ctx, &models.Follow{FollowerID: a.ID, FollowingID: b.ID})
	assertCode(t, err, models.CodeConflict)

	require.NoError(t, repo.Create(ctx, &models.Follow{FollowerID: b.ID, FollowingID: a.ID}))

	err = repo.Create(ctx, &models.Follow{FollowerID: a.ID, FollowingID: 999})
	assertCode(t, err, models.CodeNotFound)

	var edges int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&edges).Error)
	assert.Equal(t, int64(2), edges)

	require.NoError(t, repo.Delete(ctx, a.ID, b.ID))
	assertCode(t, repo.Delete(ctx, a.ID, b.ID), models.CodeNotFound)
}

func TestLikeRepository(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db)
	post := testutil.CreatePost(t, db, user.ID, models.PostTypeGeneral)

	require.NoError(t, repo.Create(ctx, &models.Like{UserID: user.ID, PostID: post.ID}))
	assertCode(t, repo.Create(ctx, &models.Like{UserID: user.ID, PostID: post.ID}), models.CodeConflict)
	assertCode(t, repo.Create(ctx, &models.Like{UserID: user.ID, PostID: 999}), models.CodeNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Delete(ctx, user.ID, post.ID))
	assertCode(t, repo.Delete(ctx, user.ID, post.ID), models.CodeNotFound)

	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCommentRepository(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db)
	post := testutil.CreatePost(t, db, user.ID, models.PostTypeGeneral)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first := &models.Comment{UserID: user.ID, PostID: post.ID, Content: "first", CreatedAt: base, UpdatedAt: base}
	second := &models.Comment{UserID: user.ID, PostID: post.ID, Content: "second", CreatedAt: base, UpdatedAt: base}
	third := &models.Comment{UserID: user.ID, PostID: post.ID, Content: "third", CreatedAt: base.Add(-time.Minute), UpdatedAt: base}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, third))

	assertCode(t, repo.Create(ctx, &models.Comment{UserID: user.ID, PostID: 999, Content: "x"}), models.CodeNotFound)

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, []string{"third", "first", "second"}, []string{comments[0].Content, comments[1].Content, comments[2].Content})

	later := base.Add(time.Hour)
	updated, err := repo.UpdateContent(ctx, first.ID, "edited", later)
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.True(t, updated.UpdatedAt.Equal(later))
	assert.True(t, updated.CreatedAt.Equal(base))

	_, err = repo.UpdateContent(ctx, 999, "x", later)
	assertCode(t, err, models.CodeNotFound)

	deleted, err := repo.Delete(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, deleted.PostID)
	_, err = repo.Delete(ctx, second.ID)
	assertCode(t, err, models.CodeNotFound)

	_, err = repo.GetByID(ctx, second.ID)
	assertCode(t, err, models.CodeNotFound)

	none, err := repo.ListByPost(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
