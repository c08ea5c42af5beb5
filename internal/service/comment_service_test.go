package service

import (
	"context"
	"strings"
	"testing"

	"glowup/internal/models"
	"glowup/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(nil, noopPostRepo(), noopUserRepo(), nil, nil)
	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1})
		appErr := assertValidationError(t, err)
		assert.Equal(t, []string{"content"}, fieldNames(appErr))
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1, Content: strings.Repeat("x", 1001)})
		assertValidationError(t, err)
	})

	t.Run("update without id", func(t *testing.T) {
		t.Parallel()
		_, err := svc.UpdateComment(ctx, UpdateCommentInput{Content: "hi"})
		appErr := assertValidationError(t, err)
		assert.Equal(t, []string{"id"}, fieldNames(appErr))
	})

	t.Run("zero ids", func(t *testing.T) {
		t.Parallel()
		_, err := svc.DeleteComment(ctx, 0)
		assertValidationError(t, err)
		_, err = svc.GetPostComments(ctx, 0)
		assertValidationError(t, err)
	})
}

func TestCommentService_PostNotFoundPropagates(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getTypeFn = func(_ context.Context, id uint) (models.PostType, error) {
		return "", models.NewNotFoundError("Post", id)
	}
	svc := NewCommentService(nil, posts, noopUserRepo(), nil, nil)

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 1, PostID: 99, Content: "hi"})
	assertErrorCode(t, err, models.CodeNotFound)

	_, err = svc.GetPostComments(context.Background(), 99)
	assertErrorCode(t, err, models.CodeNotFound)
}

func TestCommentService_Lifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.users.CreateUser(ctx, CreateUserInput{Username: "talker", Email: "talker@example.com"})
	require.NoError(t, err)
	post, err := e.posts.CreatePost(ctx, CreatePostInput{UserID: user.ID, PostType: models.PostTypeProgress})
	require.NoError(t, err)

	empty, err := e.comments.GetPostComments(ctx, post.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first, err := e.comments.CreateComment(ctx, CreateCommentInput{UserID: user.ID, PostID: post.ID, Content: "first"})
	require.NoError(t, err)
	assertRecent(t, first.CreatedAt)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)
	second, err := e.comments.CreateComment(ctx, CreateCommentInput{UserID: user.ID, PostID: post.ID, Content: "second"})
	require.NoError(t, err)

	_, err = e.comments.CreateComment(ctx, CreateCommentInput{UserID: 999, PostID: post.ID, Content: "ghost"})
	assertErrorCode(t, err, models.CodeNotFound)

	comments, err := e.comments.GetPostComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, second.ID, comments[1].ID)

	edited, err := e.comments.UpdateComment(ctx, UpdateCommentInput{ID: first.ID, Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Content)
	assert.False(t, edited.UpdatedAt.Before(first.UpdatedAt))
	assert.True(t, edited.CreatedAt.Equal(first.CreatedAt))

	_, err = e.comments.UpdateComment(ctx, UpdateCommentInput{ID: 999, Content: "x"})
	assertErrorCode(t, err, models.CodeNotFound)

	withCounts, err := e.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, withCounts.CommentsCount)

	res, err := e.comments.DeleteComment(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	_, err = e.comments.DeleteComment(ctx, second.ID)
	assertErrorCode(t, err, models.CodeNotFound)

	withCounts, err = e.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, withCounts.CommentsCount)

	assert.Equal(t, []string{
		notifications.EventUserCreated,
		notifications.EventPostCreated,
		notifications.EventCommentCreated,
		notifications.EventCommentCreated,
		notifications.EventCommentUpdated,
		notifications.EventCommentDeleted,
	}, e.publisher.Types())
}
