// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"glowup/internal/database"
	"glowup/internal/models"
	"glowup/internal/notifications"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixtureSeq atomic.Uint64

// OpenDB returns a fresh in-memory SQLite database with the schema applied.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with a unique username and email.
func CreateUser(t testing.TB, db *gorm.DB) *models.User {
	t.Helper()
	n := fixtureSeq.Add(1)
	user := &models.User{
		Username: fmt.Sprintf("user_%d", n),
		Email:    fmt.Sprintf("user_%d@example.com", n),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePost inserts a post of the given type authored by userID.
func CreatePost(t testing.TB, db *gorm.DB, userID uint, postType models.PostType) *models.Post {
	t.Helper()
	content := fmt.Sprintf("post %d", fixtureSeq.Add(1))
	post := &models.Post{UserID: userID, Content: &content, PostType: postType}
	require.NoError(t, db.Omit("User", "BeforeAfter", "ProgressLog", "Routine").Create(post).Error)
	return post
}

// CreatePostAt inserts a general post with a fixed creation time.
func CreatePostAt(t testing.TB, db *gorm.DB, userID uint, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{UserID: userID, PostType: models.PostTypeGeneral, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, db.Omit("User", "BeforeAfter", "ProgressLog", "Routine").Create(post).Error)
	return post
}

// Follow inserts a follow edge.
func Follow(t testing.TB, db *gorm.DB, followerID, followingID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.Follow{FollowerID: followerID, FollowingID: followingID}).Error)
}

// PublisherStub records published events in memory.
type PublisherStub struct {
	mu     sync.Mutex
	events []notifications.Event
	Err    error
}

// Publish records the event and returns Err.
func (p *PublisherStub) Publish(_ context.Context, event notifications.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.Err
}

// Backend implements notifications.Publisher.
func (p *PublisherStub) Backend() string { return "stub" }

// Close implements notifications.Publisher.
func (p *PublisherStub) Close() error { return nil }

// Types returns the recorded event types in publish order.
func (p *PublisherStub) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

// Events returns a copy of the recorded events.
func (p *PublisherStub) Events() []notifications.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notifications.Event(nil), p.events...)
}
