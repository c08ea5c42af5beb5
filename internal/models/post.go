// Package models contains data structures for the application's domain models.
package models

import "time"

// PostType classifies a post and determines which detail row it carries.
type PostType string

const (
	PostTypeGeneral     PostType = "general"
	PostTypeBeforeAfter PostType = "before_after"
	PostTypeProgress    PostType = "progress"
	PostTypeRoutine     PostType = "routine"
)

// PostTypes lists every accepted post type.
var PostTypes = []PostType{PostTypeGeneral, PostTypeBeforeAfter, PostTypeProgress, PostTypeRoutine}

// HasDetail reports whether posts of this type expect a detail row.
func (t PostType) HasDetail() bool {
	return t == PostTypeBeforeAfter || t == PostTypeProgress || t == PostTypeRoutine
}

// Post represents a piece of content published by a user.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_posts_user_created,priority:1" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Content   *string   `gorm:"type:text" json:"content"`
	ImageURL  *string   `gorm:"column:image_url" json:"image_url"`
	PostType  PostType  `gorm:"type:varchar(20);not null;default:'general'" json:"post_type"`
	CreatedAt time.Time `gorm:"index:idx_posts_user_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Detail rows, loaded for the matching post type.
	BeforeAfter *BeforeAfter `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"before_after,omitempty"`
	ProgressLog *ProgressLog `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"progress_log,omitempty"`
	Routine     *Routine     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"routine,omitempty"`

	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->;-:migration" json:"comments_count"`
}

// TableName specifies the table name for GORM
func (Post) TableName() string {
	return "posts"
}
