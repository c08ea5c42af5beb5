package models

import "time"

// RoutineType is the category of a routine post.
type RoutineType string

const (
	RoutineTypeSkincare RoutineType = "skincare"
	RoutineTypeWorkout  RoutineType = "workout"
	RoutineTypeDiet     RoutineType = "diet"
	RoutineTypeOther    RoutineType = "other"
)

// RoutineTypes lists every accepted routine type.
var RoutineTypes = []RoutineType{RoutineTypeSkincare, RoutineTypeWorkout, RoutineTypeDiet, RoutineTypeOther}

// BeforeAfter pairs two images documenting change over time. One per post.
type BeforeAfter struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PostID         uint      `gorm:"not null;uniqueIndex" json:"post_id"`
	BeforeImageURL string    `gorm:"column:before_image_url;not null" json:"before_image_url"`
	AfterImageURL  string    `gorm:"column:after_image_url;not null" json:"after_image_url"`
	Description    *string   `gorm:"size:1000" json:"description"`
	TimePeriod     *string   `gorm:"size:100" json:"time_period"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (BeforeAfter) TableName() string {
	return "before_after"
}

// ProgressLog records a measured step of progress. One per post.
type ProgressLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PostID       uint      `gorm:"not null;uniqueIndex" json:"post_id"`
	ActivityType string    `gorm:"not null;size:100" json:"activity_type"`
	Description  string    `gorm:"not null;size:1000" json:"description"`
	MetricValue  *float64  `gorm:"type:numeric" json:"metric_value"`
	MetricUnit   *string   `gorm:"size:20" json:"metric_unit"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (ProgressLog) TableName() string {
	return "progress_logs"
}

// Routine is an ordered list of steps under a typed category. One per post.
type Routine struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	PostID      uint        `gorm:"not null;uniqueIndex" json:"post_id"`
	RoutineType RoutineType `gorm:"type:varchar(20);not null" json:"routine_type"`
	Title       string      `gorm:"not null;size:200" json:"title"`
	Description string      `gorm:"type:text;not null" json:"description"`
	Steps       []string    `gorm:"serializer:json;type:jsonb;not null" json:"steps"`
	Duration    *string     `gorm:"size:100" json:"duration"`
	CreatedAt   time.Time   `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Routine) TableName() string {
	return "routines"
}
