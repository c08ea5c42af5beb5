package database

import "glowup/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models,
// parents before children.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.BeforeAfter{},
		&models.ProgressLog{},
		&models.Routine{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
	}
}
