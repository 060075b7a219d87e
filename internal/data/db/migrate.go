package db

import (
	types "github.com/jmcalla/lessonbridge-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity + observability
		&types.User{},
		&types.APIUsage{},
		&types.UserStats{},

		// Roster
		&types.Student{},
		&types.Group{},
		&types.GroupMember{},

		// Differentiation workflow
		&types.DiffSession{},
		&types.SessionStudent{},

		// Library
		&types.Lesson{},
	)
}
