package user

import (
	"time"

	"github.com/google/uuid"
)

// APIUsage is an append-only record of one tracked request. It is purely
// observational; nothing in the workflow reads it back.
type APIUsage struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Endpoint    string    `gorm:"not null" json:"endpoint"`
	RequestType string    `gorm:"not null" json:"request_type"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
}

func (APIUsage) TableName() string { return "api_usage" }

// UserStats is the denormalized per-account counters row backing the admin
// dashboard. Counters are upserted, never authoritative.
type UserStats struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	APIRequests   int64     `gorm:"not null;default:0;column:api_requests_count" json:"api_requests_count"`
	LessonsCount  int64     `gorm:"not null;default:0;column:lessons_created_count" json:"lessons_created_count"`
	StudentsCount int64     `gorm:"not null;default:0;column:students_count" json:"students_count"`
	GroupsCount   int64     `gorm:"not null;default:0;column:groups_count" json:"groups_count"`
	LastUpdated   time.Time `gorm:"not null" json:"last_updated"`
}

func (UserStats) TableName() string { return "user_stats" }
