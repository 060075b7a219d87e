package roster

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Group struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Group) TableName() string { return "student_group" }

// GroupMember joins groups to students. A student appears at most once per
// group; overlapping groups are deduped at session creation, not here.
type GroupMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index:idx_group_member,unique,priority:1" json:"group_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index:idx_group_member,unique,priority:2" json:"student_id"`
}

func (GroupMember) TableName() string { return "group_member" }
