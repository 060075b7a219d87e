package roster

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student is one learner profile owned by a single teacher account.
// Accommodations and needs are free text; they flow into prompts verbatim.
type Student struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	FirstName        string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName         string    `gorm:"not null;column:last_name" json:"last_name"`
	GradeLevel       string    `gorm:"column:grade_level" json:"grade_level"`
	Accommodations   string    `gorm:"type:text;column:accommodations" json:"accommodations"`
	NeedsDescription string    `gorm:"type:text;column:needs_description" json:"needs_description"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Student) TableName() string { return "student" }

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
