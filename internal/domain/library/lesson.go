package library

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lesson is an immutable library snapshot of a completed differentiation.
// SessionID is a trace reference only; deleting the session nulls it but the
// lesson persists.
type Lesson struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	SessionID             *uuid.UUID `gorm:"type:uuid;index" json:"session_id,omitempty"`
	Title                 string     `gorm:"not null" json:"title"`
	OriginalMaterial      string     `gorm:"type:text;column:original_material" json:"original_material"`
	DifferentiatedContent string     `gorm:"type:text;not null;column:differentiated_content" json:"differentiated_content"`
	StudentsInvolved      string     `gorm:"type:text;column:students_involved" json:"students_involved"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lesson) TableName() string { return "lesson" }
