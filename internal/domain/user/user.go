package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a teacher account. IsActive starts false; an admin flips it from the
// approval queue. IsAdmin gates the admin surface only, everything else is
// scoped per row by UserID ownership.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password  string    `gorm:"not null;column:password" json:"-"`
	FirstName string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName  string    `gorm:"not null;column:last_name" json:"last_name"`
	IsAdmin   bool      `gorm:"not null;default:false;column:is_admin" json:"is_admin"`
	IsActive  bool      `gorm:"not null;default:false;column:is_active" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
