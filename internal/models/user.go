package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleProctor UserRole = "proctor"
)

// ValidRole reports whether r is one of the closed set of roles.
func ValidRole(r UserRole) bool {
	return r == RoleStudent || r == RoleProctor
}

type User struct {
	ID    uint     `json:"id" gorm:"primaryKey"`
	Name  string   `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Email string   `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	Role  UserRole `json:"role" gorm:"not null;default:student;size:20" validate:"required,user_role"`

	// Bcrypt hash. Never serialized.
	Password string `json:"-" gorm:"not null;size:100"`

	// Profile info
	ProfilePicture *string `json:"profile_picture" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
