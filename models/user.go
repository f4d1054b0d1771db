package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user can hold. Admins may mutate any resource.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account. The password column holds a bcrypt
// hash and is never serialized.
type User struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null"`
	Email     string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	Password  string    `json:"-" db:"password" gorm:"type:text;not null"`
	Avatar    *string   `json:"avatar,omitempty" db:"avatar" gorm:"type:text"`
	Bio       *string   `json:"bio,omitempty" db:"bio" gorm:"type:text"`
	Location  *string   `json:"location,omitempty" db:"location" gorm:"type:text"`
	Website   *string   `json:"website,omitempty" db:"website" gorm:"type:text"`
	Role      string    `json:"role" db:"role" gorm:"type:text;not null;default:user"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the ID app-side so sqlite behaves like postgres.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
