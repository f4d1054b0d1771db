package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a keyed child row of a post. Removal is delete-by-id rather
// than splice-by-index.
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	PostID    uuid.UUID `json:"postId" db:"post_id" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"userId" db:"user_id" gorm:"type:uuid;not null"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Text      string    `json:"text" db:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
