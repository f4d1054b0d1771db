package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/blog-platform-backend/slug"
)

// Category is a named tag for posts. The slug is derived from the name on
// every save, so it always reflects the current name.
type Category struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name        string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
	Slug        string    `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
	Description *string   `json:"description,omitempty" db:"description" gorm:"type:text"`
	UserID      uuid.UUID `json:"user" db:"user_id" gorm:"type:uuid;not null"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// BeforeSave recomputes the slug from the current name.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.Slug = slug.Make(c.Name)
	return nil
}
