package models

import (
	"time"

	"github.com/google/uuid"
)

// Like records that a user liked a post. Deduplication happens in the
// repository before insert; the unique index is a storage-level backstop.
// The autoincrement key gives likes a strict insertion order that
// timestamps alone cannot, since rows created in the same tick would tie.
type Like struct {
	ID        uint64    `json:"-" gorm:"primaryKey;autoIncrement"`
	PostID    uuid.UUID `json:"postId" db:"post_id" gorm:"type:uuid;not null;uniqueIndex:idx_likes_post_user"`
	UserID    uuid.UUID `json:"userId" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_likes_post_user"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}
