package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rpupo63/blog-platform-backend/slug"
)

// DefaultPostImage is the placeholder image assigned to posts without an
// uploaded image. It is never deleted from storage.
const DefaultPostImage = "/images/defaultimage.jpg"

// Post represents a blog post with its embedded comment and like
// associations. Likes are exposed in JSON as an ordered list of user ids,
// newest first, projected by AfterFind.
type Post struct {
	ID         uuid.UUID                    `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title      string                       `json:"title" db:"title" gorm:"type:text;not null"`
	Slug       string                       `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
	Content    string                       `json:"content" db:"content" gorm:"type:text;not null"`
	Image      string                       `json:"image" db:"image" gorm:"type:text;not null;default:'/images/defaultimage.jpg'"`
	CategoryID uuid.UUID                    `json:"-" db:"category_id" gorm:"type:uuid;not null"`
	Category   *Category                    `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID"`
	UserID     uuid.UUID                    `json:"-" db:"user_id" gorm:"type:uuid;not null"`
	User       *User                        `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Published  bool                         `json:"published" db:"published" gorm:"not null"`
	Tags       datatypes.JSONSlice[string]  `json:"tags" db:"tags"`
	Likes      []Like                       `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	LikeIDs    []uuid.UUID                  `json:"likes" gorm:"-"`
	Comments   []Comment                    `json:"comments,omitempty" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time                    `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time                    `json:"updatedAt" db:"updated_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Image == "" {
		p.Image = DefaultPostImage
	}
	return nil
}

// BeforeSave recomputes the slug from the current title. UpdatedAt is
// refreshed by gorm on every save.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	p.Slug = slug.Make(p.Title)
	return nil
}

// AfterFind projects the preloaded like rows into the ordered user-id list
// the API exposes. The slice is always non-nil so it serializes as [].
func (p *Post) AfterFind(tx *gorm.DB) error {
	p.LikeIDs = make([]uuid.UUID, 0, len(p.Likes))
	for _, like := range p.Likes {
		p.LikeIDs = append(p.LikeIDs, like.UserID)
	}
	return nil
}

// HasLikeFrom reports whether the user already likes the post. Only valid
// when likes are loaded.
func (p *Post) HasLikeFrom(userID uuid.UUID) bool {
	for _, like := range p.Likes {
		if like.UserID == userID {
			return true
		}
	}
	return false
}
