package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/blog-platform-backend/models"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// FindByID returns a comment by id scoped to its post, so a comment id
// from another post reads as not found.
func (r *CommentRepo) FindByID(postID, commentID uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.First(&comment, "id = ? AND post_id = ?", commentID, postID).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindByIDWithUser returns a comment with its author populated.
func (r *CommentRepo) FindByIDWithUser(postID, commentID uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.
		Preload("User", authorFields).
		First(&comment, "id = ? AND post_id = ?", commentID, postID).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Add inserts a new comment into the database
func (r *CommentRepo) Add(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// Delete removes a comment by id, scoped to its post.
func (r *CommentRepo) Delete(postID, commentID uuid.UUID) error {
	return r.db.Delete(&models.Comment{}, "id = ? AND post_id = ?", commentID, postID).Error
}
