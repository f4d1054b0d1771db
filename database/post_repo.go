package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/blog-platform-backend/models"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// authorFields limits the populated author to its public listing fields.
func authorFields(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "name", "avatar")
}

// categoryFields limits the populated category to id and name.
func categoryFields(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "name")
}

// likesNewestFirst keeps the projected like list in unshift order. The
// autoincrement key is the sort key; created_at alone ties for rows
// inserted in the same tick.
func likesNewestFirst(tx *gorm.DB) *gorm.DB {
	return tx.Order("id DESC")
}

// Search returns one page of posts matching the query plus the total match
// count, with author and category populated.
func (r *PostRepo) Search(q PostQuery) ([]*models.Post, int64, error) {
	var total int64
	err := r.db.Model(&models.Post{}).Scopes(q.applyFilters).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	page, limit := q.Window()

	tx := r.db.Scopes(q.applyFilters)
	if cols := q.selectColumns(); cols != nil {
		tx = tx.Select(cols)
	}
	for _, order := range q.orderClauses() {
		tx = tx.Order(order)
	}
	tx = tx.Offset((page - 1) * limit).Limit(limit).
		Preload("User", authorFields).
		Preload("Category", categoryFields).
		Preload("Likes", likesNewestFirst)

	var posts []*models.Post
	if err := tx.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// FindByID returns a post by its ID with author, category, likes, and
// comments (with their authors) populated.
func (r *PostRepo) FindByID(id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.
		Preload("User", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name", "avatar", "bio")
		}).
		Preload("Category", categoryFields).
		Preload("Likes", likesNewestFirst).
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			// id breaks created_at ties so the order is deterministic
			return tx.Order("created_at DESC, id DESC")
		}).
		Preload("Comments.User", authorFields).
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Add inserts a new post into the database
func (r *PostRepo) Add(post *models.Post) error {
	return r.db.Omit(clause.Associations).Create(post).Error
}

// Update saves a post's own columns. Associations are managed through
// their own repos and AddLike/RemoveLike.
func (r *PostRepo) Update(post *models.Post) error {
	return r.db.Omit(clause.Associations).Save(post).Error
}

// Delete removes a post; comments and likes go with it.
func (r *PostRepo) Delete(id uuid.UUID) error {
	if err := r.db.Delete(&models.Comment{}, "post_id = ?", id).Error; err != nil {
		return err
	}
	if err := r.db.Delete(&models.Like{}, "post_id = ?", id).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Post{}, "id = ?", id).Error
}

// AddLike records a like. The handler guards against duplicates first; the
// unique index backstops a race between two identical requests.
func (r *PostRepo) AddLike(postID, userID uuid.UUID) error {
	return r.db.Create(&models.Like{PostID: postID, UserID: userID}).Error
}

// RemoveLike deletes a like row.
func (r *PostRepo) RemoveLike(postID, userID uuid.UUID) error {
	return r.db.Delete(&models.Like{}, "post_id = ? AND user_id = ?", postID, userID).Error
}

// LikeIDs returns the ids of users who like the post, newest first.
func (r *PostRepo) LikeIDs(postID uuid.UUID) ([]uuid.UUID, error) {
	var likes []models.Like
	err := r.db.Where("post_id = ?", postID).Order("id DESC").Find(&likes).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(likes))
	for _, like := range likes {
		ids = append(ids, like.UserID)
	}
	return ids, nil
}
