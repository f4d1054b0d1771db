package database

import (
	"gorm.io/gorm"

	"github.com/rpupo63/blog-platform-backend/models"
)

type Database struct {
	userRepo     *UserRepo
	postRepo     *PostRepo
	categoryRepo *CategoryRepo
	commentRepo  *CommentRepo
}

// New initializes a new Database struct with each repository using a shared
// GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:     NewUserRepo(db),
		postRepo:     NewPostRepo(db),
		categoryRepo: NewCategoryRepo(db),
		commentRepo:  NewCommentRepo(db),
	}
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
	)
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}
