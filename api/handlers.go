package api

import (
	"github.com/rpupo63/blog-platform-backend/auth"
	"github.com/rpupo63/blog-platform-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, tokens auth.TokenSource, uploadDir string, maxUpload int64, dev bool) *routeHandlers {
	return &routeHandlers{
		authHandler:     newAuthHandler(db.UserRepo(), tokens, dev),
		postHandler:     newPostHandler(db.PostRepo(), db.CommentRepo(), uploadDir, maxUpload, dev),
		categoryHandler: newCategoryHandler(db.CategoryRepo(), dev),
	}
}
