package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/rpupo63/blog-platform-backend/auth"
	"github.com/rpupo63/blog-platform-backend/database"
	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rpupo63/blog-platform-backend/models"
)

type postHandler struct {
	responder   Responder
	logger      zerolog.Logger
	postRepo    *database.PostRepo
	commentRepo *database.CommentRepo
	uploadDir   string
	maxUpload   int64
}

func newPostHandler(postRepo *database.PostRepo, commentRepo *database.CommentRepo, uploadDir string, maxUpload int64, dev bool) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder:   NewResponder(logger, dev),
		logger:      logger,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		uploadDir:   uploadDir,
		maxUpload:   maxUpload,
	}
}

type postRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	Image     string   `json:"image"`
	Published *bool    `json:"published"`
	Tags      []string `json:"tags"`
}

type commentRequest struct {
	Text string `json:"text"`
}

// postIDParam parses the {id} path parameter. A malformed id reads as a
// missing resource, not a bad request.
func postIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errs.NewNotFoundError("Resource not found")
	}
	return id, nil
}

// canMutate implements the owner-or-admin rule.
func canMutate(identity auth.Identity, ownerID uuid.UUID) bool {
	return identity.UserID == ownerID || identity.Role == models.RoleAdmin
}

// getPosts lists posts through the typed filter builder with field
// selection, sorting, and pagination.
func (h postHandler) getPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := parsePostQuery(r.URL.Query())

		posts, total, err := h.postRepo.Search(query)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "posts", err))
			return
		}

		page, limit := query.Window()
		pagination := &Pagination{}
		if int64(page*limit) < total {
			pagination.Next = &PageWindow{Page: page + 1, Limit: limit}
		}
		if page > 1 {
			pagination.Prev = &PageWindow{Page: page - 1, Limit: limit}
		}

		h.responder.WriteList(w, len(posts), pagination, posts)
	}
}

// getPost returns a single post with author, category, and comment authors
// populated.
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "post", err))
			return
		}

		h.responder.WriteData(w, post)
	}
}

// createPost persists a new post authored by the caller.
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromRequest(r)

		var req postRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		categoryID, err := uuid.Parse(req.Category)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("Please select a category"))
			return
		}

		post := models.Post{
			Title:      req.Title,
			Content:    req.Content,
			CategoryID: categoryID,
			UserID:     identity.UserID,
			Image:      req.Image,
			Published:  true,
			Tags:       datatypes.JSONSlice[string](req.Tags),
		}
		if req.Published != nil {
			post.Published = *req.Published
		}
		if post.Tags == nil {
			post.Tags = datatypes.JSONSlice[string]{}
		}

		// the slug is the post's only unique column, so a duplicate key
		// here always means a slug collision
		if err := h.postRepo.Add(&post); err != nil {
			h.responder.WriteError(w, errs.FromDatabase("create", "slug", err))
			return
		}

		created, err := h.postRepo.FindByID(post.ID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "post", err))
			return
		}

		h.responder.WriteCreated(w, created)
	}
}

// updatePost applies a partial update after the owner-or-admin check.
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromRequest(r)

		postID, err := postIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "post", err))
			return
		}

		if !canMutate(identity, post.UserID) {
			h.responder.WriteError(w, errs.NewForbiddenError("Not authorized to update this post"))
			return
		}

		var req postRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Title != "" {
			post.Title = req.Title
		}
		if req.Content != "" {
			post.Content = req.Content
		}
		if req.Category != "" {
			categoryID, err := uuid.Parse(req.Category)
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("Please select a category"))
				return
			}
			post.CategoryID = categoryID
		}
		if req.Image != "" {
			post.Image = req.Image
		}
		if req.Published != nil {
			post.Published = *req.Published
		}
		if req.Tags != nil {
			post.Tags = datatypes.JSONSlice[string](req.Tags)
		}

		if err := h.postRepo.Update(post); err != nil {
			h.responder.WriteError(w, errs.FromDatabase("update", "slug", err))
			return
		}

		updated, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "post", err))
			return
		}

		h.responder.WriteData(w, updated)
	}
}

// deletePost removes the post and its stored image (unless it is the
// default placeholder).
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromRequest(r)

		postID, err := postIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "post", err))
			return
		}

		if !canMutate(identity, post.UserID) {
			h.responder.WriteError(w, errs.NewForbiddenError("Not authorized to delete this post"))
			return
		}

		h.removeStoredImage(post.Image)

		if err := h.postRepo.Delete(postID); err != nil {
			h.responder.WriteError(w, errs.FromDatabase("delete", "post", err))
			return
		}

		h.responder.WriteData(w, struct{}{})
	}
}

// removeStoredImage deletes an uploaded image file. The default
// placeholder is never touched; a missing file is not an error.
func (h postHandler) removeStoredImage(image string) {
	if image == "" || image == models.DefaultPostImage {
		return
	}
	path := filepath.Join(h.uploadDir, filepath.Base(image))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		h.logger.Warn().Err(err).Str("image", image).Msg("failed to remove stored image")
	}
}

// addComment prepends a comment authored by the caller.
func (h postHandler) addComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromRequest(r)

		postID, err := postIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "post", err))
			return
		}

		var req commentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		comment := models.Comment{
			PostID: post.ID,
			UserID: identity.UserID,
			Text:   req.Text,
		}
		if err := h.commentRepo.Add(&comment); err != nil {
			h.responder.WriteError(w, errs.FromDatabase("create", "comment", err))
			return
		}

		created, err := h.commentRepo.FindByIDWithUser(post.ID, comment.ID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "comment", err))
			return
		}

		h.responder.WriteCreated(w, created)
	}
}

// removeComment deletes a comment when the caller is its author, the post
// author, or an admin.
func (h postHandler) removeComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromRequest(r)

		postID, err := postIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFoundError("Resource not found"))
			return
		}

		post, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "post", err))
			return
		}

		comment, err := h.commentRepo.FindByID(postID, commentID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "comment", err))
			return
		}

		if comment.UserID != identity.UserID && !canMutate(identity, post.UserID) {
			h.responder.WriteError(w, errs.NewForbiddenError("Not authorized to delete this comment"))
			return
		}

		if err := h.commentRepo.Delete(postID, commentID); err != nil {
			h.responder.WriteError(w, errs.FromDatabase("delete", "comment", err))
			return
		}

		h.responder.WriteData(w, struct{}{})
	}
}

// likePost inserts the caller into the like list. Liking twice is a 400.
func (h postHandler) likePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromRequest(r)

		postID, err := postIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "post", err))
			return
		}

		if post.HasLikeFrom(identity.UserID) {
			h.responder.WriteError(w, errs.NewBadRequestError("Post already liked"))
			return
		}

		if err := h.postRepo.AddLike(postID, identity.UserID); err != nil {
			h.responder.WriteError(w, errs.FromDatabase("create", "like", err))
			return
		}

		likes, err := h.postRepo.LikeIDs(postID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "likes", err))
			return
		}

		h.responder.WriteData(w, likes)
	}
}

// unlikePost removes the caller from the like list. Unliking a post never
// liked is a 400.
func (h postHandler) unlikePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromRequest(r)

		postID, err := postIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "post", err))
			return
		}

		if !post.HasLikeFrom(identity.UserID) {
			h.responder.WriteError(w, errs.NewBadRequestError("Post has not yet been liked"))
			return
		}

		if err := h.postRepo.RemoveLike(postID, identity.UserID); err != nil {
			h.responder.WriteError(w, errs.FromDatabase("delete", "like", err))
			return
		}

		likes, err := h.postRepo.LikeIDs(postID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "likes", err))
			return
		}

		h.responder.WriteData(w, likes)
	}
}
