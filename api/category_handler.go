package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/blog-platform-backend/database"
	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rpupo63/blog-platform-backend/models"
)

type categoryHandler struct {
	responder    Responder
	logger       zerolog.Logger
	categoryRepo *database.CategoryRepo
}

func newCategoryHandler(categoryRepo *database.CategoryRepo, dev bool) categoryHandler {
	logger := log.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder:    NewResponder(logger, dev),
		logger:       logger,
		categoryRepo: categoryRepo,
	}
}

type categoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// getCategories returns every category.
func (h categoryHandler) getCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "categories", err))
			return
		}

		h.responder.WriteList(w, len(categories), nil, categories)
	}
}

// getCategory returns a single category by id.
func (h categoryHandler) getCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFoundError("Resource not found"))
			return
		}

		category, err := h.categoryRepo.FindByID(categoryID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "category", err))
			return
		}

		h.responder.WriteData(w, category)
	}
}

// createCategory persists a new category created by the caller. A
// duplicate name or slug maps to 400.
func (h categoryHandler) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromRequest(r)

		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		category := models.Category{
			Name:        req.Name,
			Description: req.Description,
			UserID:      identity.UserID,
		}
		if err := h.categoryRepo.Add(&category); err != nil {
			h.responder.WriteError(w, errs.FromDatabase("create", "name", err))
			return
		}

		h.responder.WriteCreated(w, category)
	}
}

// updateCategory renames a category after the owner-or-admin check; the
// slug follows the new name.
func (h categoryHandler) updateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromRequest(r)

		categoryID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFoundError("Resource not found"))
			return
		}

		category, err := h.categoryRepo.FindByID(categoryID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "category", err))
			return
		}

		if !canMutate(identity, category.UserID) {
			h.responder.WriteError(w, errs.NewForbiddenError("Not authorized to update this category"))
			return
		}

		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Name != "" {
			category.Name = req.Name
		}
		if req.Description != nil {
			category.Description = req.Description
		}

		if err := h.categoryRepo.Update(category); err != nil {
			h.responder.WriteError(w, errs.FromDatabase("update", "name", err))
			return
		}

		h.responder.WriteData(w, category)
	}
}

// deleteCategory removes a category after the owner-or-admin check. Posts
// keep their dangling reference; cascading cleanup is out of scope.
func (h categoryHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromRequest(r)

		categoryID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFoundError("Resource not found"))
			return
		}

		category, err := h.categoryRepo.FindByID(categoryID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "category", err))
			return
		}

		if !canMutate(identity, category.UserID) {
			h.responder.WriteError(w, errs.NewForbiddenError("Not authorized to delete this category"))
			return
		}

		if err := h.categoryRepo.Delete(categoryID); err != nil {
			h.responder.WriteError(w, errs.FromDatabase("delete", "category", err))
			return
		}

		h.responder.WriteData(w, struct{}{})
	}
}
