package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/blog-platform-backend/auth"
	"github.com/rpupo63/blog-platform-backend/database"
	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rpupo63/blog-platform-backend/models"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	tokens    auth.TokenSource
}

func newAuthHandler(userRepo *database.UserRepo, tokens auth.TokenSource, dev bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger, dev),
		logger:    logger,
		userRepo:  userRepo,
		tokens:    tokens,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateDetailsRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Avatar   *string `json:"avatar"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// register creates a user with a hashed password and returns a signed
// token. A duplicate email maps to 400 through the database error
// normalization.
func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user := models.User{
			Name:     req.Name,
			Email:    req.Email,
			Password: hash,
			Role:     models.RoleUser,
		}
		if err := h.userRepo.Add(&user); err != nil {
			h.responder.WriteError(w, errs.FromDatabase("create", "email", err))
			return
		}

		token, err := h.tokens.Sign(user.ID, user.Role)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("Failed to sign token"))
			return
		}

		h.responder.WriteToken(w, http.StatusCreated, token, user)
	}
}

// login verifies the credentials and returns a signed token. Unknown email
// and wrong password are indistinguishable to the caller.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		user, err := h.userRepo.FindByEmail(req.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewUnauthorizedError("Invalid credentials"))
				return
			}
			h.responder.WriteError(w, errs.FromDatabase("find", "user", err))
			return
		}

		if !auth.CheckPassword(user.Password, req.Password) {
			h.responder.WriteError(w, errs.NewUnauthorizedError("Invalid credentials"))
			return
		}

		token, err := h.tokens.Sign(user.ID, user.Role)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("Failed to sign token"))
			return
		}

		h.responder.WriteToken(w, http.StatusOK, token, user)
	}
}

// getMe returns the authenticated user's own record.
func (h authHandler) getMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromRequest(r)

		user, err := h.userRepo.FindByID(identity.UserID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "user", err))
			return
		}

		h.responder.WriteData(w, user)
	}
}

// updateDetails applies partial profile updates to the caller's record.
func (h authHandler) updateDetails() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromRequest(r)

		var req updateDetailsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		user, err := h.userRepo.FindByID(identity.UserID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "user", err))
			return
		}

		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.Email != nil {
			user.Email = *req.Email
		}
		if req.Avatar != nil {
			user.Avatar = req.Avatar
		}
		if req.Bio != nil {
			user.Bio = req.Bio
		}
		if req.Location != nil {
			user.Location = req.Location
		}
		if req.Website != nil {
			user.Website = req.Website
		}

		if err := h.userRepo.Update(user); err != nil {
			h.responder.WriteError(w, errs.FromDatabase("update", "email", err))
			return
		}

		h.responder.WriteData(w, user)
	}
}

// updatePassword replaces the caller's password after checking the current
// one, and returns a fresh token.
func (h authHandler) updatePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromRequest(r)

		var req updatePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		user, err := h.userRepo.FindByID(identity.UserID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "user", err))
			return
		}

		if !auth.CheckPassword(user.Password, req.CurrentPassword) {
			h.responder.WriteError(w, errs.NewUnauthorizedError("Password is incorrect"))
			return
		}

		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		user.Password = hash

		if err := h.userRepo.Update(user); err != nil {
			h.responder.WriteError(w, errs.FromDatabase("update", "user", err))
			return
		}

		token, err := h.tokens.Sign(user.ID, user.Role)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("Failed to sign token"))
			return
		}

		h.responder.WriteToken(w, http.StatusOK, token, user)
	}
}

// logout is a no-op server side; tokens are stateless and the client
// discards its copy.
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteData(w, struct{}{})
	}
}
