package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type healthStatus struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// setupRoutes mounts the REST surface under /api plus the static upload
// directory.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, uploadDir string, startupTime time.Time) {
	responder := NewResponder(log.With().Str("handlerName", "routes").Logger(), false)

	r.Route("/api", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			responder.WriteData(w, healthStatus{
				Status: "API is running",
				Uptime: time.Since(startupTime).Round(time.Second).String(),
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(validateBody(responder, registerRules)).Post("/register", handlers.authHandler.register())
			r.With(validateBody(responder, loginRules)).Post("/login", handlers.authHandler.login())
			r.Get("/logout", handlers.authHandler.logout())

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.protect)
				r.Get("/me", handlers.authHandler.getMe())
				r.Put("/updatedetails", handlers.authHandler.updateDetails())
				r.With(validateBody(responder, updatePasswordRules)).Put("/updatepassword", handlers.authHandler.updatePassword())
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", handlers.postHandler.getPosts())
			r.Get("/{id}", handlers.postHandler.getPost())

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.protect)
				r.With(validateBody(responder, postRules)).Post("/", handlers.postHandler.createPost())
				r.With(validateBody(responder, postRules)).Put("/{id}", handlers.postHandler.updatePost())
				r.Delete("/{id}", handlers.postHandler.deletePost())
				r.Put("/{id}/image", handlers.postHandler.uploadPostImage())
				r.With(validateBody(responder, commentRules)).Post("/{id}/comments", handlers.postHandler.addComment())
				r.Delete("/{id}/comments/{commentID}", handlers.postHandler.removeComment())
				r.Put("/{id}/like", handlers.postHandler.likePost())
				r.Put("/{id}/unlike", handlers.postHandler.unlikePost())
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", handlers.categoryHandler.getCategories())
			r.Get("/{id}", handlers.categoryHandler.getCategory())

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.protect)
				r.With(validateBody(responder, categoryRules)).Post("/", handlers.categoryHandler.createCategory())
				r.With(validateBody(responder, categoryRules)).Put("/{id}", handlers.categoryHandler.updateCategory())
				r.Delete("/{id}", handlers.categoryHandler.deleteCategory())
			})
		})
	})

	// Uploaded images are served from a fixed public path.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)
}
