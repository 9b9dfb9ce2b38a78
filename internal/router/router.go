// Package router sets up all HTTP routes and middleware chains for the
// quillpress JSON API. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"quillpress/internal/handlers"
	"quillpress/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. Admin routes require adminToken as a bearer
// token and are rate limited by limiter.
func New(adminToken string, limiter *middleware.RateLimiter, admin *handlers.Admin, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check, no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", public.Posts)
			r.Get("/recent", public.RecentPosts)
			r.Get("/{year}/{month}/{day}/{slug}", public.Post)
		})

		r.Get("/categories", public.Categories)
		r.Get("/categories/{slug}/posts", public.CategoryPosts)
		r.Get("/tags", public.Tags)
		r.Get("/tags/{slug}/posts", public.TagPosts)

		r.Route("/archives", func(r chi.Router) {
			r.Get("/", public.Archives)
			r.Get("/{year}", public.ArchivePosts)
			r.Get("/{year}/{month}", public.ArchivePosts)
		})

		// Admin API, bearer token required.
		r.Route("/admin", func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware)
			}
			r.Use(middleware.RequireToken(adminToken))

			r.Route("/posts", func(r chi.Router) {
				r.Get("/drafts", admin.Drafts)
				r.Get("/recent", admin.Recent)
				r.Post("/", admin.PostCreate)
				r.Get("/{id}", admin.PostGet)
				r.Put("/{id}", admin.PostUpdate)
				r.Delete("/{id}", admin.PostDelete)
			})

			r.Get("/pages", admin.Pages)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoriesList)
				r.Post("/", admin.CategoryCreate)
				r.Get("/{id}", admin.CategoryGet)
				r.Put("/{id}", admin.CategoryUpdate)
				r.Delete("/{id}", admin.CategoryDelete)
				r.Post("/{id}/default", admin.CategorySetDefault)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", admin.TagsList)
				r.Post("/", admin.TagCreate)
				r.Get("/{id}", admin.TagGet)
				r.Put("/{id}", admin.TagUpdate)
				r.Delete("/{id}", admin.TagDelete)
			})

			r.Get("/cache", admin.CacheStatus)
			r.Delete("/cache", admin.CacheFlush)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
