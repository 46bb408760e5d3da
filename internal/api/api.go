// Package api serves season ratings over HTTP for the remote store.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/idilsaglam/rate/internal/store"
)

type Options struct {
	// Secret verifies HS256 bearer tokens. Empty disables authentication.
	Secret  []byte
	Origins []string
}

// NewRouter mounts the ratings API over st.
func NewRouter(st store.Store, opt Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := opt.Origins
	if len(origins) == 0 {
		origins = []string{"http://localhost:4321"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]bool{"ok": true})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/seasons", HandleSeasons(st))
		r.Group(func(r chi.Router) {
			r.Use(Authenticate(opt.Secret))
			r.Get("/ratings", HandleRatings(st))
			r.Post("/ratings-bulk", HandleRatingsBulk(st))
			r.Post("/rating", HandleRating(st))
		})
	})
	return r
}
