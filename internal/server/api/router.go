// Package api exposes the server's REST endpoints.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/teaisforme/teataster/internal/logging"
	"github.com/teaisforme/teataster/internal/server/services"
)

// Handler bundles the services behind the REST surface.
type Handler struct {
	users *services.UserService
	notes *services.NoteService
	log   logging.Logger
}

func NewHandler(users *services.UserService, notes *services.NoteService, log logging.Logger) *Handler {
	return &Handler{users: users, notes: notes, log: log}
}

// Router builds the route tree. Everything under the authenticated group
// requires a valid bearer token.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Post("/register", h.register)
	r.Post("/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)
		r.Post("/logout", h.logout)
		r.Get("/tea-categories", h.listCategories)
		r.Route("/user-tasting-notes", func(r chi.Router) {
			r.Get("/", h.listNotes)
			r.Post("/", h.saveNote)
			r.Get("/{id}", h.getNote)
			r.Delete("/{id}", h.deleteNote)
		})
	})

	return r
}
