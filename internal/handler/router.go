package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mmeshcher/shortener-api/internal/metrics"
	"github.com/mmeshcher/shortener-api/internal/middleware"
)

func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(h.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.Get("/ping", h.PingHandler)
	r.Handle("/metrics", metrics.Handler())

	r.Post("/users", h.CreateUserHandler)
	r.Post("/auth/login", h.LoginHandler)

	r.Route("/shortener", func(r chi.Router) {
		r.With(h.authMiddleware.OptionalAuth).Post("/", h.ShortenHandler)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.RequireAuth)
			r.Get("/", h.ListHandler)
			r.Patch("/{shortCode}", h.UpdateHandler)
			r.Delete("/{shortCode}", h.DeleteHandler)
		})
	})

	r.Get("/{shortCode}", h.RedirectHandler)

	r.NotFound(func(rw http.ResponseWriter, r *http.Request) {
		h.writeError(rw, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	r.MethodNotAllowed(func(rw http.ResponseWriter, r *http.Request) {
		h.writeError(rw, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return r
}
