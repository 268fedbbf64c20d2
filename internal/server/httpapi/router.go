package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/entrust/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every route of the API.
func NewRouter(h *Handler, logger logging.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger.With("module", "http")))
	r.Use(middleware.Recoverer)
	r.Use(h.metrics.Middleware)

	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Post("/users", h.CreateMember)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
	r.Post("/auth/recover", h.Recover)
	r.Post("/assistant", h.Ask)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth(h.auth))

		r.Get("/users", h.ListMembers)
		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/", h.GetMember)
			r.Put("/", h.ReplaceMember)
			r.Patch("/status", h.SetStatus)
			r.Get("/card.{format}", h.Card)
			r.Post("/card/publish", h.PublishCard)
		})
	})

	return r
}
