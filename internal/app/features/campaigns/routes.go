package campaigns

import (
	"github.com/ashishmicrocom/adPatterns/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a chi.Router with the campaign endpoints mounted.
func Routes(h *Handler, authMw *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(authMw.RequireBearer)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/summary/stats", h.Summary)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/publish", h.Publish)
	})
	return r
}
