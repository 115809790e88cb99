package adaccounts

import (
	"github.com/ashishmicrocom/adPatterns/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a chi.Router with the ad-account endpoints mounted.
func Routes(h *Handler, authMw *auth.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(authMw.RequireBearer)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/connect", h.Connect)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}
