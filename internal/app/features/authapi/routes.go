package authapi

import (
	"net/http"
	"time"

	"github.com/ashishmicrocom/adPatterns/internal/app/system/auth"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/jsonutil"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/network"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// LoginLimit bounds login attempts per client IP. Requests <= 0 disables it.
type LoginLimit struct {
	Requests   int
	Window     time.Duration
	TrustProxy bool
}

// Routes returns a chi.Router with the auth endpoints mounted.
func Routes(h *Handler, authMw *auth.Middleware, limit LoginLimit) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)

	r.Group(func(r chi.Router) {
		if limit.Requests > 0 {
			r.Use(httprate.Limit(limit.Requests, limit.Window,
				httprate.WithKeyFuncs(network.KeyByClientIP(limit.TrustProxy)),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					jsonutil.Error(w, http.StatusTooManyRequests, "Too many login attempts, try again later")
				}),
			))
		}
		r.Post("/login", h.Login)
		r.Post("/login/json", h.LoginJSON)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMw.RequireBearer)
		r.Get("/me", h.Me)
		r.Put("/me", h.UpdateMe)
	})

	return r
}
