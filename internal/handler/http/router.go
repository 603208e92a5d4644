package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouteRegistrar interface {
	RegisterRoutes(router chi.Router)
}

// NewRouter mounts every handler under /api behind the identity middleware.
func NewRouter(authn Authenticator, handlers ...RouteRegistrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(Identify(authn))
		for _, h := range handlers {
			h.RegisterRoutes(api)
		}
	})

	return r
}
