package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karan123216/Restaurant-Management-System/internal/site"
)

type SiteHandler struct {
	service site.Service
}

func NewSiteHandler(service site.Service) *SiteHandler {
	return &SiteHandler{service: service}
}

func (h *SiteHandler) RegisterRoutes(router chi.Router) {
	router.Get("/home", h.handleHome)
	router.Get("/about", h.handleAbout)
}

func (h *SiteHandler) handleHome(w http.ResponseWriter, r *http.Request) {
	home, err := h.service.Home(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to load home page")
		return
	}

	respondWithJSON(w, http.StatusOK, home)
}

func (h *SiteHandler) handleAbout(w http.ResponseWriter, r *http.Request) {
	about, err := h.service.About(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to load about page")
		return
	}

	respondWithJSON(w, http.StatusOK, about)
}
