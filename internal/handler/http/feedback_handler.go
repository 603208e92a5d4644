package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/karan123216/Restaurant-Management-System/internal/feedback"
)

type FeedbackRequest struct {
	UserName    string `json:"user_name" validate:"required,max=50"`
	Description string `json:"description" validate:"required"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Image       string `json:"image" validate:"max=255"`
}

type FeedbackHandler struct {
	service  feedback.Service
	validate *validator.Validate
}

func NewFeedbackHandler(service feedback.Service) *FeedbackHandler {
	return &FeedbackHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *FeedbackHandler) RegisterRoutes(router chi.Router) {
	router.Post("/feedback", h.handleSubmit)
	router.Get("/feedback", h.handleRecent)
}

func (h *FeedbackHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	saved, err := h.service.Submit(r.Context(), feedback.Feedback{
		UserName:    req.UserName,
		Description: req.Description,
		Rating:      req.Rating,
		Image:       req.Image,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to save feedback")
		return
	}

	respondWithJSON(w, http.StatusCreated, saved)
}

func (h *FeedbackHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			respondWithError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	entries, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to load feedback")
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}
