package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/karan123216/Restaurant-Management-System/internal/auth"
	"github.com/karan123216/Restaurant-Management-System/internal/identity"
)

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthHandler struct {
	service  auth.Service
	validate *validator.Validate
}

func NewAuthHandler(service auth.Service) *AuthHandler {
	return &AuthHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *AuthHandler) RegisterRoutes(router chi.Router) {
	router.Post("/auth/signup", h.handleSignup)
	router.Post("/auth/login", h.handleLogin)
	router.Post("/auth/logout", h.handleLogout)
}

func (h *AuthHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	session, err := h.service.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create user")
		return
	}

	respondWithJSON(w, http.StatusCreated, session)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	session, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to log in")
		return
	}

	respondWithJSON(w, http.StatusOK, session)
}

// handleLogout only confirms the session; tokens are discarded by the client.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := identity.FromContext(r.Context()).RequireSession(); err != nil {
		respondWithServiceError(w, r, err, "Failed to log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
