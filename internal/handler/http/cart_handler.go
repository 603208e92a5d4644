package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/karan123216/Restaurant-Management-System/internal/cart"
	"github.com/karan123216/Restaurant-Management-System/internal/identity"
)

type AddToCartRequest struct {
	ItemID int64 `json:"item_id" validate:"required,gt=0"`
}

type AddToCartResponse struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

type CartResponse struct {
	Items []cart.Line `json:"items"`
}

type CartHandler struct {
	service  cart.Service
	validate *validator.Validate
}

func NewCartHandler(service cart.Service) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *CartHandler) RegisterRoutes(router chi.Router) {
	router.Post("/cart/items", h.handleAddToCart)
	router.Get("/cart", h.handleListCart)
	router.Get("/checkout", h.handleCheckout)
}

func (h *CartHandler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	quantity, err := h.service.AddToCart(r.Context(), identity.FromContext(r.Context()), req.ItemID)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to add item to cart")
		return
	}

	respondWithJSON(w, http.StatusOK, AddToCartResponse{ItemID: req.ItemID, Quantity: quantity})
}

func (h *CartHandler) handleListCart(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.ListCart(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to load cart")
		return
	}

	respondWithJSON(w, http.StatusOK, CartResponse{Items: lines})
}

func (h *CartHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Checkout(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to load checkout")
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}
