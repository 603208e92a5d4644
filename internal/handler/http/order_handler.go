package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/karan123216/Restaurant-Management-System/internal/identity"
	"github.com/karan123216/Restaurant-Management-System/internal/order"
)

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,max=20"`
}

type OrderHandler struct {
	service  order.Service
	validate *validator.Validate
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/orders", h.handlePlaceOrder)
	router.Get("/orders", h.handleListOrders)
	router.Get("/orders/{id}", h.handleGetOrder)
	router.Patch("/admin/orders/{id}/status", h.handleUpdateStatus)
}

func (h *OrderHandler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.PlaceOrder(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			respondWithRedirect(w, menuPath, "Your cart is empty")
			return
		}

		respondWithServiceError(w, r, err, "Failed to place order")
		return
	}

	respondWithJSON(w, http.StatusCreated, receipt)
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	o, err := h.service.GetOrder(r.Context(), identity.FromContext(r.Context()), id)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to get order")
		return
	}

	respondWithJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	o, err := h.service.UpdateOrderStatus(r.Context(), identity.FromContext(r.Context()), id, req.Status)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to update order status")
		return
	}

	respondWithJSON(w, http.StatusOK, o)
}
