package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/karan123216/Restaurant-Management-System/internal/booking"
)

type BookingRequest struct {
	Name         string `json:"name" validate:"required,max=50"`
	PhoneNumber  string `json:"phone_number" validate:"required,max=15"`
	Email        string `json:"email" validate:"omitempty,email"`
	TotalPersons int    `json:"total_persons" validate:"required,min=1"`
	BookingDate  string `json:"booking_date" validate:"required,datetime=2006-01-02"`
}

type BookingHandler struct {
	service  booking.Service
	validate *validator.Validate
}

func NewBookingHandler(service booking.Service) *BookingHandler {
	return &BookingHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *BookingHandler) RegisterRoutes(router chi.Router) {
	router.Post("/bookings", h.handleBook)
}

func (h *BookingHandler) handleBook(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	date, err := time.Parse(booking.DateLayout, req.BookingDate)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "booking_date must be YYYY-MM-DD")
		return
	}

	result, err := h.service.Book(r.Context(), booking.Booking{
		Name:         req.Name,
		PhoneNumber:  req.PhoneNumber,
		Email:        req.Email,
		TotalPersons: req.TotalPersons,
		BookingDate:  date,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to book table")
		return
	}

	respondWithJSON(w, http.StatusCreated, result)
}
