package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/karan123216/Restaurant-Management-System/internal/auth"
	"github.com/karan123216/Restaurant-Management-System/internal/booking"
	"github.com/karan123216/Restaurant-Management-System/internal/catalog"
	"github.com/karan123216/Restaurant-Management-System/internal/feedback"
	"github.com/karan123216/Restaurant-Management-System/internal/identity"
	"github.com/karan123216/Restaurant-Management-System/internal/mail"
	"github.com/karan123216/Restaurant-Management-System/internal/order"
)

const (
	loginPath = "/login"
	menuPath  = "/api/menu"
)

type ErrorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

// RedirectResponse accompanies a 303 so JSON clients can follow it too.
type RedirectResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondWithRedirect(w http.ResponseWriter, location, message string) {
	w.Header().Set("Location", location)
	respondWithJSON(w, http.StatusSeeOther, RedirectResponse{Message: message, Redirect: location})
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, identity.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, identity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, catalog.ErrItemNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrCategoryExists),
		errors.Is(err, auth.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrInvalidItem),
		errors.Is(err, catalog.ErrInvalidCategory),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, feedback.ErrInvalidFeedback),
		errors.Is(err, booking.ErrInvalidBooking):
		return http.StatusBadRequest
	case errors.Is(err, mail.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError maps a service error to a response. Internal failures are
// logged and answered with fallback; everything else is reported as is.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	code := mapErrorToStatusCode(err)

	switch code {
	case http.StatusInternalServerError:
		log.Error().Err(err).Str("path", r.URL.Path).Msg(fallback)
		respondWithError(w, code, fallback)
	case http.StatusUnauthorized:
		respondWithJSON(w, code, ErrorResponse{Error: err.Error(), Redirect: loginPath})
	default:
		respondWithError(w, code, err.Error())
	}
}

func formatValidationErrors(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			details[fe.Field()] = "is required"
		case "email":
			details[fe.Field()] = "must be a valid email address"
		case "datetime":
			details[fe.Field()] = fmt.Sprintf("must match %s", fe.Param())
		case "min", "gte":
			details[fe.Field()] = fmt.Sprintf("must be at least %s", fe.Param())
		case "max", "lte":
			details[fe.Field()] = fmt.Sprintf("must be at most %s", fe.Param())
		default:
			details[fe.Field()] = fmt.Sprintf("failed %s validation", fe.Tag())
		}
	}

	return details
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the 400 response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload: %v", err))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:   "Validation failed",
				Details: formatValidationErrors(validationErrors),
			})
		} else {
			log.Error().Err(err).Type("validation_error_type", err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return false
	}

	return true
}

func int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
		return 0, false
	}

	return id, true
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.FromString(chi.URLParam(r, name))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return uuid.Nil, false
	}

	return id, true
}
