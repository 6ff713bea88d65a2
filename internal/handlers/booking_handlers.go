package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/transitx/marketplace/internal/domain"
	"github.com/transitx/marketplace/internal/http/response"
	"github.com/transitx/marketplace/pkg/logger"
)

// CreateBooking handles POST /bookings
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	booking, err := h.bookings.Create(r.Context(), &req, principal(r))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			response.BadRequest(w, err.Error())
		case errors.Is(err, domain.ErrForbidden):
			response.Forbidden(w, "You can only book tickets for your own account")
		case errors.Is(err, domain.ErrTicketNotFound):
			response.NotFound(w, "Ticket not found")
		case errors.Is(err, domain.ErrDeparturePassed):
			response.WriteError(w, http.StatusBadRequest, err.Error(), response.CodePastDeparture)
		case errors.Is(err, domain.ErrQuantityTooLow), errors.Is(err, domain.ErrQuantityExceeded):
			response.BadRequest(w, err.Error())
		default:
			logger.ErrorContext(r.Context(), "Failed to create booking", "error", err)
			response.InternalError(w, "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"inserted_id": booking.ID.Hex(),
		"booking":     booking,
	})
}

// MyBookings handles GET /my-bookings/{email}
func (h *Handlers) MyBookings(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	bookings, err := h.bookings.ListByUser(r.Context(), email, principal(r))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			response.Forbidden(w, "You can only access your own bookings")
			return
		}
		logger.ErrorContext(r.Context(), "Failed to list bookings", "error", err)
		response.InternalError(w, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, bookings)
}
