package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/transitx/marketplace/internal/domain"
	"github.com/transitx/marketplace/internal/http/response"
	"github.com/transitx/marketplace/pkg/logger"
)

// SubmitTicket handles POST /tickets
func (h *Handlers) SubmitTicket(w http.ResponseWriter, r *http.Request) {
	var sub domain.TicketSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	ticket, err := h.tickets.Create(r.Context(), &sub)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			response.BadRequest(w, err.Error())
			return
		}
		logger.ErrorContext(r.Context(), "Failed to submit ticket", "error", err)
		response.InternalError(w, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, ticket)
}

// ListApprovedTickets handles GET /tickets/approved
func (h *Handlers) ListApprovedTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.tickets.ListApproved(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list approved tickets", "error", err)
		response.InternalError(w, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, tickets)
}

// GetApprovedTicket handles GET /tickets/{id}
func (h *Handlers) GetApprovedTicket(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid ticket ID")
		return
	}

	ticket, err := h.tickets.GetApprovedByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTicketNotFound) {
			response.NotFound(w, "Ticket not found")
			return
		}
		logger.ErrorContext(r.Context(), "Failed to get ticket", "error", err)
		response.InternalError(w, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, ticket)
}

// MyTickets handles GET /my-tickets/{email}
func (h *Handlers) MyTickets(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	tickets, err := h.tickets.ListForVendor(r.Context(), email, principal(r))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			response.Forbidden(w, "You can only access your own tickets")
			return
		}
		logger.ErrorContext(r.Context(), "Failed to list vendor tickets", "error", err)
		response.InternalError(w, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, tickets)
}

// ListAllTickets handles GET /tickets (admin)
func (h *Handlers) ListAllTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.tickets.ListAll(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list tickets", "error", err)
		response.InternalError(w, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, tickets)
}

// ApproveTicket handles PATCH /tickets/{id}/approve (admin)
func (h *Handlers) ApproveTicket(w http.ResponseWriter, r *http.Request) {
	h.moderateTicket(w, r, domain.TicketApproved)
}

// RejectTicket handles PATCH /tickets/{id}/reject (admin)
func (h *Handlers) RejectTicket(w http.ResponseWriter, r *http.Request) {
	h.moderateTicket(w, r, domain.TicketRejected)
}

func (h *Handlers) moderateTicket(w http.ResponseWriter, r *http.Request, to domain.VerificationStatus) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid ticket ID")
		return
	}

	if to == domain.TicketApproved {
		err = h.tickets.Approve(r.Context(), id, principal(r))
	} else {
		err = h.tickets.Reject(r.Context(), id, principal(r))
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTicketNotFound):
			response.NotFound(w, "Ticket not found")
		case errors.Is(err, domain.ErrAlreadyModerated):
			response.Conflict(w, err.Error())
		default:
			logger.ErrorContext(r.Context(), "Failed to moderate ticket", "error", err, "ticket_id", id.Hex())
			response.InternalError(w, "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"ticket_id":           id.Hex(),
		"verification_status": string(to),
	})
}
