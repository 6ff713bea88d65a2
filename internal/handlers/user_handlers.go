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

// UpsertLogin handles POST /user
func (h *Handlers) UpsertLogin(w http.ResponseWriter, r *http.Request) {
	var profile domain.LoginProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	user, created, err := h.users.UpsertLogin(r.Context(), &profile)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			response.BadRequest(w, err.Error())
			return
		}
		logger.ErrorContext(r.Context(), "Failed to upsert login", "error", err)
		response.InternalError(w, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"created": created,
		"user":    user,
	})
}

// GetRole handles GET /user/role/{email}
func (h *Handlers) GetRole(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	role, err := h.users.GetRole(r.Context(), email)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to get role", "error", err)
		response.InternalError(w, "Something went wrong")
		return
	}

	// An unknown user yields an empty role, never an error.
	writeJSON(w, http.StatusOK, map[string]string{"role": role})
}
