package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/transitx/marketplace/internal/domain"
	"github.com/transitx/marketplace/internal/http/response"
	"github.com/transitx/marketplace/internal/service"
	"github.com/transitx/marketplace/pkg/auth"
	"github.com/transitx/marketplace/pkg/logger"
)

type ctxKey string

const ctxPrincipal ctxKey = "principal"

type Handlers struct {
	users    service.UserService
	tickets  service.TicketService
	bookings service.BookingService
	verifier auth.TokenVerifier
}

func New(
	users service.UserService,
	tickets service.TicketService,
	bookings service.BookingService,
	verifier auth.TokenVerifier,
) *Handlers {
	return &Handlers{
		users:    users,
		tickets:  tickets,
		bookings: bookings,
		verifier: verifier,
	}
}

// RequireAuth is the identity gate: it verifies the bearer token and puts the
// trusted email claim on the request context. A missing header fails without
// touching the verifier.
func (h *Handlers) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			response.Unauthorized(w, "Unauthorized Access!")
			return
		}

		raw := strings.TrimPrefix(authz, "Bearer ")
		claims, err := h.verifier.Verify(r.Context(), raw)
		if err != nil {
			// Surface the verifier's reason for diagnostics.
			response.WriteErrorWithDetails(w, http.StatusUnauthorized,
				"Unauthorized Access!", response.CodeUnauthorized, err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), ctxPrincipal, claims.Email)
		ctx = context.WithValue(ctx, logger.PrincipalKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin layers a stored-role check on top of RequireAuth.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := principal(r)
		if email == "" {
			response.Unauthorized(w, "Unauthorized Access!")
			return
		}

		role, err := h.users.GetRole(r.Context(), email)
		if err != nil {
			logger.ErrorContext(r.Context(), "Failed to resolve role", "error", err, "email", email)
			response.InternalError(w, "Something went wrong")
			return
		}
		if role != domain.RoleAdmin {
			response.Forbidden(w, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// principal returns the verified email attached by RequireAuth.
func principal(r *http.Request) string {
	if email, ok := r.Context().Value(ctxPrincipal).(string); ok {
		return email
	}
	return ""
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
