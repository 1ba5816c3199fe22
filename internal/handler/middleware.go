package handler

import (
	"context"
	"net/http"
	"strings"

	sharedauth "github.com/atelierhub/workshop-hub-api/shared/auth"
	"github.com/atelierhub/workshop-hub-api/shared/apperror"
)

type contextKey struct{}

var userClaimsKey = contextKey{}

// authenticate validates the bearer token and stores its claims in the
// request context. It establishes identity only; privilege is re-checked
// against the store by each admin-gated usecase.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			h.respondError(w, apperror.Unauthenticated("missing authorization header"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			h.respondError(w, apperror.Unauthenticated("invalid authorization header format"))
			return
		}

		claims, err := h.jwtAuth.ValidateToken(parts[1])
		if err != nil {
			h.respondError(w, apperror.Unauthenticated("invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), userClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// callerClaims returns the authenticated caller's claims from the context.
func callerClaims(r *http.Request) (*sharedauth.UserClaims, bool) {
	claims, ok := r.Context().Value(userClaimsKey).(*sharedauth.UserClaims)
	return claims, ok
}

// caller returns the authenticated caller's user ID, or writes an
// unauthenticated error and returns false.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := callerClaims(r)
	if !ok {
		h.respondError(w, apperror.Unauthenticated("missing authentication"))
		return "", false
	}
	return claims.UserID, true
}
