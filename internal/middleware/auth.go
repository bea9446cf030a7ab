package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pharmvigil/medreport-be/internal/apperr"
	"github.com/pharmvigil/medreport-be/internal/auth"
	"github.com/pharmvigil/medreport-be/internal/http/respond"
	"github.com/pharmvigil/medreport-be/internal/models"
	"github.com/pharmvigil/medreport-be/internal/storage"
)

type contextKey struct{}

var callerKey contextKey

// Gate resolves caller identity from bearer tokens and enforces role
// requirements. Authentication runs first, authorization second; neither has
// side effects beyond the user lookup.
type Gate struct {
	store  storage.UserStore
	tokens *auth.TokenManager
}

// NewGate creates a gate backed by the given store and token manager.
func NewGate(store storage.UserStore, tokens *auth.TokenManager) *Gate {
	return &Gate{store: store, tokens: tokens}
}

// Authenticate verifies the Authorization header, loads the user the token
// asserts, and attaches it to the request context. Missing or malformed
// headers, bad signatures, expired tokens, and tokens whose subject no longer
// resolves to a stored user all fail with 401.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			respond.Error(w, apperr.Unauthorized("Not authorized to access this route"))
			return
		}

		userID, err := g.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respond.Error(w, apperr.Unauthorized("Not authorized to access this route"))
			return
		}

		user, err := g.store.GetUser(r.Context(), userID)
		if err != nil {
			// A token for a deleted user is just an unauthorized caller.
			respond.Error(w, apperr.Unauthorized("Not authorized to access this route"))
			return
		}

		ctx := context.WithValue(r.Context(), callerKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects authenticated callers whose role is not in the allowed
// set. It must run after Authenticate.
func (g *Gate) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFrom(r.Context())
			if !ok {
				respond.Error(w, apperr.Unauthorized("Not authorized to access this route"))
				return
			}
			for _, role := range roles {
				if caller.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			respond.Error(w, apperr.Forbidden("User with role: "+caller.Role+" is not authorized to access this route"))
		})
	}
}

// CallerFrom returns the authenticated user attached by Authenticate.
func CallerFrom(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(callerKey).(models.User)
	return user, ok
}
