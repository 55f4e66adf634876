package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bhvr/bhvr-api-go/internal/crypto"
	"github.com/bhvr/bhvr-api-go/internal/model"
)

const (
	MsgMissingToken = "authentication token required"
	MsgInvalidToken = "invalid or expired token"
)

type contextKey string

const identityKey contextKey = "identity"

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) crypto.Verification
}

// JWTAuth returns middleware that requires a valid Bearer token in the Authorization header.
// A missing header or a non-Bearer scheme is rejected as a missing token; anything else
// that fails verification is rejected as an invalid token.
func JWTAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, MsgMissingToken)
				return
			}

			v := tokens.Verify(token)
			if !v.Valid() {
				slog.Debug("token rejected", "reason", v.Reason.String(), "path", r.URL.Path)
				writeJSONError(w, http.StatusUnauthorized, MsgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), v.Claims.Identity())))
		})
	}
}

// OptionalJWTAuth attaches the identity of a valid Bearer token when one is
// present and passes every request through.
func OptionalJWTAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if v := tokens.Verify(token); v.Valid() {
					r = r.WithContext(WithIdentity(r.Context(), v.Claims.Identity()))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the credential of an "Authorization: Bearer <token>" header.
// ok is false when the header is absent or uses another scheme.
func bearerToken(r *http.Request) (token string, ok bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return "", false
	}
	return token, true
}

// WithIdentity returns a copy of ctx carrying the authenticated identity.
func WithIdentity(ctx context.Context, id crypto.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext extracts the authenticated identity from the request context.
func IdentityFromContext(ctx context.Context) (crypto.Identity, bool) {
	id, ok := ctx.Value(identityKey).(crypto.Identity)
	return id, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.Envelope{Success: false, Message: msg})
}
