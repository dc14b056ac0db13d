package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/marcusw/leadclaim/internal/models"
	"github.com/marcusw/leadclaim/pkg/httpx"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// UserContextKey is the key for storing the authenticated user in context
	UserContextKey contextKey = "user"
)

// UserFetcher resolves a token's user id to a live user record
type UserFetcher interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Middleware validates bearer tokens and injects the resolved user into the
// request context. It is a pure guard: no side effects beyond identity
// resolution.
func Middleware(tm *TokenManager, users UserFetcher) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httpx.WriteUnauthorized(w, "Access denied. No valid token provided")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				httpx.WriteUnauthorized(w, "Access denied. No valid token provided")
				return
			}

			claims, err := tm.Validate(parts[1])
			if err != nil {
				if errors.Is(err, models.ErrTokenExpired) {
					httpx.WriteUnauthorized(w, "Token expired")
					return
				}
				httpx.WriteUnauthorized(w, "Invalid token")
				return
			}

			user, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					httpx.WriteUnauthorized(w, "Invalid token. User not found")
					return
				}
				httpx.WriteInternalError(w, "Server error during authentication")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the authenticated user from the request context
func GetUserFromContext(r *http.Request) *models.User {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
