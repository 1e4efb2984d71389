package api

import (
	"context"
	"net/http"
	"serwer-zasobow/internal/auth"
	"serwer-zasobow/internal/models"
	"strings"
)

type contextKey string

const userContextKey = contextKey("user")

// AuthMiddleware resolves the caller's identity before any business logic
// runs: bearer token present -> signature/expiry verified -> subject resolved
// to a user row -> disabled flag checked. The chain short-circuits on the
// first failure, and a missing header, a malformed header and a bad token all
// produce the same 401 so clients learn nothing about why verification failed.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Could not validate credentials", http.StatusUnauthorized)
			return
		}

		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" {
			http.Error(w, "Could not validate credentials", http.StatusUnauthorized)
			return
		}

		claims, err := auth.VerifyJWT(headerParts[1], s.config.JWT.Secret)
		if err != nil {
			http.Error(w, "Could not validate credentials", http.StatusUnauthorized)
			return
		}

		user, err := s.store.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if user == nil {
			// Valid token whose subject no longer exists. Distinct from an
			// authentication failure.
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}

		if user.Disabled {
			http.Error(w, "Inactive user", http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSuperuser gates superuser-only routes. It must run after
// AuthMiddleware.
func (s *Server) RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			http.Error(w, "Could not validate credentials", http.StatusUnauthorized)
			return
		}
		if !user.IsSuperuser {
			http.Error(w, "The user doesn't have enough privileges", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userContextKey).(*models.User); ok {
		return user
	}
	return nil
}
