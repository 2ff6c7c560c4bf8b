package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"familytracker/internal/models"
	"familytracker/internal/repository"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserContextKey ContextKey = "user"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	userRepo  *repository.UserRepository
	jwtSecret []byte
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(userRepo *repository.UserRepository, jwtSecret string) *Middleware {
	return &Middleware{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
	}
}

// RequireAuth verifies the bearer token issued by the auth provider and
// resolves it to a local user record, creating or refreshing the record on
// first sight of a subject.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Never verify against an empty key; a misconfigured deployment
		// must not accept forged tokens.
		if len(m.jwtSecret) == 0 {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		tokenString, ok := bearerToken(r)
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		subject, _ := claims["sub"].(string)
		if subject == "" {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		email, _ := claims["email"].(string)
		name, _ := claims["name"].(string)

		user, err := m.userRepo.UpsertBySubject(subject, email, name)
		if err != nil {
			log.Printf("Failed to resolve user %s: %v", subject, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// bearerToken extracts the token from an Authorization: Bearer header
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
