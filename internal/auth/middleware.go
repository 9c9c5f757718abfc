package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	mw "github.com/roshil-6/TONIO-SENORA/internal/middleware"
)

type contextKey string

const (
	UserContextKey    contextKey = "user"
	SessionContextKey contextKey = "session"
)

// Middleware validates the bearer token and stores its claims in the
// request context.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				deny(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			claims, err := ValidateToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				deny(w, http.StatusUnauthorized, "invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) *Claims {
	claims, _ := ctx.Value(UserContextKey).(*Claims)
	return claims
}

// RequireRole runs the session gate for role ("" accepts either role) and
// stores the authorized session in the request context. Unauthenticated
// sessions get 401 and wrong roles 403; both have had their keys purged.
func RequireRole(g *Gate, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUser(r.Context())
			if claims == nil {
				deny(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			d, err := g.Check(r.Context(), claims.SessionID, role)
			if err != nil {
				deny(w, http.StatusInternalServerError, err.Error())
				return
			}
			switch d.State {
			case Unauthenticated:
				deny(w, http.StatusUnauthorized, "session expired, please log in again")
				return
			case WrongRole:
				deny(w, http.StatusForbidden, "unauthorized access")
				return
			}
			mw.Annotate(r.Context(), d.User.AccountType, d.User.ID)
			sess := &Session{ID: claims.SessionID, User: *d.User}
			ctx := context.WithValue(r.Context(), SessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession returns the session authorized by RequireRole.
func GetSession(ctx context.Context) *Session {
	s, _ := ctx.Value(SessionContextKey).(*Session)
	return s
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
