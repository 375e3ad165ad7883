package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bookrack/bookrack/internal/auth"
	"github.com/bookrack/bookrack/internal/logger"
	"github.com/bookrack/bookrack/internal/models/user"
)

type contextKey string

const userContextKey contextKey = "user"

const bearerPrefix = "Bearer "

// UserResolver maps a token subject back to a live user record.
type UserResolver interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type Auth struct {
	jwtManager *auth.JWTManager
	users      UserResolver
	log        *logger.Logger
}

func NewAuth(jwtManager *auth.JWTManager, users UserResolver) *Auth {
	return &Auth{
		jwtManager: jwtManager,
		users:      users,
		log:        logger.New("auth-middleware"),
	}
}

// WithUser derives the authenticated user from the Authorization header and
// attaches it to the request context. A missing header, a non-Bearer scheme,
// a bad token, or a deleted user all leave the context without a user; this
// middleware never rejects a request. Rejection belongs to RequireUser.
func (m *Auth) WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.jwtManager.ValidateToken(strings.TrimPrefix(authHeader, bearerPrefix))
		if err != nil {
			m.log.Debug("Rejected token: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		u, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			m.log.Error("Failed to resolve token subject: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if u == nil {
			// Token outlived the account.
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser guards protected routes: no derived user means 401, otherwise
// the request proceeds with the user still in context.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			http.Error(w, "Not Authorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *user.User {
	if u, ok := ctx.Value(userContextKey).(*user.User); ok {
		return u
	}
	return nil
}
