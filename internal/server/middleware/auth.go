package middleware

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskhive/internal/domain"
)

// SessionCookie is the name of the httpOnly auth cookie set on login.
const SessionCookie = "token"

const (
	msgNotAuthorized      = `{"status":false,"message":"Not authorized. Try login again."}`
	msgNotAuthorizedAdmin = `{"status":false,"message":"Not authorized as admin. Try login as admin."}`
)

type jwtClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// Auth validates the session cookie and resolves the authenticated user.
// The cookie only carries the user id; the admin flag and email are looked
// up against the user repository on every request, so demoting or
// deactivating an account takes effect without waiting for the cookie to
// expire.
func Auth(jwtSecret string, users domain.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				unauthorized(w, msgNotAuthorized)
				return
			}

			ctx, ok := authenticate(r.Context(), cookie.Value, jwtSecret, users)
			if !ok {
				unauthorized(w, msgNotAuthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates admin-only routes. Must be chained after Auth.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdminFromContext(r.Context()) {
				unauthorized(w, msgNotAuthorizedAdmin)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(ctx context.Context, tokenStr, secret string, users domain.UserRepository) (context.Context, bool) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return ctx, false
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return ctx, false
	}

	user, err := users.GetByID(ctx, userID)
	if err != nil {
		log.Debug().Err(err).Str("user_id", userID.String()).Msg("auth: user lookup failed")
		return ctx, false
	}

	ctx = context.WithValue(ctx, ContextKeyUserID, user.ID)
	ctx = context.WithValue(ctx, ContextKeyUserEmail, user.Email)
	ctx = context.WithValue(ctx, ContextKeyIsAdmin, user.IsAdmin)
	return ctx, true
}

func unauthorized(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(body))
}
