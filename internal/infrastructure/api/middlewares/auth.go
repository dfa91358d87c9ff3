package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/avelinsk/txmon/internal/domain/models"
	"github.com/avelinsk/txmon/internal/errors"
	"github.com/avelinsk/txmon/internal/usecases/interactor"
	"github.com/avelinsk/txmon/pkg/log"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// UserContextKey carries the authenticated user through the request context.
const UserContextKey contextKey = "authUser"

// AuthMiddleware validates the caller's JWT and attaches the user profile to
// the request context. The token is read from the "token" cookie, falling
// back to the Authorization bearer header. Token issuance lives elsewhere;
// this service only verifies.
func AuthMiddleware(userInt *interactor.UserInteractor, secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := log.GetLogger()

			raw := tokenFromRequest(r)
			if raw == "" {
				logger.Warn().Str("path", r.URL.Path).Msg(errors.ErrMissingCredentials)
				errors.HandleHTTPError(w, errors.NewAuthError(errors.ErrMissingCredentials))
				return
			}

			userID, err := verifyToken(raw, secret)
			if err != nil {
				logger.Warn().Err(err).Msg(errors.ErrInvalidCredentials)
				errors.HandleHTTPError(w, errors.NewAuthError(errors.ErrInvalidCredentials))
				return
			}

			user, err := userInt.GetByID(r.Context(), userID)
			if err != nil {
				logger.Error().Err(err).Msg("failed to load authenticated user")
				errors.HandleHTTPError(w, err)
				return
			}
			if user == nil {
				logger.Warn().Str("userId", userID).Msg(errors.ErrInvalidCredentials)
				errors.HandleHTTPError(w, errors.NewAuthError(errors.ErrInvalidCredentials))
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user, or nil outside the auth
// middleware.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func verifyToken(raw, secret string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("token carries no user id")
	}
	return id, nil
}
