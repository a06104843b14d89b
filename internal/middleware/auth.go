// Package middleware contains the connect interceptors shared by every service.
package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tabout/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserIDKey is the context key for storing the authenticated user ID.
const UserIDKey contextKey = "user_id"

// WithUser returns a context carrying the authenticated user ID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// RequireAuth returns an interceptor that validates the bearer token and rejects
// unauthenticated calls. Procedures listed in public skip the check, which lets
// Register and Login share a handler chain with the authenticated procedures.
func RequireAuth(jwtManager *auth.JWTManager, public ...string) connect.UnaryInterceptorFunc {
	skip := make(map[string]struct{}, len(public))
	for _, p := range public {
		skip[p] = struct{}{}
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if _, ok := skip[req.Spec().Procedure]; ok {
				return next(ctx, req)
			}

			tokenString, err := bearerToken(req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithUser(ctx, claims.UserID), req)
		}
	}
}

// OptionalAuth returns an interceptor for the given procedures that attaches the
// caller's identity when a valid token is present and otherwise lets the request
// through anonymously. Other procedures pass through untouched.
func OptionalAuth(jwtManager *auth.JWTManager, procedures ...string) connect.UnaryInterceptorFunc {
	apply := make(map[string]struct{}, len(procedures))
	for _, p := range procedures {
		apply[p] = struct{}{}
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if _, ok := apply[req.Spec().Procedure]; !ok {
				return next(ctx, req)
			}
			if tokenString, err := bearerToken(req.Header().Get("Authorization")); err == nil {
				if claims, err := jwtManager.Validate(tokenString); err == nil {
					ctx = WithUser(ctx, claims.UserID)
				}
			}
			return next(ctx, req)
		}
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", auth.ErrInvalidToken
	}
	return token, nil
}
