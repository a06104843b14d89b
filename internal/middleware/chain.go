package middleware

import (
	"log/slog"
	"slices"

	"connectrpc.com/connect"

	"github.com/mmynk/tabout/internal/auth"
	"github.com/mmynk/tabout/internal/metrics"
	"github.com/mmynk/tabout/pkg/api/apiconnect"
)

// Interceptors returns the interceptor chain every service handler is mounted
// with. Register and Login skip authentication, split previews attach the caller
// when a token is present, and every other procedure requires a valid token.
func Interceptors(jwtManager *auth.JWTManager, m *metrics.Metrics, logger *slog.Logger) connect.Option {
	return connect.WithInterceptors(
		MetricsInterceptor(m),
		OptionalAuth(jwtManager, apiconnect.AnonymousProcedures...),
		RequireAuth(jwtManager, slices.Concat(apiconnect.PublicProcedures, apiconnect.AnonymousProcedures)...),
		LoggingInterceptor(logger),
	)
}
