package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// Client errors are logged at warn, server errors at error.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"code", codeOf(err),
				"user_id", GetUserID(ctx), // empty if pre-auth
				"duration_ms", time.Since(start).Milliseconds(),
			}

			if err == nil {
				logger.InfoContext(ctx, "RPC ok", attrs...)
				return resp, nil
			}

			attrs = append(attrs, "error", err)
			if isServerError(err) {
				logger.ErrorContext(ctx, "RPC error", attrs...)
			} else {
				logger.WarnContext(ctx, "RPC error", attrs...)
			}
			return resp, err
		}
	}
}

func isServerError(err error) bool {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return true
	}
	switch connectErr.Code() {
	case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss, connect.CodeUnavailable:
		return true
	}
	return false
}
