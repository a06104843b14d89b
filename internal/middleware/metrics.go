package middleware

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tabout/internal/metrics"
)

// MetricsInterceptor records the latency of every unary RPC by procedure and result code.
func MetricsInterceptor(m *metrics.Metrics) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			m.ObserveRPC(req.Spec().Procedure, codeOf(err), time.Since(start).Seconds())
			return resp, err
		}
	}
}

func codeOf(err error) string {
	if err == nil {
		return "ok"
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Code().String()
	}
	return connect.CodeUnknown.String()
}
