package grpc

import (
	"context"
	"path"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

type rpcObserver interface {
	ObserveRPC(method, code string, elapsed time.Duration)
}

// MetricsInterceptor reports every unary call with its short method name and
// resulting status code.
func MetricsInterceptor(obs rpcObserver) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		obs.ObserveRPC(path.Base(info.FullMethod), status.Code(err).String(), time.Since(start))
		return resp, err
	}
}

// DefaultRequestTimeoutInterceptor bounds calls that arrive without a
// deadline.
func DefaultRequestTimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return handler(ctx, req)
	}
}
