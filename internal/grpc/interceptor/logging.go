package interceptor

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Logger adapts slog to the go-grpc-middleware logging interface.
func Logger(log *slog.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		log.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}

// LoggingOptions logs call start and finish with the request payload
// omitted.
func LoggingOptions() []logging.Option {
	return []logging.Option{
		logging.WithLogOnEvents(logging.StartCall, logging.FinishCall),
	}
}

// Recovery converts a handler panic into codes.Internal and logs it.
func Recovery(log *slog.Logger) recovery.Option {
	const op = "interceptor.Recovery"

	return recovery.WithRecoveryHandlerContext(func(ctx context.Context, p any) error {
		log.ErrorContext(ctx, "recovered from panic",
			slog.String("op", op),
			slog.Any("panic", p),
			slog.String("stack", string(debug.Stack())),
		)

		return status.Error(codes.Internal, "internal error")
	})
}
