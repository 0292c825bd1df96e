package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/skald/internal/domain"
)

const loggerContextKey contextKey = "logger"

// WithRequestLogger injects a request-scoped logger into the context. The
// logger carries request metadata and, when the auth middleware has already
// run, the caller's user ID. Place after RequestID and WithIdentity.
func WithRequestLogger(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestLogger := baseLogger.With(
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)

			if requestID := GetRequestID(r.Context()); requestID != "" {
				requestLogger = requestLogger.With(slog.String("request_id", requestID))
			}

			if identity := domain.IdentityFromContext(r.Context()); identity != nil {
				requestLogger = requestLogger.With(slog.String("user_id", identity.UserID.String()))
			}

			ctx := context.WithValue(r.Context(), loggerContextKey, requestLogger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLogger retrieves the request-scoped logger from the context.
// Returns slog.Default() when the logger middleware did not run.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
