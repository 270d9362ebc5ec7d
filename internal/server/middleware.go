package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// LoggingMiddleware tags every request with a fresh request id and logs the
// method, path, status, and duration once the handler returns.
func LoggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
			requestLogger := logger.With(
				"requestId", uuid.New(),
				"method", req.Method,
				"path", req.URL.Path,
			)
			recorder := &statusRecorder{ResponseWriter: res, status: http.StatusOK}
			started := time.Now()
			next.ServeHTTP(recorder, req)
			requestLogger.Info("Handled request",
				"status", recorder.status,
				"duration", time.Since(started),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
