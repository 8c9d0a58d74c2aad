package httphandler

import (
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/selflearning/internal/metrics"
	"github.com/ericfisherdev/selflearning/internal/security"
)

// statusWriter wraps http.ResponseWriter to capture the response status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the embedded writer.
func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

// ApplyMiddleware wraps next with metrics, recovery, session, and logging
// middleware, outermost last.
func ApplyMiddleware(next http.Handler, sessionSecret string, logger *slog.Logger) http.Handler {
	// Metrics sees the request the mux annotates with its route pattern.
	wrapped := metricsMiddleware(next)
	// Recovery inside logging so panics are caught before logging.
	wrapped = recoveryMiddleware(logger, wrapped)
	wrapped = sessionMiddleware(sessionSecret, logger, wrapped)
	wrapped = loggingMiddleware(logger, wrapped)
	return wrapped
}

// loggingMiddleware logs each HTTP request with method, path, status, and duration.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

// metricsMiddleware observes request latency labeled by the matched route
// pattern, so path parameters do not explode label cardinality.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).
			Observe(time.Since(start).Seconds())
	})
}

// sessionMiddleware attaches the principal of a valid session token to the
// request context. Requests without a valid token continue anonymously.
func sessionMiddleware(secret string, logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := security.TokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := security.ParseSessionToken(secret, token)
		if err != nil {
			logger.Debug("session token rejected", "path", r.URL.Path, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(security.WithPrincipal(r.Context(), claims.Principal())))
	})
}

// recoveryMiddleware recovers from panics in HTTP handlers, logs the error,
// and returns a 500 response.
func recoveryMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				logger.Error("panic recovered",
					"panic", v,
					"path", r.URL.Path,
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// requireJSON answers 415 unless the request declares an application/json
// body. Cross-site form posts cannot declare that type without a CORS
// preflight, so the session cookie alone cannot drive a mutation.
func requireJSON(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			writeError(w, http.StatusUnsupportedMediaType, "unsupported media type")
			return
		}
		next.ServeHTTP(w, r)
	})
}
