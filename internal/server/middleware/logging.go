package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/recipebook/internal/logging"
	"github.com/dmitrijs2005/recipebook/internal/server/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// AccessLog logs one line per request and reports it to rec. The level
// follows the status class.
func AccessLog(logger logging.Logger, rec metrics.Recorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			d := time.Since(start)
			route := routePattern(r)
			rec.RecordRequest(r.Method, route, sr.statusCode, d)

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", sr.statusCode,
				"duration_ms", float64(d.Nanoseconds()) / float64(time.Millisecond),
				"request_id", RequestIDFromContext(r.Context()),
			}
			if u, ok := UserFromContext(r.Context()); ok {
				args = append(args, "username", u.Name)
			}

			switch {
			case sr.statusCode >= 500:
				logger.Error(r.Context(), "http_request", args...)
			case sr.statusCode >= 400:
				logger.Warn(r.Context(), "http_request", args...)
			default:
				logger.Info(r.Context(), "http_request", args...)
			}
		})
	}
}

// routePattern keeps metric label cardinality bounded by using the matched
// chi pattern instead of the raw path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
