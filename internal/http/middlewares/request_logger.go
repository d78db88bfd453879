package middlewares

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/zonegate/internal/observability/logger"
)

// statusRecorder captura el status code escrito por el handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithRequestLogger genera un request ID, inyecta un logger enriquecido en el
// contexto y emite un access log al terminar el request.
// Los handlers aguas abajo obtienen el logger con logger.From(ctx).
func WithRequestLogger() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}

			log := logger.L().With(
				logger.RequestID(reqID),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)

			ctx := setRequestID(r.Context(), reqID)
			ctx = logger.ToContext(ctx, log)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			rec.Header().Set("X-Request-ID", reqID)

			next.ServeHTTP(rec, r.WithContext(ctx))

			log.Info("request completed",
				logger.Status(rec.status),
				logger.Duration(time.Since(start)),
			)
		})
	}
}
