package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// statusWriter запоминает код статуса и объём записанного тела ответа
type statusWriter struct {
	http.ResponseWriter
	status  int
	written int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

// LoggingMiddleware создаёт middleware для логирования запросов.
// Ответы сервера с кодом 5xx логируются уровнем Warn, остальные Info.
func LoggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("uri", r.RequestURI),
				zap.String("client_key", ClientKey(r)),
				zap.Int("status", sw.status),
				zap.Int("size", sw.written),
				zap.Duration("duration", time.Since(start)),
			}
			if clientID, ok := GetClientID(r); ok {
				fields = append(fields, zap.String("client_id", clientID))
			}

			if sw.status >= http.StatusInternalServerError {
				logger.Warn("HTTP request", fields...)
				return
			}
			logger.Info("HTTP request", fields...)
		})
	}
}
