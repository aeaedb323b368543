package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
)

// GzipMiddleware обрабатывает Gzip-сжатие для запросов и ответов
func GzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Обработка сжатого запроса
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			gz, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(w, "Invalid gzip data", http.StatusBadRequest)
				return
			}
			defer gz.Close()
			r.Body = io.NopCloser(gz)
		}

		// Проверка, поддерживает ли клиент сжатие ответа
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		// Оборачиваем ResponseWriter для сжатия ответа
		gw := &gzipResponseWriter{ResponseWriter: w}
		defer gw.Close()

		next.ServeHTTP(gw, r)
	})
}

// gzipResponseWriter оборачивает http.ResponseWriter и сжимает тело ответа,
// если Content-Type относится к сжимаемым
type gzipResponseWriter struct {
	http.ResponseWriter
	gz      *gzip.Writer
	decided bool
	useGzip bool
}

// Write перехватывает тело ответа и при необходимости сжимает его
func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.decided {
		w.decided = true
		contentType := w.Header().Get("Content-Type")
		if strings.HasPrefix(contentType, "application/json") || strings.HasPrefix(contentType, "text/plain") || strings.HasPrefix(contentType, "text/html") {
			w.useGzip = true
			w.Header().Set("Content-Encoding", "gzip")
			w.Header().Del("Content-Length")
			w.gz = gzip.NewWriter(w.ResponseWriter)
		}
	}
	if w.useGzip {
		return w.gz.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// Close завершает поток сжатия, если он был открыт
func (w *gzipResponseWriter) Close() {
	if w.gz != nil {
		w.gz.Close()
	}
}
