// Package middleware содержит HTTP middleware для обработки запросов.
// Включает идентификацию клиентов, логирование, сжатие ответов и проверку
// доверенных подсетей.
package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/tempizhere/shorty/internal/service"
	"go.uber.org/zap"
)

// ClientIDKey для хранения идентификатора клиента в контексте
type ClientIDKey struct{}

// clientCookieName задаёт имя куки с подписанным клиентским токеном
const clientCookieName = "client_token"

// IdentityMiddleware проверяет и устанавливает куку с анонимным клиентским
// токеном. Идентификатор используется только в диагностике (логи запросов);
// ограничитель частоты работает по сетевому адресу.
func IdentityMiddleware(svc *service.Service, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var clientID string

			// Проверяем куку с токеном
			cookie, err := r.Cookie(clientCookieName)
			if err == nil && cookie != nil {
				clientID, err = svc.ParseJWT(cookie.Value)
				if err != nil {
					logger.Warn("Invalid client token", zap.Error(err))
				}
			}

			// Если идентификатор не установлен, выпускаем новый токен
			if clientID == "" {
				clientID, err = svc.GenerateClientID()
				if err != nil {
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				token, err := svc.GenerateJWT(clientID)
				if err != nil {
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     clientCookieName,
					Value:    token,
					Expires:  time.Now().Add(24 * time.Hour),
					Path:     "/",
					HttpOnly: true,
				})
			}

			// Добавляем идентификатор клиента в контекст
			ctx := context.WithValue(r.Context(), ClientIDKey{}, clientID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientID извлекает идентификатор клиента из контекста
func GetClientID(r *http.Request) (string, bool) {
	clientID, ok := r.Context().Value(ClientIDKey{}).(string)
	return clientID, ok
}

// ClientKey возвращает сетевой ключ клиента для ограничителя частоты:
// значение X-Real-IP, либо адрес соединения без порта
func ClientKey(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
