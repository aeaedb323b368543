package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken возвращается при разборе некорректного клиентского токена
var ErrInvalidToken = errors.New("invalid client token")

// tokenService выпускает и проверяет подписанные клиентские токены.
// Токен несёт анонимный идентификатор клиента для диагностики и ничего
// не разрешает: аутентификация владельцев ссылок сервисом не поддерживается.
type tokenService struct {
	secret   string
	tokenTTL time.Duration
}

// WithTokens включает выпуск клиентских токенов с указанным секретом
func (s *Service) WithTokens(secret string) *Service {
	s.tokens = &tokenService{secret: secret, tokenTTL: 24 * time.Hour}
	return s
}

// GenerateClientID генерирует случайный идентификатор клиента
func (s *Service) GenerateClientID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// GenerateJWT выпускает подписанный токен с идентификатором клиента
func (s *Service) GenerateJWT(clientID string) (string, error) {
	if s.tokens == nil {
		return "", ErrInvalidToken
	}
	claims := jwt.RegisteredClaims{
		Subject:   clientID,
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(s.now().Add(s.tokens.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.tokens.secret))
}

// ParseJWT проверяет токен и возвращает идентификатор клиента
func (s *Service) ParseJWT(tokenString string) (string, error) {
	if s.tokens == nil {
		return "", ErrInvalidToken
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.tokens.secret), nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
