package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/tempizhere/shorty/internal/config"
	"github.com/tempizhere/shorty/internal/models"
	"github.com/tempizhere/shorty/internal/ratelimit"
	"github.com/tempizhere/shorty/internal/repository"
	"github.com/tempizhere/shorty/internal/service"
	"go.uber.org/zap"
)

// newTestApp собирает приложение с репозиторием в памяти и роутером
func newTestApp(t *testing.T, rateLimit int) chi.Router {
	t.Helper()
	cfg := &config.Config{
		BaseURL:            "http://localhost:8080",
		CodeLength:         6,
		MaxURLLength:       2048,
		AllowedTTLDays:     []int{7, 15, 30, 90},
		DefaultTTLDays:     7,
		RateLimitPerMinute: rateLimit,
		RedirectStatus:     http.StatusFound,
	}
	repo := repository.NewMemoryRepository()
	limiter := ratelimit.NewLimiter(rateLimit, time.Minute)
	svc := service.NewService(repo, limiter, cfg, zap.NewNop())
	a := NewApp(svc, nil, cfg, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/api/shorten", a.HandleShorten)
	r.Get("/api/expand/{code}", a.HandleExpand)
	r.Get("/ping", a.HandlePing)
	r.Get("/api/internal/stats", a.HandleStats)
	r.Get("/{code}", a.HandleRedirect)
	return r
}

// shorten выполняет запрос на создание ссылки и разбирает ответ
func shorten(t *testing.T, r chi.Router, body string) (*httptest.ResponseRecorder, models.ShortenResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp models.ShortenResponse
	if rec.Code == http.StatusCreated {
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "Response should be valid JSON")
	}
	return rec, resp
}

func TestHandleShorten(t *testing.T) {
	router := newTestApp(t, 1000)

	// Тест 1: Успешное создание
	rec, resp := shorten(t, router, `{"url": "https://example.com/page", "ttl_days": 30}`)
	assert.Equal(t, http.StatusCreated, rec.Code, "Status should be 201")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), "Content-Type should be application/json")
	assert.Len(t, resp.Code, 6, "Code should be 6 characters long")
	assert.Equal(t, "http://localhost:8080/"+resp.Code, resp.ShortURL, "Short URL should include base URL")

	created, err := time.Parse(time.RFC3339, resp.CreatedAt)
	assert.NoError(t, err, "CreatedAt should be RFC3339")
	expires, err := time.Parse(time.RFC3339, resp.ExpiresAt)
	assert.NoError(t, err, "ExpiresAt should be RFC3339")
	assert.Equal(t, 30*24*time.Hour, expires.Sub(created), "TTL should be 30 days")

	// Тест 2: TTL по умолчанию
	rec, resp = shorten(t, router, `{"url": "https://example.com/other"}`)
	assert.Equal(t, http.StatusCreated, rec.Code, "Status should be 201")
	created, _ = time.Parse(time.RFC3339, resp.CreatedAt)
	expires, _ = time.Parse(time.RFC3339, resp.ExpiresAt)
	assert.Equal(t, 7*24*time.Hour, expires.Sub(created), "Default TTL should be 7 days")
}

func TestHandleShorten_Errors(t *testing.T) {
	router := newTestApp(t, 1000)

	tests := []struct {
		name         string
		body         string
		expectedCode int
		expectedErr  string
	}{
		{"Invalid URL", `{"url": "not-a-url"}`, http.StatusBadRequest, "invalid_input"},
		{"Wrong scheme", `{"url": "ftp://example.com"}`, http.StatusBadRequest, "invalid_input"},
		{"Disallowed TTL", `{"url": "https://example.com", "ttl_days": 999}`, http.StatusBadRequest, "invalid_input"},
		{"Broken JSON", `{"url": `, http.StatusBadRequest, "invalid_input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := shorten(t, router, tt.body)
			assert.Equal(t, tt.expectedCode, rec.Code, "Status should match")

			var errResp models.ErrorResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp), "Error body should be valid JSON")
			assert.Equal(t, tt.expectedErr, errResp.ErrorCode, "Error code should match")
			assert.NotEmpty(t, errResp.Message, "Message should not be empty")
		})
	}

	// Тест: Content-Type обязателен
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", strings.NewReader(`{"url": "https://example.com"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "Missing Content-Type should be rejected")
}

func TestHandleShorten_RateLimited(t *testing.T) {
	router := newTestApp(t, 1)

	rec, _ := shorten(t, router, `{"url": "https://example.com/1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code, "First request should pass")

	rec, _ = shorten(t, router, `{"url": "https://example.com/2"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "Second request should be rate limited")

	var errResp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp), "Error body should be valid JSON")
	assert.Equal(t, "rate_limited", errResp.ErrorCode, "Error code should be rate_limited")
}

func TestHandleRedirect(t *testing.T) {
	router := newTestApp(t, 1000)

	_, resp := shorten(t, router, `{"url": "https://example.com/target"}`)

	// Тест 1: Редирект на оригинальный URL
	req := httptest.NewRequest(http.MethodGet, "/"+resp.Code, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code, "Status should be 302")
	assert.Equal(t, "https://example.com/target", rec.Header().Get("Location"), "Location should match original URL")

	// Тест 2: Неизвестный код
	req = httptest.NewRequest(http.MethodGet, "/zzzzz1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code, "Unknown code should return 404")

	var errResp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp), "Error body should be valid JSON")
	assert.Equal(t, "not_found", errResp.ErrorCode, "Error code should be not_found")

	// Тест 3: Некорректный код неотличим от отсутствующего
	req = httptest.NewRequest(http.MethodGet, "/ab", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code, "Malformed code should return 404")
}

func TestHandleExpand(t *testing.T) {
	router := newTestApp(t, 1000)

	_, resp := shorten(t, router, `{"url": "https://example.com/target"}`)

	// Тест 1: Разворачивание без редиректа
	req := httptest.NewRequest(http.MethodGet, "/api/expand/"+resp.Code, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "Status should be 200")

	var expand models.ExpandResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &expand), "Response should be valid JSON")
	assert.Equal(t, "https://example.com/target", expand.URL, "URL should match original")

	// Тест 2: Неизвестный код
	req = httptest.NewRequest(http.MethodGet, "/api/expand/zzzzz1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code, "Unknown code should return 404")
}

func TestHandlePing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := &config.Config{BaseURL: "http://localhost:8080", CodeLength: 6, MaxURLLength: 2048, AllowedTTLDays: []int{7}, DefaultTTLDays: 7, RedirectStatus: http.StatusFound}
	repo := repository.NewMemoryRepository()
	limiter := ratelimit.NewLimiter(1000, time.Minute)
	svc := service.NewService(repo, limiter, cfg, zap.NewNop())

	// Тест 1: База данных доступна
	mockDB := repository.NewMockDatabase(ctrl)
	mockDB.EXPECT().Ping().Return(nil)
	a := NewApp(svc, mockDB, cfg, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	a.HandlePing(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "Status should be 200")

	// Тест 2: База данных недоступна
	mockDB.EXPECT().Ping().Return(errors.New("connection refused"))
	rec = httptest.NewRecorder()
	a.HandlePing(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code, "Status should be 500")

	// Тест 3: База данных не настроена
	a = NewApp(svc, nil, cfg, zap.NewNop())
	rec = httptest.NewRecorder()
	a.HandlePing(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code, "Status should be 500 without database")
}

func TestHandleStats(t *testing.T) {
	router := newTestApp(t, 1000)

	shorten(t, router, `{"url": "https://example.com/1"}`)
	shorten(t, router, `{"url": "https://example.com/2"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/internal/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "Status should be 200")

	var stats models.StatsResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats), "Response should be valid JSON")
	assert.Equal(t, 2, stats.Links, "Stats should count stored links")
}
