// Package app содержит HTTP-обработчики сервиса коротких ссылок.
package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tempizhere/shorty/internal/config"
	"github.com/tempizhere/shorty/internal/middleware"
	"github.com/tempizhere/shorty/internal/models"
	"github.com/tempizhere/shorty/internal/repository"
	"github.com/tempizhere/shorty/internal/service"
	"go.uber.org/zap"
)

// App содержит хендлеры и зависимости
type App struct {
	svc    *service.Service
	db     repository.Database
	cfg    *config.Config
	logger *zap.Logger
}

// NewApp создаёт новое приложение
func NewApp(svc *service.Service, db repository.Database, cfg *config.Config, logger *zap.Logger) *App {
	return &App{svc: svc, db: db, cfg: cfg, logger: logger}
}

// HandleShorten обрабатывает POST-запросы на "/api/shorten"
func (a *App) HandleShorten(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		a.writeError(w, http.StatusBadRequest, "invalid_input", "Content-Type must be application/json")
		return
	}

	var reqBody models.ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid_input", "Invalid JSON")
		return
	}
	if reqBody.TTLDays == 0 {
		reqBody.TTLDays = a.cfg.DefaultTTLDays
	}

	rec, err := a.svc.Shorten(reqBody.URL, reqBody.TTLDays, middleware.ClientKey(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidURL):
			a.writeError(w, http.StatusBadRequest, "invalid_input", "Invalid URL format or schema")
		case errors.Is(err, service.ErrInvalidTTL):
			a.writeError(w, http.StatusBadRequest, "invalid_input", "Invalid TTL")
		case errors.Is(err, service.ErrRateLimited):
			a.writeError(w, http.StatusTooManyRequests, "rate_limited", "Rate limit exceeded")
		case errors.Is(err, service.ErrBusy):
			a.writeError(w, http.StatusServiceUnavailable, "service_busy", "Failed to allocate a code, retry later")
		default:
			a.logger.Error("Failed to shorten URL", zap.Error(err))
			a.writeError(w, http.StatusInternalServerError, "storage_failure", "Storage write failed")
		}
		return
	}

	respBody := models.ShortenResponse{
		Code:      rec.Code,
		ShortURL:  a.svc.ShortURL(rec.Code),
		CreatedAt: time.Unix(rec.CreatedAt, 0).UTC().Format(time.RFC3339),
		ExpiresAt: time.Unix(rec.ExpiresAt, 0).UTC().Format(time.RFC3339),
	}
	a.writeJSONResponse(w, http.StatusCreated, respBody)
}

// HandleRedirect обрабатывает GET-запросы на "/{code}"
func (a *App) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}
	code := chi.URLParam(r, "code")

	originalURL, err := a.svc.Resolve(code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			a.writeError(w, http.StatusNotFound, "not_found", "Link not found or expired")
			return
		}
		a.logger.Error("Failed to resolve code", zap.String("code", code), zap.Error(err))
		a.writeError(w, http.StatusInternalServerError, "storage_failure", "Storage read failed")
		return
	}

	w.Header().Set("Location", originalURL)
	w.WriteHeader(a.cfg.RedirectStatus)
}

// HandleExpand обрабатывает GET-запросы на "/api/expand/{code}"
func (a *App) HandleExpand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}
	code := chi.URLParam(r, "code")

	originalURL, err := a.svc.Resolve(code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			a.writeError(w, http.StatusNotFound, "not_found", "Link not found or expired")
			return
		}
		a.logger.Error("Failed to resolve code", zap.String("code", code), zap.Error(err))
		a.writeError(w, http.StatusInternalServerError, "storage_failure", "Storage read failed")
		return
	}

	a.writeJSONResponse(w, http.StatusOK, models.ExpandResponse{URL: originalURL})
}

// HandlePing обрабатывает GET-запросы на "/ping"
func (a *App) HandlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}
	if a.db == nil {
		http.Error(w, "Database not configured", http.StatusInternalServerError)
		return
	}
	if err := a.db.Ping(); err != nil {
		http.Error(w, "Database connection failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleStats обрабатывает GET-запросы на "/api/internal/stats"
func (a *App) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	count, err := a.svc.Count()
	if err != nil {
		a.logger.Error("Failed to count records", zap.Error(err))
		a.writeError(w, http.StatusInternalServerError, "storage_failure", "Storage read failed")
		return
	}

	a.writeJSONResponse(w, http.StatusOK, models.StatsResponse{Links: count})
}

// writeJSONResponse пишет JSON-ответ с проверкой ошибок
func (a *App) writeJSONResponse(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to encode JSON", http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(data); err != nil {
		a.logger.Warn("Failed to write response", zap.Error(err))
	}
}

// writeError пишет JSON-ответ об ошибке в формате {error_code, message}
func (a *App) writeError(w http.ResponseWriter, status int, errorCode, message string) {
	a.writeJSONResponse(w, status, models.ErrorResponse{
		ErrorCode: errorCode,
		Message:   message,
	})
}
