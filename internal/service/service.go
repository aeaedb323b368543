// Package service содержит бизнес-логику сервиса коротких ссылок.
package service

import (
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"regexp"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/tempizhere/shorty/internal/config"
	"github.com/tempizhere/shorty/internal/models"
	"github.com/tempizhere/shorty/internal/ratelimit"
	"github.com/tempizhere/shorty/internal/repository"
	"go.uber.org/zap"
)

// codeAlphabet задаёт 62-символьный алфавит кодов коротких ссылок
const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	ErrInvalidURL  = errors.New("invalid URL")
	ErrInvalidTTL  = errors.New("invalid TTL")
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrBusy        = errors.New("failed to generate unique code")
)

// Service реализует создание и разрешение коротких ссылок
type Service struct {
	repo        repository.Repository
	limiter     *ratelimit.Limiter
	logger      *zap.Logger
	baseURL     string
	codeLength  int
	maxURLLen   int
	allowedTTLs map[int]bool
	defaultTTL  int
	maxAttempts int
	cleanupProb float64
	codePattern *regexp.Regexp
	tokens      *tokenService
	now         func() time.Time
}

// NewService создаёт новый экземпляр Service
func NewService(repo repository.Repository, limiter *ratelimit.Limiter, cfg *config.Config, logger *zap.Logger) *Service {
	allowed := make(map[int]bool, len(cfg.AllowedTTLDays))
	for _, d := range cfg.AllowedTTLDays {
		allowed[d] = true
	}
	return &Service{
		repo:        repo,
		limiter:     limiter,
		logger:      logger,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		codeLength:  cfg.CodeLength,
		maxURLLen:   cfg.MaxURLLength,
		allowedTTLs: allowed,
		defaultTTL:  cfg.DefaultTTLDays,
		maxAttempts: 5,
		cleanupProb: cfg.CleanupProbability,
		codePattern: regexp.MustCompile(fmt.Sprintf("^[0-9a-zA-Z]{%d}$", cfg.CodeLength)),
		now:         time.Now,
	}
}

// GenerateCode генерирует случайный код из 62-символьного алфавита.
// Используется криптографический источник случайности: предсказуемые коды
// позволяют перебор чужих ссылок.
func (s *Service) GenerateCode() (string, error) {
	return gonanoid.Generate(codeAlphabet, s.codeLength)
}

// Shorten создаёт короткую ссылку на originalURL со сроком жизни ttlDays дней.
// clientKey идентифицирует клиента для ограничителя частоты и сохраняется
// в записи в диагностических целях.
func (s *Service) Shorten(originalURL string, ttlDays int, clientKey string) (models.LinkRecord, error) {
	originalURL = strings.TrimSpace(originalURL)
	if originalURL == "" || len(originalURL) > s.maxURLLen {
		return models.LinkRecord{}, ErrInvalidURL
	}
	u, err := url.Parse(originalURL)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return models.LinkRecord{}, ErrInvalidURL
	}
	if !s.allowedTTLs[ttlDays] {
		return models.LinkRecord{}, ErrInvalidTTL
	}

	// Ограничитель срабатывает до любых обращений к хранилищу
	if !s.limiter.Allow(clientKey) {
		return models.LinkRecord{}, ErrRateLimited
	}

	now := s.now().Unix()
	rec := models.LinkRecord{
		URL:       originalURL,
		CreatedAt: now,
		ExpiresAt: now + int64(ttlDays)*86400,
		ClientID:  clientKey,
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		code, err := s.GenerateCode()
		if err != nil {
			return models.LinkRecord{}, err
		}

		// Дешёвая проверка занятости до записи
		exists, err := s.repo.Exists(code)
		if err != nil {
			return models.LinkRecord{}, err
		}
		if exists {
			continue
		}

		rec.Code = code
		err = s.repo.Create(rec)
		if errors.Is(err, repository.ErrCodeExists) {
			// Проигранная гонка за код считается коллизией и повторяется
			continue
		}
		if err != nil {
			return models.LinkRecord{}, err
		}

		s.maybeSweep()
		return rec, nil
	}

	// Исчерпание попыток говорит о неисправности хранилища, а не о
	// заполнении пространства кодов
	s.logger.Error("Exhausted code generation attempts", zap.Int("attempts", s.maxAttempts))
	return models.LinkRecord{}, ErrBusy
}

// Resolve возвращает оригинальный URL по коду.
// Код с неверным форматом неотличим от несуществующего, чтобы ответы не
// служили оракулом для перебора.
func (s *Service) Resolve(code string) (string, error) {
	if !s.codePattern.MatchString(code) {
		return "", repository.ErrNotFound
	}

	rec, err := s.repo.Get(code)
	if err != nil {
		return "", err
	}

	if rec.Expired(s.now()) {
		// Ленивое удаление; неудача не мешает вернуть NotFound
		if err := s.repo.Delete(code); err != nil {
			s.logger.Warn("Failed to delete expired record", zap.String("code", code), zap.Error(err))
		}
		return "", repository.ErrNotFound
	}

	return rec.URL, nil
}

// DefaultTTL возвращает срок жизни в днях, применяемый когда клиент его не указал
func (s *Service) DefaultTTL() int {
	return s.defaultTTL
}

// ShortURL собирает полную короткую ссылку для кода
func (s *Service) ShortURL(code string) string {
	return s.baseURL + "/" + code
}

// Sweep удаляет записи с истёкшим сроком жизни и устаревшие счётчики
// ограничителя; возвращает количество удалённых записей
func (s *Service) Sweep() (int, error) {
	removed, err := s.repo.DeleteExpired(s.now().Unix())
	if err != nil {
		return removed, err
	}
	s.limiter.Prune()
	return removed, nil
}

// maybeSweep с настроенной вероятностью запускает очистку в отдельной
// горутине, чтобы не добавлять задержку в путь создания ссылки
func (s *Service) maybeSweep() {
	if s.cleanupProb <= 0 || rand.Float64() >= s.cleanupProb {
		return
	}
	go func() {
		removed, err := s.Sweep()
		if err != nil {
			s.logger.Warn("Background sweep failed", zap.Error(err))
			return
		}
		if removed > 0 {
			s.logger.Info("Background sweep finished", zap.Int("removed", removed))
		}
	}()
}

// Count возвращает количество записей в хранилище
func (s *Service) Count() (int, error) {
	return s.repo.Count()
}
