// Package config содержит настройки приложения.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config содержит настройки приложения
type Config struct {
	RunAddr            string
	GRPCAddr           string
	BaseURL            string
	DataDir            string
	DatabaseDSN        string
	JWTSecret          string
	TrustedSubnet      string
	CodeLength         int
	MaxURLLength       int
	AllowedTTLDays     []int
	DefaultTTLDays     int
	RateLimitPerMinute int
	RedirectStatus     int
	CleanupProbability float64
	SweepIntervalSec   int
}

// NewConfig создает и возвращает новый объект Config с настройками по умолчанию и парсит флаги командной строки
func NewConfig() (*Config, error) {
	cfg := &Config{
		CodeLength:         6,
		MaxURLLength:       2048,
		AllowedTTLDays:     []int{7, 15, 30, 90},
		DefaultTTLDays:     7,
		RateLimitPerMinute: 60,
		RedirectStatus:     302,
		CleanupProbability: 0.01,
		SweepIntervalSec:   0,
	}

	// Регистрируем флаги
	flagRunAddr := flag.String("a", ":8080", "address and port to run HTTP server")
	flagGRPCAddr := flag.String("g", "", "address and port to run gRPC server (disabled if empty)")
	flagBaseURL := flag.String("b", "http://localhost:8080", "base URL for shortened links")
	flagDataDir := flag.String("f", "data", "directory for the sharded link storage")
	flagDatabaseDSN := flag.String("d", "", "database DSN for PostgreSQL")
	flagJWTSecret := flag.String("j", "default_jwt_secret", "JWT secret key for client tokens")
	flagTrustedSubnet := flag.String("t", "", "trusted subnet in CIDR notation for internal endpoints")
	flag.Parse()

	// Проверяем переменные окружения
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.RunAddr = addr
	} else {
		cfg.RunAddr = *flagRunAddr
	}

	if addr := os.Getenv("GRPC_ADDRESS"); addr != "" {
		cfg.GRPCAddr = addr
	} else {
		cfg.GRPCAddr = *flagGRPCAddr
	}

	if url := os.Getenv("BASE_URL"); url != "" {
		cfg.BaseURL = url
	} else {
		cfg.BaseURL = *flagBaseURL
	}

	if dir := os.Getenv("DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	} else {
		cfg.DataDir = *flagDataDir
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.DatabaseDSN = dsn
	} else {
		cfg.DatabaseDSN = *flagDatabaseDSN
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	} else {
		cfg.JWTSecret = *flagJWTSecret
	}

	if subnet := os.Getenv("TRUSTED_SUBNET"); subnet != "" {
		cfg.TrustedSubnet = subnet
	} else {
		cfg.TrustedSubnet = *flagTrustedSubnet
	}

	if v := os.Getenv("RATE_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return nil, errInvalidEnv("RATE_LIMIT", v)
		}
		cfg.RateLimitPerMinute = limit
	}

	if v := os.Getenv("REDIRECT_STATUS"); v != "" {
		status, err := strconv.Atoi(v)
		if err != nil || (status != 301 && status != 302) {
			return nil, errInvalidEnv("REDIRECT_STATUS", v)
		}
		cfg.RedirectStatus = status
	}

	if v := os.Getenv("CLEANUP_PROBABILITY"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 || p > 1 {
			return nil, errInvalidEnv("CLEANUP_PROBABILITY", v)
		}
		cfg.CleanupProbability = p
	}

	if v := os.Getenv("SWEEP_INTERVAL_SEC"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec < 0 {
			return nil, errInvalidEnv("SWEEP_INTERVAL_SEC", v)
		}
		cfg.SweepIntervalSec = sec
	}

	// Валидация значений
	if !strings.Contains(cfg.RunAddr, ":") {
		cfg.RunAddr = ":" + cfg.RunAddr
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		cfg.BaseURL = "http://" + cfg.BaseURL
	}
	if cfg.DataDir != "" {
		// Создаём корневую директорию хранилища, если она не существует
		if err := os.MkdirAll(filepath.Clean(cfg.DataDir), 0755); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// errInvalidEnv возвращает ошибку о некорректном значении переменной окружения
func errInvalidEnv(name, value string) error {
	return fmt.Errorf("invalid %s value: %q", name, value)
}

// AllowedTTL проверяет, входит ли ttlDays в список разрешённых TTL
func (c *Config) AllowedTTL(ttlDays int) bool {
	for _, d := range c.AllowedTTLDays {
		if d == ttlDays {
			return true
		}
	}
	return false
}
