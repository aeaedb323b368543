package service_test

import (
	"fmt"
	"time"

	"github.com/tempizhere/shorty/internal/config"
	"github.com/tempizhere/shorty/internal/ratelimit"
	"github.com/tempizhere/shorty/internal/repository"
	"github.com/tempizhere/shorty/internal/service"
	"go.uber.org/zap"
)

func exampleConfig() *config.Config {
	return &config.Config{
		BaseURL:        "http://localhost:8080",
		CodeLength:     6,
		MaxURLLength:   2048,
		AllowedTTLDays: []int{7, 15, 30, 90},
		DefaultTTLDays: 7,
	}
}

// ExampleService_GenerateCode демонстрирует генерацию короткого кода
func ExampleService_GenerateCode() {
	// Создаём сервис с репозиторием в памяти
	repo := repository.NewMemoryRepository()
	limiter := ratelimit.NewLimiter(60, time.Minute)
	svc := service.NewService(repo, limiter, exampleConfig(), zap.NewNop())

	// Генерируем короткий код
	code, err := svc.GenerateCode()
	if err != nil {
		fmt.Printf("Ошибка генерации кода: %v\n", err)
		return
	}

	fmt.Printf("Длина кода: %d символов\n", len(code))
	fmt.Printf("Код содержит только допустимые символы: %t\n", func() bool {
		for _, char := range code {
			if !((char >= 'A' && char <= 'Z') || (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9')) {
				return false
			}
		}
		return true
	}())

	// Output:
	// Длина кода: 6 символов
	// Код содержит только допустимые символы: true
}

// ExampleService_Shorten демонстрирует создание короткой ссылки
func ExampleService_Shorten() {
	// Создаём сервис с репозиторием в памяти
	repo := repository.NewMemoryRepository()
	limiter := ratelimit.NewLimiter(60, time.Minute)
	svc := service.NewService(repo, limiter, exampleConfig(), zap.NewNop())

	// Создаём короткую ссылку со сроком жизни 30 дней
	originalURL := "https://example.com/very-long-url"
	rec, err := svc.Shorten(originalURL, 30, "192.168.1.1")
	if err != nil {
		fmt.Printf("Ошибка создания ссылки: %v\n", err)
		return
	}

	fmt.Printf("Оригинальный URL: %s\n", rec.URL)
	fmt.Printf("Код имеет правильную длину: %t\n", len(rec.Code) == 6)
	fmt.Printf("Срок жизни 30 дней: %t\n", rec.ExpiresAt-rec.CreatedAt == 30*86400)

	// Output:
	// Оригинальный URL: https://example.com/very-long-url
	// Код имеет правильную длину: true
	// Срок жизни 30 дней: true
}

// ExampleService_Resolve демонстрирует разрешение короткого кода
func ExampleService_Resolve() {
	// Создаём сервис с репозиторием в памяти
	repo := repository.NewMemoryRepository()
	limiter := ratelimit.NewLimiter(60, time.Minute)
	svc := service.NewService(repo, limiter, exampleConfig(), zap.NewNop())

	// Создаём короткую ссылку
	originalURL := "https://example.com/very-long-url"
	rec, _ := svc.Shorten(originalURL, 7, "192.168.1.1")

	// Разрешаем код обратно в оригинальный URL
	resolvedURL, err := svc.Resolve(rec.Code)
	if err != nil {
		fmt.Println("Ссылка не найдена")
		return
	}

	fmt.Printf("Оригинальный URL: %s\n", resolvedURL)
	fmt.Printf("URL совпадает: %t\n", resolvedURL == originalURL)

	// Output:
	// Оригинальный URL: https://example.com/very-long-url
	// URL совпадает: true
}

// ExampleService_ShortURL демонстрирует построение полной короткой ссылки
func ExampleService_ShortURL() {
	// Создаём сервис с репозиторием в памяти
	repo := repository.NewMemoryRepository()
	limiter := ratelimit.NewLimiter(60, time.Minute)
	svc := service.NewService(repo, limiter, exampleConfig(), zap.NewNop())

	fmt.Println(svc.ShortURL("Ab3xY9"))

	// Output:
	// http://localhost:8080/Ab3xY9
}
