package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(3, time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	// Тест 1: Первые limit запросов проходят
	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"), "Request %d should be allowed", i+1)
	}

	// Тест 2: Запрос сверх порога отклоняется
	assert.False(t, limiter.Allow("10.0.0.1"), "Request over the threshold should be denied")
	assert.False(t, limiter.Allow("10.0.0.1"), "Denied request must not consume the counter")

	// Тест 3: Другой клиент не затронут
	assert.True(t, limiter.Allow("10.0.0.2"), "Another client should be allowed")

	// Тест 4: Новое окно сбрасывает счётчик независимо от прежнего значения
	now = now.Add(time.Minute)
	assert.True(t, limiter.Allow("10.0.0.1"), "Request in the next window should be allowed")
}

func TestLimiter_MinuteWindow(t *testing.T) {
	// 61 запрос от одного клиента в одном окне при пороге 60
	limiter := NewLimiter(60, time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 30, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 60; i++ {
		assert.True(t, limiter.Allow("client"), "Request %d should be allowed", i+1)
	}
	assert.False(t, limiter.Allow("client"), "61st request should be denied")
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(50, time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	// Тест: При конкурентных запросах проходит ровно limit
	const requests = 200
	var wg sync.WaitGroup
	results := make([]bool, requests)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = limiter.Allow("client")
		}(i)
	}
	wg.Wait()

	allowed := 0
	for _, ok := range results {
		if ok {
			allowed++
		}
	}
	assert.Equal(t, 50, allowed, "Exactly limit requests should pass in one window")
}

func TestLimiter_Prune(t *testing.T) {
	limiter := NewLimiter(10, time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("10.0.0.1"), "Request should be allowed")
	assert.True(t, limiter.Allow("10.0.0.2"), "Request should be allowed")

	// Тест 1: В текущем окне счётчики не удаляются
	assert.Equal(t, 0, limiter.Prune(), "Current window counters should survive prune")

	// Тест 2: Счётчики прошедших окон удаляются
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, limiter.Prune(), "Stale counters should be pruned")
}
