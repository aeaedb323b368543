// Package ratelimit содержит ограничитель частоты запросов на создание ссылок.
//
// Используется счётчик с фиксированным окном: идентификатор окна вычисляется
// как now/window, при смене окна счётчик клиента сбрасывается. Ограничитель
// защищает от злоупотреблений и не претендует на точность биллинга.
package ratelimit

import (
	"sync"
	"time"
)

// counter хранит состояние клиента в текущем окне
type counter struct {
	window int64
	count  int
}

// Limiter ограничивает число запросов клиента в пределах одного окна
type Limiter struct {
	limit    int
	window   time.Duration
	mutex    sync.Mutex
	counters map[string]*counter
	now      func() time.Time
}

// NewLimiter создаёт новый Limiter с порогом limit запросов на окно window
func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:    limit,
		window:   window,
		counters: make(map[string]*counter),
		now:      time.Now,
	}
}

// Allow сообщает, разрешён ли запрос клиента clientKey, и учитывает его.
// Отказ происходит до инкремента: в одном окне проходит ровно limit запросов.
// Инкремент и сравнение выполняются под мьютексом, поэтому два одновременных
// запроса не могут оба прочитать count = limit-1 и оба пройти.
func (l *Limiter) Allow(clientKey string) bool {
	window := l.now().UnixNano() / int64(l.window)

	l.mutex.Lock()
	defer l.mutex.Unlock()

	c, exists := l.counters[clientKey]
	if !exists || c.window != window {
		// Новое окно: прежний счётчик отбрасывается
		l.counters[clientKey] = &counter{window: window, count: 1}
		return true
	}
	if c.count >= l.limit {
		return false
	}
	c.count++
	return true
}

// Prune удаляет счётчики прошедших окон и возвращает их количество.
// Вызывается фоновой очисткой, чтобы map не рос на уникальных клиентах.
func (l *Limiter) Prune() int {
	window := l.now().UnixNano() / int64(l.window)

	l.mutex.Lock()
	defer l.mutex.Unlock()

	removed := 0
	for key, c := range l.counters {
		if c.window != window {
			delete(l.counters, key)
			removed++
		}
	}
	return removed
}
