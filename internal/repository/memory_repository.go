package repository

import (
	"sync"

	"github.com/tempizhere/shorty/internal/models"
)

// MemoryRepository реализует интерфейс Repository с использованием map.
// Используется в тестах и при запуске без файлового хранилища и базы данных.
type MemoryRepository struct {
	store map[string]models.LinkRecord
	mutex sync.RWMutex
}

// NewMemoryRepository создаёт новый экземпляр MemoryRepository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		store: make(map[string]models.LinkRecord),
	}
}

// Exists проверяет наличие записи с указанным кодом
func (r *MemoryRepository) Exists(code string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, exists := r.store[code]
	return exists, nil
}

// Create атомарно создаёт запись; возвращает ErrCodeExists, если код занят
func (r *MemoryRepository) Create(rec models.LinkRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.store[rec.Code]; exists {
		return ErrCodeExists
	}
	r.store[rec.Code] = rec
	return nil
}

// Get возвращает запись по коду
func (r *MemoryRepository) Get(code string) (models.LinkRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	rec, exists := r.store[code]
	if !exists {
		return models.LinkRecord{}, ErrNotFound
	}
	return rec, nil
}

// Delete удаляет запись; удаление отсутствующей записи не является ошибкой
func (r *MemoryRepository) Delete(code string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.store, code)
	return nil
}

// DeleteExpired удаляет записи с истёкшим сроком жизни и возвращает их количество
func (r *MemoryRepository) DeleteExpired(now int64) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	removed := 0
	for code, rec := range r.store {
		if now > rec.ExpiresAt {
			delete(r.store, code)
			removed++
		}
	}
	return removed, nil
}

// Count возвращает количество записей в хранилище
func (r *MemoryRepository) Count() (int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.store), nil
}
