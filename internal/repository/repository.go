// Package repository содержит хранилище записей коротких ссылок.
//
// Хранилище реализует контракт атомарного создания: из конкурентных попыток
// создать запись с одним и тем же кодом ровно одна завершается успехом,
// остальные получают ErrCodeExists. Это единственный механизм синхронизации,
// необходимый сервисному слою.
package repository

import (
	"database/sql"
	"errors"

	"github.com/tempizhere/shorty/internal/models"
)

// ErrCodeExists возвращается при попытке создать запись с уже занятым кодом
var ErrCodeExists = errors.New("code already exists")

// ErrNotFound возвращается, если запись с указанным кодом отсутствует
var ErrNotFound = errors.New("record not found")

// ErrCorruptRecord возвращается, если содержимое записи не удаётся разобрать
var ErrCorruptRecord = errors.New("corrupt record")

// Repository определяет интерфейс хранилища записей коротких ссылок
type Repository interface {
	// Exists проверяет наличие записи с указанным кодом без чтения содержимого
	Exists(code string) (bool, error)
	// Create атомарно создаёт запись; возвращает ErrCodeExists, если код занят
	Create(rec models.LinkRecord) error
	// Get возвращает запись по коду; ErrNotFound, если запись отсутствует,
	// ErrCorruptRecord, если содержимое не разбирается
	Get(code string) (models.LinkRecord, error)
	// Delete удаляет запись; удаление отсутствующей записи не является ошибкой
	Delete(code string) error
	// DeleteExpired удаляет записи с истёкшим сроком жизни и возвращает их количество.
	// Нечитаемые записи пропускаются, а не прерывают очистку.
	DeleteExpired(now int64) (int, error)
	// Count возвращает количество записей в хранилище
	Count() (int, error)
}

// Database определяет интерфейс для работы с базой данных
type Database interface {
	// Ping проверяет соединение с базой данных
	Ping() error
	// Close закрывает соединение с базой данных
	Close() error
	// Exec выполняет SQL-команду без возврата результатов
	Exec(query string, args ...interface{}) (sql.Result, error)
	// Query выполняет SQL-запрос и возвращает результаты
	Query(query string, args ...interface{}) (*sql.Rows, error)
	// QueryRow выполняет SQL-запрос и возвращает одну строку результата
	QueryRow(query string, args ...interface{}) *sql.Row
	// Begin начинает новую транзакцию
	Begin() (*sql.Tx, error)
}
