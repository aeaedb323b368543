package repository

import (
	"database/sql"

	"github.com/tempizhere/shorty/internal/models"
	"go.uber.org/zap"
)

// PostgresRepository реализует интерфейс Repository с использованием PostgreSQL.
// Атомарность создания обеспечивается ограничением уникальности на колонке
// code: INSERT ... ON CONFLICT DO NOTHING не затрагивает ни одной строки,
// если код уже занят.
type PostgresRepository struct {
	db     Database
	logger *zap.Logger
}

// NewPostgresRepository создаёт новый экземпляр PostgresRepository
func NewPostgresRepository(db Database, logger *zap.Logger) (*PostgresRepository, error) {
	if db == nil {
		return nil, nil
	}
	return &PostgresRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Exists проверяет наличие записи с указанным кодом
func (r *PostgresRepository) Exists(code string) (bool, error) {
	var one int
	err := r.db.QueryRow("SELECT 1 FROM links WHERE code = $1", code).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		r.logger.Error("Failed to probe code", zap.String("code", code), zap.Error(err))
		return false, err
	}
	return true, nil
}

// Create атомарно создаёт запись; возвращает ErrCodeExists, если код занят
func (r *PostgresRepository) Create(rec models.LinkRecord) error {
	res, err := r.db.Exec(
		"INSERT INTO links (code, original_url, created_at, expires_at, client_id) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (code) DO NOTHING",
		rec.Code, rec.URL, rec.CreatedAt, rec.ExpiresAt, rec.ClientID,
	)
	if err != nil {
		r.logger.Error("Failed to create record", zap.String("code", rec.Code), zap.Error(err))
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCodeExists
	}
	return nil
}

// Get возвращает запись по коду
func (r *PostgresRepository) Get(code string) (models.LinkRecord, error) {
	var rec models.LinkRecord
	err := r.db.QueryRow(
		"SELECT code, original_url, created_at, expires_at, client_id FROM links WHERE code = $1", code,
	).Scan(&rec.Code, &rec.URL, &rec.CreatedAt, &rec.ExpiresAt, &rec.ClientID)
	if err == sql.ErrNoRows {
		return models.LinkRecord{}, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get record", zap.String("code", code), zap.Error(err))
		return models.LinkRecord{}, err
	}
	return rec, nil
}

// Delete удаляет запись; удаление отсутствующей записи не является ошибкой
func (r *PostgresRepository) Delete(code string) error {
	_, err := r.db.Exec("DELETE FROM links WHERE code = $1", code)
	if err != nil {
		r.logger.Error("Failed to delete record", zap.String("code", code), zap.Error(err))
		return err
	}
	return nil
}

// DeleteExpired удаляет записи с истёкшим сроком жизни и возвращает их количество
func (r *PostgresRepository) DeleteExpired(now int64) (int, error) {
	res, err := r.db.Exec("DELETE FROM links WHERE expires_at < $1", now)
	if err != nil {
		r.logger.Error("Failed to delete expired records", zap.Error(err))
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// Count возвращает количество записей в хранилище
func (r *PostgresRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM links").Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count records", zap.Error(err))
		return 0, err
	}
	return count, nil
}
