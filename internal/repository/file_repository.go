package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/tempizhere/shorty/internal/models"
	"go.uber.org/zap"
)

// FileRepository реализует интерфейс Repository поверх файловой системы.
// Каждая запись хранится отдельным JSON-файлом в двухуровневом бакете,
// вычисляемом ShardResolver по первым двум символам кода. Атомарность
// создания обеспечивается записью во временный файл и жёсткой ссылкой
// на итоговое имя: ссылка на существующее имя завершается EEXIST, поэтому
// из конкурентных создателей одного кода выигрывает ровно один, а частично
// записанный файл никогда не виден читателям.
type FileRepository struct {
	root     string
	resolver *ShardResolver
	logger   *zap.Logger
}

// NewFileRepository создаёт новый экземпляр FileRepository с корнем root
func NewFileRepository(root string, logger *zap.Logger) (*FileRepository, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	return &FileRepository{
		root:     root,
		resolver: NewShardResolver(root),
		logger:   logger,
	}, nil
}

// Exists проверяет наличие записи с указанным кодом без чтения содержимого
func (r *FileRepository) Exists(code string) (bool, error) {
	path, err := r.resolver.Locate(code)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create атомарно создаёт запись; возвращает ErrCodeExists, если код занят
func (r *FileRepository) Create(rec models.LinkRecord) error {
	path, err := r.resolver.Locate(rec.Code)
	if err != nil {
		return err
	}

	// Бакет создаётся лениво, повторный MkdirAll ничего не делает
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	// Пишем во временный файл в том же бакете
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Жёсткая ссылка атомарно публикует запись и отвергает дубликат
	if err := os.Link(tmpName, path); err != nil {
		if os.IsExist(err) {
			return ErrCodeExists
		}
		return err
	}
	return nil
}

// Get возвращает запись по коду
func (r *FileRepository) Get(code string) (models.LinkRecord, error) {
	var rec models.LinkRecord

	path, err := r.resolver.Locate(code)
	if err != nil {
		return rec, ErrNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rec, ErrNotFound
		}
		return rec, err
	}

	if err := json.Unmarshal(data, &rec); err != nil {
		r.logger.Warn("Failed to parse record", zap.String("code", code), zap.Error(err))
		return rec, ErrCorruptRecord
	}
	return rec, nil
}

// Delete удаляет запись; удаление отсутствующей записи не является ошибкой
func (r *FileRepository) Delete(code string) error {
	path, err := r.resolver.Locate(code)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DeleteExpired удаляет записи с истёкшим сроком жизни и возвращает их количество.
// Ошибки отдельных записей логируются и пропускаются.
func (r *FileRepository) DeleteExpired(now int64) (int, error) {
	removed := 0
	err := r.walk(func(path string) {
		data, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("Sweep: failed to read record", zap.String("path", path), zap.Error(err))
			return
		}
		var rec models.LinkRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			r.logger.Warn("Sweep: skipping corrupt record", zap.String("path", path), zap.Error(err))
			return
		}
		if now > rec.ExpiresAt {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				r.logger.Warn("Sweep: failed to remove record", zap.String("path", path), zap.Error(err))
				return
			}
			removed++
		}
	})
	return removed, err
}

// Count возвращает количество записей в хранилище
func (r *FileRepository) Count() (int, error) {
	count := 0
	err := r.walk(func(string) {
		count++
	})
	return count, err
}

// walk обходит все файлы записей в двухуровневой структуре бакетов
func (r *FileRepository) walk(fn func(path string)) error {
	level1, err := os.ReadDir(r.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, d1 := range level1 {
		if !d1.IsDir() {
			continue
		}
		level2, err := os.ReadDir(filepath.Join(r.root, d1.Name()))
		if err != nil {
			r.logger.Warn("Sweep: failed to read bucket", zap.String("bucket", d1.Name()), zap.Error(err))
			continue
		}
		for _, d2 := range level2 {
			if !d2.IsDir() {
				continue
			}
			bucket := filepath.Join(r.root, d1.Name(), d2.Name())
			entries, err := os.ReadDir(bucket)
			if err != nil {
				r.logger.Warn("Sweep: failed to read bucket", zap.String("bucket", bucket), zap.Error(err))
				continue
			}
			for _, e := range entries {
				if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
					continue
				}
				fn(filepath.Join(bucket, e.Name()))
			}
		}
	}
	return nil
}
