package repository

import (
	"errors"
	"path/filepath"
)

// ErrBadCode возвращается, если код слишком короткий или содержит символы вне алфавита
var ErrBadCode = errors.New("malformed code")

// ShardResolver вычисляет расположение записи по её коду.
// Пространство кодов разбивается на 62×62 бакета по первым двум символам,
// что ограничивает ожидаемое число записей в директории величиной total/3844.
type ShardResolver struct {
	root string
}

// NewShardResolver создаёт новый экземпляр ShardResolver с корнем хранилища root
func NewShardResolver(root string) *ShardResolver {
	return &ShardResolver{root: root}
}

// Locate возвращает путь к файлу записи для указанного кода.
// Функция детерминирована и не зависит от существования записи.
func (s *ShardResolver) Locate(code string) (string, error) {
	dir, err := s.BucketDir(code)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, code+".json"), nil
}

// BucketDir возвращает директорию бакета для указанного кода
func (s *ShardResolver) BucketDir(code string) (string, error) {
	if len(code) < 2 {
		return "", ErrBadCode
	}
	for _, c := range []byte(code) {
		if !isAlphanumeric(c) {
			return "", ErrBadCode
		}
	}
	return filepath.Join(s.root, string(code[0]), string(code[1])), nil
}

// isAlphanumeric проверяет принадлежность символа алфавиту кодов
func isAlphanumeric(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
