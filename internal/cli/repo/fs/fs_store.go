package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"JournalVault/internal/cli/repo"
)

// AppDirName: имя каталога приложения внутри пользовательского конфиг-каталога.
const AppDirName = "JournalVault"

// FSStore: файловое key-value хранилище, один файл на ключ.
type FSStore struct {
	dir string
}

var _ repo.KVStore = (*FSStore)(nil)

var keyRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ConfigDir возвращает (и создаёт) каталог приложения в пользовательском конфиг-каталоге.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, AppDirName)
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return p, nil
}

// NewFSStore открывает хранилище в каталоге dir. Пустой dir: каталог по умолчанию.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(d, "kv")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) path(key string) (string, error) {
	if !keyRe.MatchString(key) {
		return "", fmt.Errorf("invalid key: %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

// Get читает значение ключа из файла.
func (s *FSStore) Get(_ context.Context, key string) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", repo.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Set атомарно перезаписывает файл ключа (через временный файл и rename).
func (s *FSStore) Set(_ context.Context, key, value string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Delete удаляет файл ключа.
func (s *FSStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
