package repo

import (
	"context"
	"errors"
)

// ErrNotFound возвращается KVStore.Get, если ключа нет.
var ErrNotFound = errors.New("not found")

// KVStore: порт локального строкового key-value хранилища клиента.
type KVStore interface {
	// Get возвращает значение по ключу или ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set сохраняет значение (перезаписывает существующее).
	Set(ctx context.Context, key, value string) error

	// Delete удаляет ключ; отсутствие ключа ошибкой не считается.
	Delete(ctx context.Context, key string) error
}
