package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"JournalVault/internal/cli/repo"
	fsrepo "JournalVault/internal/cli/repo/fs"

	_ "modernc.org/sqlite"
)

// KVStoreSQLite: локальное key-value хранилище клиента поверх SQLite.
type KVStoreSQLite struct {
	db *sql.DB
}

var _ repo.KVStore = (*KVStoreSQLite)(nil)

// DefaultPath возвращает путь к файлу БД в каталоге приложения.
func DefaultPath() (string, error) {
	dir, err := fsrepo.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "client.sqlite"), nil
}

// Open открывает (и создаёт при необходимости) файл БД по пути dbPath.
// Пустой путь: файл по умолчанию. Вторым значением возвращается фактический путь.
func Open(dbPath string) (*KVStoreSQLite, string, error) {
	if dbPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, "", err
		}
		dbPath = p
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
			return nil, "", err
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, "", err
	}
	// один писатель: SQLite не любит конкурентную запись из пула соединений
	db.SetMaxOpenConns(1)
	return &KVStoreSQLite{db: db}, dbPath, nil
}

// Close закрывает соединение с БД.
func (r *KVStoreSQLite) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Migrate гарантирует наличие необходимых таблиц.
func (r *KVStoreSQLite) Migrate() error {
	ddl, err := migrations()
	if err != nil {
		return err
	}
	for _, q := range ddl {
		if _, err := r.db.Exec(q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Get возвращает значение по ключу.
func (r *KVStoreSQLite) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repo.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// Set вставляет или обновляет значение ключа.
func (r *KVStoreSQLite) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO kv(key, value, updated_at) VALUES(?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Unix())
	return err
}

// Delete удаляет ключ.
func (r *KVStoreSQLite) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}
