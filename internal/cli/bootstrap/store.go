package bootstrap

import (
	"fmt"

	"JournalVault/internal/cli/repo"
	fsrepo "JournalVault/internal/cli/repo/fs"
	reposqlite "JournalVault/internal/cli/repo/sqlite"
	"JournalVault/internal/config"
)

// OpenStore открывает локальное key-value хранилище клиента (SQLite или файлы)
// и возвращает (store, cleanup, error).
// cleanup необходимо вызвать после окончания работы, чтобы закрыть соединение с БД.
func OpenStore(cfg *config.Config) (repo.KVStore, func() error, error) {
	if cfg.ClientStore == config.StoreFS {
		s, err := fsrepo.NewFSStore(cfg.ClientDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		return s, func() error { return nil }, nil
	}
	r, _, err := reposqlite.Open(cfg.ClientDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open client db: %w", err)
	}
	if err := r.Migrate(); err != nil {
		_ = r.Close()
		return nil, nil, fmt.Errorf("migrate client db: %w", err)
	}
	return r, r.Close, nil
}
