package bootstrap

import (
	"context"

	"JournalVault/internal/cli/api"
	"JournalVault/internal/cli/repo"
	"JournalVault/internal/cli/service"
	"JournalVault/internal/config"

	"go.uber.org/zap"
)

// OpenSyncer открывает локальное хранилище, создаёт Syncer и загружает идентичность хранилища.
// Возвращает (syncer, cleanup, error).
func OpenSyncer(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*service.Syncer, func() error, error) {
	kv, closeStore, err := OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	s := NewSyncer(cfg, repo.NewJournalStore(kv), log)
	if err := s.Load(ctx); err != nil {
		_ = closeStore()
		return nil, nil, err
	}
	return s, closeStore, nil
}

// NewSyncer связывает Syncer с HTTP-клиентом сервера синхронизации.
func NewSyncer(cfg *config.Config, store repo.JournalStore, log *zap.SugaredLogger, opts ...service.SyncerOption) *service.Syncer {
	factory := func(endpoint, apiKey string) service.Remote {
		return api.NewClient(endpoint, apiKey, cfg.HTTPTimeout)
	}
	sc := service.SyncerConfig{
		Endpoint: cfg.ServerURL,
		APIKey:   cfg.ClientAPIKey,
		Offline:  cfg.Offline,
	}
	opts = append([]service.SyncerOption{service.WithQueueOptions(service.WithDebounce(cfg.SyncDebounce))}, opts...)
	return service.NewSyncer(store, factory, sc, log, opts...)
}
