package commands

import (
	"context"
	"fmt"

	"JournalVault/internal/cli/bootstrap"
	"JournalVault/internal/cli/prompt"
	"JournalVault/internal/cli/service"
	"JournalVault/internal/config"
)

// openSyncer: точка подмены для тестов.
var openSyncer = func(ctx context.Context, cfg *config.Config) (*service.Syncer, func() error, error) {
	return bootstrap.OpenSyncer(ctx, cfg, log)
}

// openVault открывает Syncer без разблокировки. done закрывает локальное хранилище.
func openVault(ctx context.Context, cfg *config.Config) (*service.Syncer, func(), error) {
	s, cleanup, err := openSyncer(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	done := func() { _ = cleanup() }
	if s.Identity() == nil {
		done()
		return nil, nil, service.ErrNoVault
	}
	return s, done, nil
}

// unlockVault открывает Syncer и разблокирует хранилище паролем из In.
// done отправляет накопленные изменения и закрывает хранилище.
func unlockVault(ctx context.Context, cfg *config.Config) (*service.Syncer, func(), error) {
	s, closeStore, err := openVault(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	password, err := prompt.Password(In, Out, "Password")
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("read password: %w", err)
	}
	if err := s.Unlock(ctx, password); err != nil {
		closeStore()
		return nil, nil, err
	}
	reportStatus(s)
	return s, func() { finish(ctx, cfg, s); closeStore() }, nil
}

// finish сбрасывает очередь перед выходом: процесс CLI живёт недолго.
func finish(ctx context.Context, cfg *config.Config, s *service.Syncer) {
	if st := s.QueueStatus(); st.Queued == 0 && !st.Syncing {
		return
	}
	fctx, cancel := context.WithTimeout(ctx, cfg.HTTPTimeout+cfg.SyncDebounce)
	defer cancel()
	if err := s.Flush(fctx); err != nil {
		fmt.Fprintf(Out, "! Changes saved locally but not uploaded: %v\n", err)
		return
	}
	fmt.Fprintln(Out, "✓ Synced")
}

func reportStatus(s *service.Syncer) {
	switch s.Status() {
	case service.StatusOffline:
		fmt.Fprintln(Out, "(offline: working with local data)")
	case service.StatusLocalOnly:
		fmt.Fprintln(Out, "(local-only vault)")
	}
}
