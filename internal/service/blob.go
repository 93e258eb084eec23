package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"JournalVault/internal/repo"

	"go.uber.org/zap"
)

var (
	// ErrInvalidVaultID: vaultId не похож на UUID.
	ErrInvalidVaultID = errors.New("invalid vaultId format")
	// ErrInvalidPayload: пустые данные.
	ErrInvalidPayload = errors.New("invalid data format")
)

var vaultIDRe = regexp.MustCompile(`(?i)^[a-f0-9-]{36}$`)

// StorageKey: ключ блоба хранилища в репозитории.
func StorageKey(vaultID string) string {
	return "vaults/" + vaultID + "/journal.json"
}

// BlobService хранит шифротексты журналов. Сервер их не расшифровывает.
type BlobService struct {
	repo repo.BlobRepository
	log  *zap.SugaredLogger
}

func NewBlobService(r repo.BlobRepository, log *zap.SugaredLogger) *BlobService {
	return &BlobService{repo: r, log: log}
}

// Fetch возвращает шифротекст хранилища; found=false, если его нет.
func (s *BlobService) Fetch(ctx context.Context, vaultID string) (data string, found bool, err error) {
	if err := validateVaultID(vaultID); err != nil {
		return "", false, err
	}
	data, err = s.repo.Get(ctx, StorageKey(vaultID))
	if errors.Is(err, repo.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("fetch blob: %w", err)
	}
	return data, true, nil
}

// Store заменяет шифротекст хранилища.
func (s *BlobService) Store(ctx context.Context, vaultID, data string) error {
	if err := validateVaultID(vaultID); err != nil {
		return err
	}
	if data == "" {
		return ErrInvalidPayload
	}
	if err := s.repo.Put(ctx, StorageKey(vaultID), data); err != nil {
		return fmt.Errorf("store blob: %w", err)
	}
	s.log.Debugw("blob stored", "vault", vaultID, "size", len(data))
	return nil
}

// Delete удаляет шифротекст хранилища.
func (s *BlobService) Delete(ctx context.Context, vaultID string) error {
	if err := validateVaultID(vaultID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, StorageKey(vaultID)); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	s.log.Infow("blob deleted", "vault", vaultID)
	return nil
}

func validateVaultID(id string) error {
	if !vaultIDRe.MatchString(id) {
		return ErrInvalidVaultID
	}
	return nil
}
