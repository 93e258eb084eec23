package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"JournalVault/internal/cli/model"
)

// Ключи, под которыми документ и идентичность лежат в KVStore.
const (
	VaultConfigKey = "journal_vault_config"
	JournalDataKey = "journal_data"
)

// JournalStore: локальное хранение документа журнала и идентичности хранилища.
type JournalStore interface {
	// GetDocument возвращает сохранённый документ или (nil, nil), если его нет.
	GetDocument(ctx context.Context) (*model.JournalDocument, error)
	SaveDocument(ctx context.Context, doc *model.JournalDocument) error

	// GetIdentity возвращает идентичность хранилища или (nil, nil), если хранилище не настроено.
	GetIdentity(ctx context.Context) (*model.VaultIdentity, error)
	SaveIdentity(ctx context.Context, id model.VaultIdentity) error

	// Clear удаляет документ и идентичность.
	Clear(ctx context.Context) error
}

// KVJournalStore хранит структуры журнала в KVStore в виде JSON.
type KVJournalStore struct {
	kv KVStore
}

var _ JournalStore = (*KVJournalStore)(nil)

// NewJournalStore создаёт JournalStore поверх переданного KVStore.
func NewJournalStore(kv KVStore) *KVJournalStore {
	return &KVJournalStore{kv: kv}
}

func (s *KVJournalStore) GetDocument(ctx context.Context) (*model.JournalDocument, error) {
	var doc model.JournalDocument
	ok, err := s.load(ctx, JournalDataKey, &doc)
	if err != nil || !ok {
		return nil, err
	}
	doc.Normalize()
	return &doc, nil
}

func (s *KVJournalStore) SaveDocument(ctx context.Context, doc *model.JournalDocument) error {
	if doc == nil {
		return errors.New("nil document")
	}
	return s.store(ctx, JournalDataKey, doc)
}

func (s *KVJournalStore) GetIdentity(ctx context.Context) (*model.VaultIdentity, error) {
	var id model.VaultIdentity
	ok, err := s.load(ctx, VaultConfigKey, &id)
	if err != nil || !ok {
		return nil, err
	}
	return &id, nil
}

func (s *KVJournalStore) SaveIdentity(ctx context.Context, id model.VaultIdentity) error {
	return s.store(ctx, VaultConfigKey, id)
}

func (s *KVJournalStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, VaultConfigKey); err != nil {
		return err
	}
	return s.kv.Delete(ctx, JournalDataKey)
}

// load читает и декодирует значение. Битый JSON трактуется как отсутствие данных.
func (s *KVJournalStore) load(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *KVJournalStore) store(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
