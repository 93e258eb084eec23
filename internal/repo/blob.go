package repo

import (
	"context"
	"errors"

	"JournalVault/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlobRepository: хранилище шифротекстов по ключу. Содержимое не разбирается.
type BlobRepository interface {
	// Get возвращает данные по ключу или ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Put сохраняет данные, заменяя предыдущие.
	Put(ctx context.Context, key, data string) error
	// Delete удаляет ключ. Отсутствие ключа не ошибка.
	Delete(ctx context.Context, key string) error
}

type blobRepo struct {
	db *gorm.DB
}

// NewBlobRepository создаёт реализацию репозитория для Blob поверх gorm.
func NewBlobRepository(db *gorm.DB) BlobRepository {
	return &blobRepo{db: db}
}

func (r *blobRepo) Get(ctx context.Context, key string) (string, error) {
	var b model.Blob
	err := r.db.WithContext(ctx).Where("storage_key = ?", key).Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return b.Data, nil
}

// Put делает upsert по ключу.
func (r *blobRepo) Put(ctx context.Context, key, data string) error {
	b := &model.Blob{Key: key, Data: data}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(b).Error
}

func (r *blobRepo) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("storage_key = ?", key).Delete(&model.Blob{}).Error
}
