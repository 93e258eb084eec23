package model

import "time"

// Blob серверная модель, непрозрачный шифротекст журнала по ключу хранилища.
type Blob struct {
	Key  string `gorm:"column:storage_key;primaryKey;size:255"`
	Data string `gorm:"type:text;not null"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
