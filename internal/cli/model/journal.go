package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion: единственная поддерживаемая версия формата документа.
const SchemaVersion = "1.0"

// Metadata: служебные поля документа журнала.
type Metadata struct {
	LastSync time.Time `json:"lastSync"`
	Version  string    `json:"version"`
	DeviceID string    `json:"deviceId"`
}

// JournalDocument хранит весь журнал пользователя: записи по ключу даты и метаданные.
// Сериализуется целиком и целиком же шифруется перед отправкой.
type JournalDocument struct {
	Entries  map[string]Entry `json:"entries"`
	Metadata Metadata         `json:"metadata"`
}

// NewJournalDocument создаёт пустой документ для нового устройства.
func NewJournalDocument(now time.Time) *JournalDocument {
	return &JournalDocument{
		Entries: map[string]Entry{},
		Metadata: Metadata{
			LastSync: now.UTC(),
			Version:  SchemaVersion,
			DeviceID: uuid.NewString(),
		},
	}
}

// Len возвращает количество записей; nil-документ считается пустым.
func (d *JournalDocument) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Entries)
}

// IsEmpty сообщает, что в документе нет ни одной записи.
func (d *JournalDocument) IsEmpty() bool { return d.Len() == 0 }

// Keys возвращает ключи дат в порядке возрастания.
func (d *JournalDocument) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, len(d.Entries))
	for k := range d.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone делает глубокую копию документа (map и срезы тегов не разделяются).
func (d *JournalDocument) Clone() *JournalDocument {
	if d == nil {
		return nil
	}
	out := &JournalDocument{
		Entries:  make(map[string]Entry, len(d.Entries)),
		Metadata: d.Metadata,
	}
	for k, e := range d.Entries {
		out.Entries[k] = e.Clone()
	}
	return out
}

// Normalize чинит документ, пришедший из хранилища или с сервера:
// пустая map вместо nil и версия схемы по умолчанию.
func (d *JournalDocument) Normalize() {
	if d.Entries == nil {
		d.Entries = map[string]Entry{}
	}
	if d.Metadata.Version == "" {
		d.Metadata.Version = SchemaVersion
	}
}
