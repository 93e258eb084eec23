package service

import (
	"time"

	"JournalVault/internal/cli/model"
)

// Merge сводит удалённый и локальный документы по правилу «последняя запись побеждает»
// на уровне записи целиком. Локальная запись заменяет удалённую, если удалённой нет
// или локальная строго новее. Метаданные берутся из remote, lastSync = now.
// Удаления не распространяются: запись, удалённая локально, вернётся из remote.
// Входные документы не изменяются.
func Merge(remote, local *model.JournalDocument, now time.Time) *model.JournalDocument {
	if remote == nil {
		return local.Clone()
	}
	out := remote.Clone()
	out.Normalize()
	out.Metadata.LastSync = now.UTC()
	if local.IsEmpty() {
		return out
	}
	for key, le := range local.Entries {
		re, ok := out.Entries[key]
		if !ok || le.UpdatedAt.After(re.UpdatedAt) {
			out.Entries[key] = le.Clone()
		}
	}
	return out
}
