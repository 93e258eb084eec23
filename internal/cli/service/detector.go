package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"JournalVault/internal/cli/model"
	"JournalVault/internal/cli/repo"
)

// Fingerprint: дешёвая сводка состояния документа (число записей и updatedAt
// каждой записи в порядке ключей). Метаданные не учитываются.
func Fingerprint(doc *model.JournalDocument) string {
	keys := doc.Keys()
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(keys)))
	b.WriteByte(':')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(doc.Entries[k].UpdatedAt.UTC().Format(time.RFC3339Nano))
	}
	return b.String()
}

// ChangeDetector помнит отпечаток последнего отправленного состояния.
// Принадлежит одному Syncer и сбрасывается при смене хранилища.
type ChangeDetector struct {
	store repo.JournalStore

	mu    sync.Mutex
	last  string
	known bool
}

// NewChangeDetector создаёт детектор в состоянии «отпечаток неизвестен».
func NewChangeDetector(store repo.JournalStore) *ChangeDetector {
	return &ChangeDetector{store: store}
}

// HasChanged сравнивает doc с запомненным отпечатком. Если отпечаток неизвестен,
// он берётся из сохранённого документа; при его отсутствии текущее состояние
// считается изменённым. При true запомненный отпечаток обновляется.
func (d *ChangeDetector) HasChanged(ctx context.Context, doc *model.JournalDocument) (bool, error) {
	cur := Fingerprint(doc)

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.known {
		first, err := d.baselineLocked(ctx)
		if err != nil {
			return false, err
		}
		if first {
			d.last, d.known = cur, true
			return true, nil
		}
	}
	if cur == d.last {
		return false, nil
	}
	d.last = cur
	return true, nil
}

// Prime фиксирует базовый отпечаток по сохранённому документу, если он ещё неизвестен.
func (d *ChangeDetector) Prime(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.known {
		return nil
	}
	_, err := d.baselineLocked(ctx)
	return err
}

// baselineLocked читает сохранённый документ. Возвращает true, если его нет.
func (d *ChangeDetector) baselineLocked(ctx context.Context) (bool, error) {
	stored, err := d.store.GetDocument(ctx)
	if err != nil {
		return false, err
	}
	if stored == nil {
		return true, nil
	}
	d.last, d.known = Fingerprint(stored), true
	return false, nil
}

// MarkSynced принудительно запоминает отпечаток doc.
func (d *ChangeDetector) MarkSynced(doc *model.JournalDocument) {
	fp := Fingerprint(doc)
	d.mu.Lock()
	d.last, d.known = fp, true
	d.mu.Unlock()
}

// Reset возвращает детектор в состояние «неизвестно».
func (d *ChangeDetector) Reset() {
	d.mu.Lock()
	d.last, d.known = "", false
	d.mu.Unlock()
}
