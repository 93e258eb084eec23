package service

import (
	"context"
	"fmt"
	"sort"

	"JournalVault/internal/cli/model"

	"github.com/google/uuid"
)

// Entry возвращает запись за дату.
func (s *Syncer) Entry(date string) (model.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateUnlocked {
		return model.Entry{}, false, ErrLocked
	}
	e, ok := s.doc.Entries[date]
	return e.Clone(), ok, nil
}

// EntryOrNew возвращает запись за дату или новую пустую (не сохраняется).
func (s *Syncer) EntryOrNew(date string) (model.Entry, error) {
	if err := model.ValidateDateKey(date); err != nil {
		return model.Entry{}, err
	}
	e, ok, err := s.Entry(date)
	if err != nil || ok {
		return e, err
	}
	return model.NewEntry(date, s.now()), nil
}

// Entries возвращает записи, новые даты первыми.
func (s *Syncer) Entries() ([]model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateUnlocked {
		return nil, ErrLocked
	}
	keys := s.doc.Keys()
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	out := make([]model.Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.doc.Entries[k].Clone())
	}
	return out, nil
}

// SaveEntry сохраняет запись за e.Date. У существующей записи id, дата и createdAt
// не меняются, updatedAt ставится в текущее время. После сохранения изменённый
// журнал ставится в очередь на отправку.
func (s *Syncer) SaveEntry(ctx context.Context, e model.Entry) (model.Entry, error) {
	if err := model.ValidateDateKey(e.Date); err != nil {
		return model.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateUnlocked {
		return model.Entry{}, ErrLocked
	}

	now := s.now().UTC()
	e = e.Clone()
	if prev, ok := s.doc.Entries[e.Date]; ok {
		e.ID, e.CreatedAt = prev.ID, prev.CreatedAt
	} else {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.CreatedAt.IsZero() || e.CreatedAt.After(now) {
			e.CreatedAt = now
		}
	}
	e.UpdatedAt = now
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if e.Mood.Scale == 0 {
		e.Mood.Scale = model.DefaultMood
	}
	if err := e.Validate(); err != nil {
		return model.Entry{}, err
	}

	next := s.doc.Clone()
	next.Entries[e.Date] = e
	next.Metadata.LastSync = now
	if err := s.store.SaveDocument(ctx, next); err != nil {
		return model.Entry{}, fmt.Errorf("save journal: %w", err)
	}
	s.doc = next
	s.log.Debugw("entry saved", "date", e.Date, "entries", next.Len())

	if err := s.pushLocked(ctx); err != nil {
		return e.Clone(), err
	}
	return e.Clone(), nil
}

// DeleteEntry удаляет запись локально. Удаление не распространяется: если запись
// есть на сервере, она вернётся при следующем слиянии.
func (s *Syncer) DeleteEntry(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateUnlocked {
		return ErrLocked
	}
	if _, ok := s.doc.Entries[date]; !ok {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, date)
	}
	next := s.doc.Clone()
	delete(next.Entries, date)
	next.Metadata.LastSync = s.now().UTC()
	if err := s.store.SaveDocument(ctx, next); err != nil {
		return fmt.Errorf("save journal: %w", err)
	}
	s.doc = next
	s.log.Debugw("entry deleted", "date", date, "entries", next.Len())
	return s.pushLocked(ctx)
}
