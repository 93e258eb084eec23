package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// MoodMin и MoodMax: границы шкалы настроения.
	MoodMin = 1
	MoodMax = 10
	// DefaultMood: значение настроения для новой записи.
	DefaultMood = 5

	// DateLayout: формат ключа записи (ISO календарная дата).
	DateLayout = "2006-01-02"
)

// Mood: оценка настроения за день.
type Mood struct {
	Scale int `json:"scale"`
}

// Entry: запись журнала за один день.
type Entry struct {
	ID            string    `json:"id"`
	Date          string    `json:"date"`
	Title         string    `json:"title"`
	Content       string    `json:"content"` // rich text (HTML)
	Tags          []string  `json:"tags"`
	Mood          Mood      `json:"mood"`
	EnergyDrained string    `json:"energyDrained"`
	EnergyGained  string    `json:"energyGained"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewEntry создаёт пустую запись для даты date.
func NewEntry(date string, now time.Time) Entry {
	now = now.UTC()
	return Entry{
		ID:        uuid.NewString(),
		Date:      date,
		Tags:      []string{},
		Mood:      Mood{Scale: DefaultMood},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone копирует запись вместе со срезом тегов.
func (e Entry) Clone() Entry {
	if e.Tags != nil {
		tags := make([]string, len(e.Tags))
		copy(tags, e.Tags)
		e.Tags = tags
	}
	return e
}

// Validate проверяет инварианты записи.
func (e Entry) Validate() error {
	if err := ValidateDateKey(e.Date); err != nil {
		return err
	}
	if e.ID == "" {
		return fmt.Errorf("%w: entry id is required", ErrValidation)
	}
	if e.Mood.Scale < MoodMin || e.Mood.Scale > MoodMax {
		return fmt.Errorf("%w: mood %d out of range %d..%d", ErrValidation, e.Mood.Scale, MoodMin, MoodMax)
	}
	if e.UpdatedAt.Before(e.CreatedAt) {
		return fmt.Errorf("%w: updatedAt before createdAt", ErrValidation)
	}
	return nil
}

// HasTag сообщает, есть ли у записи тег tag.
func (e Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
