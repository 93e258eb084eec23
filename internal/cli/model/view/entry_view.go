package view

import (
	"regexp"
	"strings"

	"JournalVault/internal/cli/model"
)

// EntryView: DTO для отображения записи в CLI.
type EntryView struct {
	Date          string
	Title         string
	Text          string // содержимое без HTML-разметки
	Tags          string
	Mood          int
	EnergyDrained string
	EnergyGained  string
	UpdatedAt     string
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// StripHTML убирает теги и схлопывает пробелы.
func StripHTML(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// FromEntry строит представление записи.
func FromEntry(e model.Entry) EntryView {
	return EntryView{
		Date:          e.Date,
		Title:         e.Title,
		Text:          StripHTML(e.Content),
		Tags:          strings.Join(e.Tags, ","),
		Mood:          e.Mood.Scale,
		EnergyDrained: e.EnergyDrained,
		EnergyGained:  e.EnergyGained,
		UpdatedAt:     e.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
	}
}

// Preview: первые n рун текста записи.
func (v EntryView) Preview(n int) string {
	r := []rune(v.Text)
	if len(r) <= n {
		return v.Text
	}
	return string(r[:n]) + "…"
}
