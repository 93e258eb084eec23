package view

import (
	"testing"
	"time"

	"JournalVault/internal/cli/model"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "hello world", StripHTML("<p>hello</p>\n<b>world</b>"))
	assert.Equal(t, "", StripHTML("<br/>"))
}

func TestFromEntry_And_Preview(t *testing.T) {
	e := model.NewEntry("2024-03-01", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	e.Title = "t"
	e.Content = "<p>привет мир</p>"
	e.Tags = []string{"a", "b"}
	v := FromEntry(e)
	assert.Equal(t, "2024-03-01", v.Date)
	assert.Equal(t, "привет мир", v.Text)
	assert.Equal(t, "a,b", v.Tags)
	assert.Equal(t, model.DefaultMood, v.Mood)
	assert.Equal(t, "привет…", v.Preview(6))
	assert.Equal(t, "привет мир", v.Preview(100))
}
