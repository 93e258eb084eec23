package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"JournalVault/internal/cli/model"
	"JournalVault/internal/config"
)

// now: точка подмены текущего времени для тестов.
var now = time.Now

func today() string { return now().Format(model.DateLayout) }

type entrySaveCmd struct{}

func (entrySaveCmd) Name() string { return "entry-save" }
func (entrySaveCmd) Description() string {
	return "Создать или изменить запись за дату (заданные поля заменяются)"
}
func (entrySaveCmd) Usage() string {
	return "entry-save [--date D] [--title T] [--content C] [--tags a,b] [--mood 1-10] [--drained X] [--gained Y]"
}

func (entrySaveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("entry-save", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	date := fs.String("date", today(), "дата записи YYYY-MM-DD")
	title := fs.String("title", "", "заголовок")
	content := fs.String("content", "", "текст (HTML допускается)")
	tags := fs.String("tags", "", "теги через запятую")
	mood := fs.Int("mood", 0, "настроение 1-10")
	drained := fs.String("drained", "", "что забрало энергию")
	gained := fs.String("gained", "", "что дало энергию")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if len(set) == 0 || len(set) == 1 && set["date"] {
		return ErrUsage
	}
	if err := model.ValidateDateKey(*date); err != nil {
		return err
	}

	s, done, err := unlockVault(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	e, err := s.EntryOrNew(*date)
	if err != nil {
		return err
	}
	if set["title"] {
		e.Title = *title
	}
	if set["content"] {
		e.Content = *content
	}
	if set["tags"] {
		e.Tags = splitTags(*tags)
	}
	if set["mood"] {
		e.Mood.Scale = *mood
	}
	if set["drained"] {
		e.EnergyDrained = *drained
	}
	if set["gained"] {
		e.EnergyGained = *gained
	}
	saved, err := s.SaveEntry(ctx, e)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Saved %s (updated %s)\n", saved.Date, saved.UpdatedAt.Local().Format("15:04:05"))
	return nil
}

func splitTags(s string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func init() { RegisterCmd(entrySaveCmd{}) }
