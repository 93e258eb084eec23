package service

import (
	"sort"
	"strings"
	"time"

	"JournalVault/internal/cli/model"
)

// TagCount: тег и число записей с ним.
type TagCount struct {
	Tag   string
	Count int
}

// Insights: сводная статистика журнала.
type Insights struct {
	Total            int
	AverageMood      float64 // 0, если оценок нет
	MoodDistribution [model.MoodMax]int
	TopTags          []TagCount
	EnergyDrained    int
	EnergyGained     int
	FirstDate        string
	LastDate         string
	Recent           []model.Entry
	Streak           int // подряд идущие дни с записью, заканчивая today или вчера
}

const (
	topTagsLimit = 10
	recentLimit  = 5
)

// ComputeInsights считает статистику по документу. today: текущая дата (YYYY-MM-DD).
func ComputeInsights(doc *model.JournalDocument, today string) Insights {
	var in Insights
	keys := doc.Keys()
	in.Total = len(keys)
	if in.Total == 0 {
		return in
	}
	in.FirstDate, in.LastDate = keys[0], keys[len(keys)-1]

	tags := map[string]int{}
	moodSum, moodN := 0, 0
	for _, k := range keys {
		e := doc.Entries[k]
		if m := e.Mood.Scale; m >= model.MoodMin && m <= model.MoodMax {
			moodSum += m
			moodN++
			in.MoodDistribution[m-1]++
		}
		for _, t := range e.Tags {
			tags[t]++
		}
		if strings.TrimSpace(e.EnergyDrained) != "" {
			in.EnergyDrained++
		}
		if strings.TrimSpace(e.EnergyGained) != "" {
			in.EnergyGained++
		}
	}
	if moodN > 0 {
		in.AverageMood = float64(moodSum) / float64(moodN)
	}

	for t, c := range tags {
		in.TopTags = append(in.TopTags, TagCount{Tag: t, Count: c})
	}
	sort.Slice(in.TopTags, func(i, j int) bool {
		if in.TopTags[i].Count != in.TopTags[j].Count {
			return in.TopTags[i].Count > in.TopTags[j].Count
		}
		return in.TopTags[i].Tag < in.TopTags[j].Tag
	})
	if len(in.TopTags) > topTagsLimit {
		in.TopTags = in.TopTags[:topTagsLimit]
	}

	for i := len(keys) - 1; i >= 0 && len(in.Recent) < recentLimit; i-- {
		in.Recent = append(in.Recent, doc.Entries[keys[i]].Clone())
	}

	in.Streak = streak(doc, today)
	return in
}

func streak(doc *model.JournalDocument, today string) int {
	day, err := time.Parse(model.DateLayout, today)
	if err != nil {
		return 0
	}
	has := func(t time.Time) bool {
		_, ok := doc.Entries[t.Format(model.DateLayout)]
		return ok
	}
	// сегодняшняя запись может быть ещё не сделана
	if !has(day) {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for has(day) {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}
