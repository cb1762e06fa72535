// Package feed implements the paginated, deduplicating feed loader.
package feed

import (
	"fmt"
	"time"
)

// Language selects which side of the bilingual content is rendered.
type Language string

const (
	LangHindi   Language = "hi"
	LangEnglish Language = "en"
)

// Toggle returns the other language.
func (l Language) Toggle() Language {
	if l == LangHindi {
		return LangEnglish
	}
	return LangHindi
}

// Item is a single feed entry. Immutable once received; identity is ID.
type Item struct {
	ID        string    `json:"id"`
	TitleHi   string    `json:"title_hi"`
	TitleEn   string    `json:"title_en"`
	SummaryHi string    `json:"summary_hi"`
	SummaryEn string    `json:"summary_en"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Title returns the title in the given language, falling back to the
// other language when the requested one is empty.
func (i Item) Title(lang Language) string {
	return pick(lang, i.TitleHi, i.TitleEn)
}

// Summary returns the summary in the given language.
func (i Item) Summary(lang Language) string {
	return pick(lang, i.SummaryHi, i.SummaryEn)
}

func pick(lang Language, hi, en string) string {
	if lang == LangHindi {
		if hi != "" {
			return hi
		}
		return en
	}
	if en != "" {
		return en
	}
	return hi
}

// Age renders a coarse relative timestamp ("5m ago", "2h ago").
func (i Item) Age(now time.Time) string {
	if i.CreatedAt.IsZero() {
		return "just now"
	}
	d := now.Sub(i.CreatedAt)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
