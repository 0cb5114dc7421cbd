// Package locale resolves the language used for dates and page strings.
package locale

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Messages are the user-visible strings of an episode page
type Messages struct {
	Back        string
	PlayEpisode string
}

// Locale formats dates and provides page strings for one language
type Locale struct {
	Tag      language.Tag
	months   [12]string
	Messages Messages
}

var (
	ptBR = &Locale{
		Tag:    language.BrazilianPortuguese,
		months: [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"},
		Messages: Messages{
			Back:        "Voltar",
			PlayEpisode: "Tocar episódio",
		},
	}
	en = &Locale{
		Tag:    language.English,
		months: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		Messages: Messages{
			Back:        "Back",
			PlayEpisode: "Play episode",
		},
	}

	// first entry is the fallback
	supported = []*Locale{ptBR, en}
	matcher   = language.NewMatcher([]language.Tag{ptBR.Tag, en.Tag})
)

// Default returns the Brazilian Portuguese locale
func Default() *Locale {
	return ptBR
}

// Match picks the supported locale closest to the given BCP 47 tag.
// Unparseable or unsupported tags resolve to Default.
func Match(tag string) *Locale {
	parsed, err := language.Parse(tag)
	if err != nil {
		return Default()
	}
	_, idx, confidence := matcher.Match(parsed)
	if confidence == language.No {
		return Default()
	}
	return supported[idx]
}

// String returns the BCP 47 form of the locale, used for the html lang attribute
func (l *Locale) String() string {
	return l.Tag.String()
}

// ShortDate renders t as "d MMM yy", e.g. "8 jan 21"
func (l *Locale) ShortDate(t time.Time) string {
	return fmt.Sprintf("%d %s %02d", t.Day(), l.months[t.Month()-1], t.Year()%100)
}
