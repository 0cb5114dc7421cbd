package locale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{tag: "pt-BR", want: "pt-BR"},
		{tag: "pt", want: "pt-BR"},
		{tag: "en", want: "en"},
		{tag: "en-US", want: "en"},
		{tag: "de-DE", want: "pt-BR"},
		{tag: "not a tag!", want: "pt-BR"},
		{tag: "", want: "pt-BR"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.tag).String())
		})
	}
}

func TestShortDate(t *testing.T) {
	date := time.Date(2021, time.January, 8, 16, 0, 0, 0, time.UTC)

	assert.Equal(t, "8 jan 21", Default().ShortDate(date))
	assert.Equal(t, "8 Jan 21", Match("en").ShortDate(date))
	assert.Equal(t, "31 dez 09", Default().ShortDate(time.Date(2009, time.December, 31, 0, 0, 0, 0, time.UTC)))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Voltar", Default().Messages.Back)
	assert.Equal(t, "Tocar episódio", Default().Messages.PlayEpisode)
	assert.Equal(t, "Play episode", Match("en-GB").Messages.PlayEpisode)
}
