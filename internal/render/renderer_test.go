package render

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/killallgit/podcastr-pages/internal/locale"
	"github.com/killallgit/podcastr-pages/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEpisode() models.Episode {
	return models.Episode{
		ID:               "a-semana",
		Title:            "A semana <especial>",
		Thumbnail:        "https://example.com/a.jpg",
		Members:          "Diego & Dani",
		PublishedAt:      "8 jan 21",
		Duration:         5400,
		DurationAsString: "01:30:00",
		Description:      `<p>Olá <a href="https://rocketseat.com.br">mundo</a></p>`,
		URL:              "https://example.com/a.m4a",
	}
}

func TestRenderEpisode(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	out, err := r.Episode(sampleEpisode())
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, `<html lang="pt-BR">`)
	assert.Contains(t, page, `<a href="/">`)
	assert.Contains(t, page, `<img src="/arrow-left.svg" alt="Voltar">`)
	assert.Contains(t, page, `<img src="/play.svg" alt="Tocar episódio">`)
	assert.Contains(t, page, `width="700" height="160" src="https://example.com/a.jpg"`)
	assert.Contains(t, page, `<h1>A semana &lt;especial&gt;</h1>`)
	assert.Contains(t, page, `<span>Diego &amp; Dani</span>`)
	assert.Contains(t, page, `<span>8 jan 21</span>`)
	assert.Contains(t, page, `<span>01:30:00</span>`)
	// description is injected verbatim
	assert.Contains(t, page, `<div class="description"><p>Olá <a href="https://rocketseat.com.br">mundo</a></p></div>`)
}

func TestRenderEpisodeIsDeterministic(t *testing.T) {
	r, err := New(WithMinify(true))
	require.NoError(t, err)

	first, err := r.Episode(sampleEpisode())
	require.NoError(t, err)
	second, err := r.Episode(sampleEpisode())
	require.NoError(t, err)

	assert.Equal(t, first, second)

	other := sampleEpisode()
	other.DurationAsString = "00:00:01"
	third, err := r.Episode(other)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestRenderEpisodeMinified(t *testing.T) {
	plain, err := New()
	require.NoError(t, err)
	minified, err := New(WithMinify(true))
	require.NoError(t, err)

	full, err := plain.Episode(sampleEpisode())
	require.NoError(t, err)
	small, err := minified.Episode(sampleEpisode())
	require.NoError(t, err)

	assert.Less(t, len(small), len(full))
	assert.NotContains(t, string(small), "\n    ")
	assert.Contains(t, string(small), `alt="Voltar"`)
	assert.Contains(t, string(small), "01:30:00")
	assert.Contains(t, string(small), `href="https://rocketseat.com.br"`)
}

func TestRenderEpisodeUnsafeThumbnail(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	ep := sampleEpisode()
	ep.Thumbnail = "javascript:alert(1)"
	out, err := r.Episode(ep)
	require.NoError(t, err)

	assert.NotContains(t, string(out), "javascript:alert")
}

func TestRenderEpisodeLocale(t *testing.T) {
	r, err := New(WithLocale(locale.Match("en")))
	require.NoError(t, err)

	out, err := r.Episode(sampleEpisode())
	require.NoError(t, err)

	assert.Contains(t, string(out), `<html lang="en">`)
	assert.Contains(t, string(out), `alt="Back"`)
	assert.Contains(t, string(out), `alt="Play episode"`)
}

func TestRenderError(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderError(&buf, http.StatusNotFound, "Episódio não encontrado"))

	page := buf.String()
	assert.Contains(t, page, "<h1>404</h1>")
	assert.Contains(t, page, "Episódio não encontrado")
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
}
