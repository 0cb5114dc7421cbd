// Package render turns page props into HTML documents.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/killallgit/podcastr-pages/internal/locale"
	"github.com/killallgit/podcastr-pages/internal/models"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
)

//go:embed templates/*.html
var templateFS embed.FS

const mediaTypeHTML = "text/html"

// episodeView is the data handed to the episode template
type episodeView struct {
	Lang     string
	Messages locale.Messages
	Episode  models.Episode
	// Description is trusted upstream HTML and is injected unescaped
	Description template.HTML
}

type errorView struct {
	Lang     string
	Messages locale.Messages
	Status   int
	Message  string
}

// Renderer renders episode and error pages. It holds no mutable state, so the
// same props always produce the same bytes.
type Renderer struct {
	templates *template.Template
	locale    *locale.Locale
	minifier  *minify.M
}

// Option configures a Renderer
type Option func(*Renderer)

// WithLocale sets the language of page strings
func WithLocale(l *locale.Locale) Option {
	return func(r *Renderer) {
		if l != nil {
			r.locale = l
		}
	}
}

// WithMinify enables HTML minification of rendered output
func WithMinify(enabled bool) Option {
	return func(r *Renderer) {
		if !enabled {
			r.minifier = nil
			return
		}
		m := minify.New()
		m.AddFunc("text/css", css.Minify)
		m.Add(mediaTypeHTML, &html.Minifier{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			KeepQuotes:       true,
		})
		r.minifier = m
	}
}

// New parses the embedded templates and applies options
func New(opts ...Option) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	r := &Renderer{
		templates: tmpl,
		locale:    locale.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// RenderEpisode writes the episode detail page for ep to w
func (r *Renderer) RenderEpisode(w io.Writer, ep models.Episode) error {
	view := episodeView{
		Lang:        r.locale.String(),
		Messages:    r.locale.Messages,
		Episode:     ep,
		Description: template.HTML(ep.Description),
	}
	return r.execute(w, "episode.html", view)
}

// Episode renders the episode detail page into a byte slice
func (r *Renderer) Episode(ep models.Episode) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.RenderEpisode(&buf, ep); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderError writes a minimal error page for the given status
func (r *Renderer) RenderError(w io.Writer, status int, message string) error {
	view := errorView{
		Lang:     r.locale.String(),
		Messages: r.locale.Messages,
		Status:   status,
		Message:  message,
	}
	return r.execute(w, "error.html", view)
}

func (r *Renderer) execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("executing %s: %w", name, err)
	}

	if r.minifier == nil {
		_, err := w.Write(buf.Bytes())
		return err
	}

	if err := r.minifier.Minify(mediaTypeHTML, w, &buf); err != nil {
		return fmt.Errorf("minifying %s: %w", name, err)
	}
	return nil
}
