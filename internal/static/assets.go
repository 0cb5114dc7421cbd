// Package static serves the embedded page assets, minified and gzipped once at startup.
package static

import (
	"bytes"
	"compress/gzip"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/svg"
)

//go:embed assets/*
var assetFS embed.FS

// Asset holds the processed form of one embedded file
type Asset struct {
	Name        string
	Content     []byte // minified content
	Gzipped     []byte // gzipped minified content
	ContentType string
}

// Assets is an immutable set of processed assets keyed by file name
type Assets struct {
	items map[string]*Asset
}

// Load minifies and compresses every embedded asset
func Load() (*Assets, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)

	a := &Assets{items: make(map[string]*Asset)}

	err := fs.WalkDir(assetFS, "assets", func(filePath string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		data, err := assetFS.ReadFile(filePath)
		if err != nil {
			return err
		}

		contentType := mime.TypeByExtension(filepath.Ext(filePath))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		name := strings.TrimPrefix(filePath, "assets/")

		minified := data
		mediaType := strings.Split(contentType, ";")[0]
		if _, _, fn := m.Match(mediaType); fn != nil {
			var buf bytes.Buffer
			if err := m.Minify(mediaType, &buf, bytes.NewReader(data)); err != nil {
				log.Printf("[WARN] static: failed to minify %s: %v (using original)", name, err)
			} else {
				minified = buf.Bytes()
			}
		}

		var gzBuf bytes.Buffer
		gz, err := gzip.NewWriterLevel(&gzBuf, gzip.BestCompression)
		if err != nil {
			return err
		}
		if _, err := gz.Write(minified); err != nil {
			return err
		}
		if err := gz.Close(); err != nil {
			return err
		}

		a.items[name] = &Asset{
			Name:        name,
			Content:     minified,
			Gzipped:     gzBuf.Bytes(),
			ContentType: contentType,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("processing embedded assets: %w", err)
	}

	log.Printf("[INFO] static: initialized %d embedded assets", len(a.items))
	return a, nil
}

// Names lists the asset names in sorted order
func (a *Assets) Names() []string {
	names := make([]string, 0, len(a.items))
	for name := range a.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the asset served at urlPath, e.g. "/play.svg"
func (a *Assets) Lookup(urlPath string) (*Asset, bool) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	asset, ok := a.items[name]
	return asset, ok
}

// ServeHTTP serves the asset named by the request path
func (a *Assets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	asset, ok := a.Lookup(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("Vary", "Accept-Encoding")

	if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") && len(asset.Gzipped) > 0 {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(asset.Gzipped)
		return
	}

	_, _ = w.Write(asset.Content)
}
