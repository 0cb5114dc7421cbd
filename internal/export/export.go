// Package export writes a built site to a directory for static hosting.
//
// Layout:
//
//	<dir>/episodes/<slug>.html   rendered page
//	<dir>/episodes/<slug>.json   page props
//	<dir>/paths.json             enumerated paths and fallback
//	<dir>/<asset>                embedded stylesheet and icons
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/killallgit/podcastr-pages/internal/models"
	"github.com/killallgit/podcastr-pages/internal/services/pages"
	"github.com/killallgit/podcastr-pages/internal/static"
)

const lockFile = ".build.lock"

// ErrLocked is returned when another export holds the directory
var ErrLocked = errors.New("output directory is locked by another build")

// AssetSource lists and resolves embedded assets
type AssetSource interface {
	Names() []string
	Lookup(name string) (*static.Asset, bool)
}

var _ AssetSource = (*static.Assets)(nil)

// Result lists the files written, relative to the output directory
type Result struct {
	Dir   string   `json:"dir"`
	Files []string `json:"files"`
}

type propsFile struct {
	Episode models.Episode `json:"episode"`
}

// Write exports report and assets to dir. Only one export may run per directory.
func Write(dir string, report *pages.BuildReport, assets AssetSource) (*Result, error) {
	if report == nil || report.Paths == nil {
		return nil, errors.New("nothing to export")
	}

	if err := os.MkdirAll(filepath.Join(dir, "episodes"), 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Printf("[WARN] Failed to release %s: %v", lock.Path(), err)
		}
	}()

	result := &Result{Dir: dir}
	write := func(name string, data []byte) error {
		if err := writeFileAtomic(filepath.Join(dir, filepath.FromSlash(name)), data); err != nil {
			return err
		}
		result.Files = append(result.Files, name)
		return nil
	}

	for _, page := range report.Pages {
		if !SafeSlug(page.Slug) {
			return nil, fmt.Errorf("refusing to export unsafe slug %q", page.Slug)
		}

		episode, err := page.Props()
		if err != nil {
			return nil, fmt.Errorf("decoding props of %s: %w", page.Slug, err)
		}
		props, err := json.MarshalIndent(propsFile{Episode: episode}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding props of %s: %w", page.Slug, err)
		}

		if err := write("episodes/"+page.Slug+".html", page.HTML); err != nil {
			return nil, err
		}
		if err := write("episodes/"+page.Slug+".json", props); err != nil {
			return nil, err
		}
	}

	paths, err := json.MarshalIndent(report.Paths, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding paths: %w", err)
	}
	if err := write("paths.json", paths); err != nil {
		return nil, err
	}

	if assets != nil {
		for _, name := range assets.Names() {
			asset, ok := assets.Lookup(name)
			if !ok {
				continue
			}
			if err := write(name, asset.Content); err != nil {
				return nil, err
			}
		}
	}

	log.Printf("[INFO] Exported %d page(s) and %d file(s) to %s", len(report.Pages), len(result.Files), dir)
	return result, nil
}

// SafeSlug reports whether slug can be used as a file name inside the output directory
func SafeSlug(slug string) bool {
	if slug == "" || strings.HasPrefix(slug, ".") {
		return false
	}
	return !strings.ContainsAny(slug, `/\`+"\x00")
}

// writeFileAtomic replaces path with data so readers never see a partial file
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("setting mode of %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming %s: %w", path, err)
	}
	return nil
}
