// Package grouper pairs preview (JPEG-like) and archive (RAW-like) files of a
// folder by base name.
package grouper

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmitrijs2005/photosift/internal/common"
	"github.com/dmitrijs2005/photosift/internal/models"
	"golang.org/x/text/cases"
)

type role int

const (
	roleNone role = iota
	rolePreview
	roleArchive
)

// Grouper classifies files by extension. Extensions are stored lower-cased
// with a leading dot.
type Grouper struct {
	preview map[string]struct{}
	archive map[string]struct{}
}

// New builds a Grouper from two extension allowlists. Entries may be given
// with or without the leading dot, in any case.
func New(previewExts, archiveExts []string) (*Grouper, error) {
	g := &Grouper{
		preview: normalize(previewExts),
		archive: normalize(archiveExts),
	}
	for ext := range g.preview {
		if _, ok := g.archive[ext]; ok {
			return nil, fmt.Errorf("%w: %s", common.ErrOverlappingExtensions, ext)
		}
	}
	return g, nil
}

func normalize(exts []string) map[string]struct{} {
	out := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[ext] = struct{}{}
	}
	return out
}

func (g *Grouper) classify(ext string) role {
	ext = strings.ToLower(ext)
	if _, ok := g.preview[ext]; ok {
		return rolePreview
	}
	if _, ok := g.archive[ext]; ok {
		return roleArchive
	}
	return roleNone
}

// Scan lists the immediate files of dir and returns one entry per base name,
// sorted by case-folded name. Two files with the same base name and role
// (IMG.jpg and IMG.JPG) resolve to whichever was enumerated last.
func (g *Grouper) Scan(dir string) ([]*models.PhotoEntry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrInvalidDirectory, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", common.ErrInvalidDirectory, dir)
	}

	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrInvalidDirectory, dir, err)
	}

	groups := make(map[string]*models.PhotoEntry)
	order := make([]string, 0, len(items))

	for _, item := range items {
		if !isRegular(dir, item) {
			continue
		}
		name := item.Name()
		ext := filepath.Ext(name)
		r := g.classify(ext)
		if r == roleNone {
			continue
		}

		// ".jpg" alone is a hidden file without an extension.
		base := strings.TrimSuffix(name, ext)
		if base == "" {
			continue
		}
		entry, ok := groups[base]
		if !ok {
			entry = models.NewPhotoEntry(base)
			groups[base] = entry
			order = append(order, base)
		}

		path := filepath.Join(dir, name)
		switch r {
		case rolePreview:
			entry.PreviewPath = &path
		case roleArchive:
			entry.ArchivePath = &path
		}
	}

	entries := make([]*models.PhotoEntry, 0, len(order))
	for _, base := range order {
		e := groups[base]
		if e.PreviewPath == nil && e.ArchivePath == nil {
			continue
		}
		entries = append(entries, e)
	}

	fold := cases.Fold()
	keys := make(map[*models.PhotoEntry]string, len(entries))
	for _, e := range entries {
		keys[e] = fold.String(e.BaseName)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return keys[entries[i]] < keys[entries[j]]
	})

	return entries, nil
}

// isRegular reports whether item is a regular file, following symlinks.
func isRegular(dir string, item os.DirEntry) bool {
	if item.Type().IsRegular() {
		return true
	}
	if item.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, item.Name()))
	return err == nil && info.Mode().IsRegular()
}
