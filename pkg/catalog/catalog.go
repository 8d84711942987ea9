// Package catalog discovers the templates available under a template
// directory.
package catalog

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches every file below the template root.
const DefaultPattern = "**/*"

// Entry describes one template file.
type Entry struct {
	Name    string    `json:"name" yaml:"name"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
	Markup  bool      `json:"markup" yaml:"markup"`
}

// Catalog lists templates from an fs.FS.
type Catalog struct {
	fsys       fs.FS
	markupExts map[string]struct{}
}

// New returns a catalog over fsys. markupExts flags entries whose extension
// renders with autoescaping.
func New(fsys fs.FS, markupExts ...string) *Catalog {
	c := &Catalog{
		fsys:       fsys,
		markupExts: make(map[string]struct{}, len(markupExts)),
	}
	for _, ext := range markupExts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.markupExts[ext] = struct{}{}
	}
	return c
}

// List returns the regular files matching any of patterns, sorted by name.
// Wildcards skip hidden files and directories. With no patterns
// DefaultPattern is used.
func (c *Catalog) List(patterns ...string) ([]Entry, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}

	seen := make(map[string]bool)
	var entries []Entry
	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(strings.TrimSpace(pattern), "./")
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("catalog: invalid pattern %q", pattern)
		}

		matches, err := doublestar.Glob(c.fsys, pattern, doublestar.WithFilesOnly(), doublestar.WithNoHidden())
		if err != nil {
			return nil, fmt.Errorf("catalog: glob %q: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			info, err := fs.Stat(c.fsys, match)
			if err != nil {
				return nil, fmt.Errorf("catalog: stat %q: %w", match, err)
			}
			if !info.Mode().IsRegular() {
				continue
			}
			seen[match] = true
			_, markup := c.markupExts[strings.ToLower(path.Ext(match))]
			entries = append(entries, Entry{
				Name:    match,
				Size:    info.Size(),
				ModTime: info.ModTime(),
				Markup:  markup,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}
