package promptgen

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed templates/*.xml templates/*.j2
var embeddedTemplates embed.FS

// SampleTemplatesFS exposes the bundled sample templates: an XML template
// document and a Jinja-style prompt template that iterates the documented
// languages, libraries, rules and requirements variables.
func SampleTemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// WriteSampleTemplates copies the sample templates into dir, creating it when
// needed. Existing files are left untouched. It returns the paths written.
func WriteSampleTemplates(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("promptgen: create template dir: %w", err)
	}

	samples := SampleTemplatesFS()
	entries, err := fs.ReadDir(samples, ".")
	if err != nil {
		return nil, fmt.Errorf("promptgen: read samples: %w", err)
	}

	var written []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		target := filepath.Join(dir, entry.Name())
		if _, err := os.Stat(target); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return written, fmt.Errorf("promptgen: stat %s: %w", target, err)
		}

		data, err := fs.ReadFile(samples, entry.Name())
		if err != nil {
			return written, fmt.Errorf("promptgen: read sample %s: %w", entry.Name(), err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return written, fmt.Errorf("promptgen: write %s: %w", target, err)
		}
		written = append(written, target)
	}
	return written, nil
}
