package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-promptgen/pkg/contextfile"
)

// Transformer mutates the render context before the template executes.
// Implementations receive a copy of the caller's context and may add, replace
// or remove keys.
type Transformer interface {
	Transform(ctx context.Context, templateID string, data map[string]any) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, templateID string, data map[string]any) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, templateID string, data map[string]any) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, templateID, data)
}

// PresetTransformer applies declarative context values loaded from a YAML or
// JSON document. The document shape supports defaults, which fill keys the
// caller left unset, overrides, which always win, and per-template sections
// keyed by template id:
//
//	defaults:
//	  complexity: basic
//	overrides:
//	  task_type: code_generation
//	templates:
//	  comprehensive_task_template.xml:
//	    defaults:
//	      complexity: advanced
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	presetValues `yaml:",inline"`
	Templates    map[string]presetValues `yaml:"templates"`
}

type presetValues struct {
	Defaults  map[string]any `yaml:"defaults"`
	Overrides map[string]any `yaml:"overrides"`
}

// NewPresetTransformer constructs a transformer from raw YAML or JSON bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, name string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", name, err)
	}
	return NewPresetTransformer(data)
}

// Transform fills defaults, template section first, then applies overrides,
// template section last, so template-specific values win over global ones.
func (t *PresetTransformer) Transform(ctx context.Context, templateID string, data map[string]any) error {
	if data == nil {
		return errors.New("preset transformer: context is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	section, hasSection := t.lookup(templateID)
	if hasSection {
		fillDefaults(data, section.Defaults)
	}
	fillDefaults(data, t.document.Defaults)
	applyOverrides(data, t.document.Overrides)
	if hasSection {
		applyOverrides(data, section.Overrides)
	}
	return nil
}

func (t *PresetTransformer) lookup(templateID string) (presetValues, bool) {
	if section, ok := t.document.Templates[templateID]; ok {
		return section, true
	}
	base := path.Base(templateID)
	section, ok := t.document.Templates[strings.TrimSuffix(base, path.Ext(base))]
	return section, ok
}

func fillDefaults(data, defaults map[string]any) {
	for key, value := range defaults {
		if _, exists := data[key]; !exists {
			data[key] = cloneValue(value)
		}
	}
}

func applyOverrides(data, overrides map[string]any) {
	for key, value := range overrides {
		contextfile.Merge(data, map[string]any{key: cloneValue(value)})
	}
}

// copyContext deep-copies mappings and sequences so transformers never mutate
// the caller's context or a preset document.
func copyContext(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for key, value := range data {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return copyContext(v)
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return v
	}
}
