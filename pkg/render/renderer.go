package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-promptgen/internal/logging"
	"github.com/goliatone/go-promptgen/pkg/domain"
	"github.com/goliatone/go-promptgen/pkg/model"
	"github.com/goliatone/go-promptgen/pkg/render/template"
)

const opRender = "render"

// Renderer resolves a template identifier against a template engine and
// renders it with caller data. Every failure is reported as a template error.
type Renderer struct {
	engine  template.TemplateRenderer
	logger  *slog.Logger
	globals map[string]any
}

// New constructs a Renderer over engine.
func New(engine template.TemplateRenderer, options ...Option) (*Renderer, error) {
	if engine == nil {
		return nil, errors.New("render: template engine is required")
	}

	r := &Renderer{
		engine: engine,
		logger: logging.Discard(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}

	if len(r.globals) > 0 {
		if err := engine.GlobalContext(r.globals); err != nil {
			return nil, fmt.Errorf("render: apply global data: %w", err)
		}
	}
	return r, nil
}

// Render executes templateID with data. A nil data map renders with an empty
// context. The template is re-read on every call, so edits on disk are picked
// up without restarting.
func (r *Renderer) Render(ctx context.Context, templateID string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(templateID) == "" {
		return "", r.fail(templateID, errors.New("template identifier is required"))
	}
	if data == nil {
		data = map[string]any{}
	}

	out, err := r.engine.RenderTemplate(templateID, liftItemLists(data))
	if err != nil {
		return "", r.fail(templateID, err)
	}

	r.logger.Debug("template.rendered",
		slog.String("template", templateID),
		slog.Int("bytes", len(out)),
	)
	return out, nil
}

// RenderString renders inline template content with data.
func (r *Renderer) RenderString(ctx context.Context, content string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if data == nil {
		data = map[string]any{}
	}

	out, err := r.engine.RenderString(content, liftItemLists(data))
	if err != nil {
		return "", r.fail("inline", err)
	}
	return out, nil
}

func (r *Renderer) fail(templateID string, err error) error {
	r.logger.Error("template.render_failed",
		slog.String("template", templateID),
		slog.Bool("not_found", errors.Is(err, template.ErrTemplateNotFound)),
		slog.Any("error", err),
	)
	return domain.New(opRender, domain.KindTemplate, templateID, err)
}

// liftItemLists turns plain string entries of the item lists (languages,
// rules, ...) into {text, sub_items} records, so templates written against
// the record shape also accept a list of strings. data is not modified; a
// shallow copy is returned when anything changes.
func liftItemLists(data map[string]any) map[string]any {
	var out map[string]any
	for _, key := range model.ItemListKeys() {
		lifted, changed := liftItems(data[key])
		if !changed {
			continue
		}
		if out == nil {
			out = make(map[string]any, len(data))
			for k, v := range data {
				out[k] = v
			}
		}
		out[key] = lifted
	}
	if out == nil {
		return data
	}
	return out
}

func liftItems(value any) ([]any, bool) {
	switch items := value.(type) {
	case []string:
		out := make([]any, len(items))
		for i, text := range items {
			out[i] = model.ItemRecord(text, nil)
		}
		return out, true
	case []any:
		var out []any
		for i, item := range items {
			text, ok := item.(string)
			if !ok {
				continue
			}
			if out == nil {
				out = append([]any(nil), items...)
			}
			out[i] = model.ItemRecord(text, nil)
		}
		return out, out != nil
	default:
		return nil, false
	}
}
