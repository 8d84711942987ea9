package promptgen

import (
	"context"

	"github.com/goliatone/go-promptgen/pkg/orchestrator"
)

// Request describes a single generation; alias exported via the root package
// for convenience.
type Request = orchestrator.Request

// Transformer adjusts the render context before a template executes.
type Transformer = orchestrator.Transformer

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate extracts, renders and saves templateID with data, returning the
// location of the written prompt. It is the simplest entry point for callers
// that just want a prompt file.
func Generate(ctx context.Context, templateID string, data map[string]any, options ...orchestrator.Option) (string, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		TemplateID: templateID,
		Context:    data,
	})
}

// Render renders templateID with data without writing anything.
func Render(ctx context.Context, templateID string, data map[string]any, options ...orchestrator.Option) (string, error) {
	gen := orchestrator.New(options...)
	return gen.Render(ctx, templateID, data)
}

// WithTemplateDir forwards to orchestrator.WithTemplateDir.
func WithTemplateDir(dir string) orchestrator.Option {
	return orchestrator.WithTemplateDir(dir)
}

// WithOutputDir forwards to orchestrator.WithOutputDir.
func WithOutputDir(dir string) orchestrator.Option {
	return orchestrator.WithOutputDir(dir)
}
