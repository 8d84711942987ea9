package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	internalLoader "github.com/goliatone/go-promptgen/internal/document/loader"
	internalParser "github.com/goliatone/go-promptgen/internal/document/parser"
	"github.com/goliatone/go-promptgen/internal/logging"
	"github.com/goliatone/go-promptgen/pkg/config"
	"github.com/goliatone/go-promptgen/pkg/document"
	"github.com/goliatone/go-promptgen/pkg/domain"
	"github.com/goliatone/go-promptgen/pkg/model"
	"github.com/goliatone/go-promptgen/pkg/output"
	"github.com/goliatone/go-promptgen/pkg/render"
	"github.com/goliatone/go-promptgen/pkg/render/template/pongo"
)

// DefaultPrefix names files produced by Generate when neither the request nor
// the configuration sets one.
const DefaultPrefix = "claude_prompt"

// Renderer renders a named template with a context mapping.
type Renderer interface {
	Render(ctx context.Context, templateID string, data map[string]any) (string, error)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(loader document.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom document parser.
func WithParser(parser document.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithExtractor injects a custom template model extractor.
func WithExtractor(extractor model.Extractor) Option {
	return func(o *Orchestrator) {
		o.extractor = extractor
	}
}

// WithRenderer injects the renderer used for template evaluation.
func WithRenderer(renderer Renderer) Option {
	return func(o *Orchestrator) {
		o.renderer = renderer
	}
}

// WithWriter injects the writer that persists rendered prompts.
func WithWriter(writer output.Writer) Option {
	return func(o *Orchestrator) {
		o.writer = writer
	}
}

// WithLogger sets the logger shared by the orchestrator and every default
// stage it constructs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithConfig applies template, output and rendering settings from cfg.
// WithTemplateDir, WithOutputDir and WithPrefix take precedence regardless of
// option order.
func WithConfig(cfg *config.Config) Option {
	return func(o *Orchestrator) {
		if cfg != nil {
			copied := *cfg
			o.cfg = &copied
		}
	}
}

// WithTemplateDir overrides the template directory.
func WithTemplateDir(dir string) Option {
	return func(o *Orchestrator) {
		o.overrides = append(o.overrides, func(cfg *config.Config) {
			cfg.Templates.Dir = dir
		})
	}
}

// WithOutputDir overrides the output directory.
func WithOutputDir(dir string) Option {
	return func(o *Orchestrator) {
		o.overrides = append(o.overrides, func(cfg *config.Config) {
			cfg.Output.Dir = dir
		})
	}
}

// WithPrefix overrides the default file name prefix used by Generate.
func WithPrefix(prefix string) Option {
	return func(o *Orchestrator) {
		o.overrides = append(o.overrides, func(cfg *config.Config) {
			cfg.Output.Prefix = prefix
		})
	}
}

// WithTemplateFS serves template documents from fsys instead of the template
// directory. The template directory is then neither read nor created.
func WithTemplateFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.templateFS = fsys
	}
}

// WithTransformers registers transformers that adjust the render context
// before every render, in registration order.
func WithTransformers(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		o.transformers = append(o.transformers, transformers...)
	}
}

// Orchestrator coordinates the full pipeline from template document to saved
// prompt. Missing dependencies are initialised with the built-in
// implementations so callers can start with a single constructor call.
type Orchestrator struct {
	loader        document.Loader
	parser        document.Parser
	extractor     model.Extractor
	renderer      Renderer
	writer        output.Writer
	transformers  []Transformer
	templateFS    fs.FS
	cfg           *config.Config
	overrides     []func(*config.Config)
	logger        *slog.Logger
	initialiseErr error
}

// New constructs an Orchestrator applying any provided options. The template
// and output directories are created when absent; a failure to do so is
// reported by the first Generate call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:    config.DefaultConfig(),
		logger: logging.Discard(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	for _, override := range o.overrides {
		override(o.cfg)
	}
	o.applyDefaults()
	return o
}

// Request describes a single generation.
type Request struct {
	// TemplateID names the template document relative to the template
	// directory. The configured extension is appended when it has none.
	TemplateID string

	// Context is the render context. Nil renders with an empty mapping. The
	// orchestrator never mutates it.
	Context map[string]any

	// Prefix overrides the output file name prefix.
	Prefix string
}

// Generate extracts the template model from the template document, renders
// the template with req.Context and writes the result, returning the written
// location. Any failure is logged and returned as a *domain.GenerationError
// carrying the original message.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (string, error) {
	logger := o.logger.With(
		slog.String("run_id", uuid.NewString()),
		slog.String("template", req.TemplateID),
	)

	location, err := o.generate(ctx, req)
	if err != nil {
		logger.Error("prompt.generation_failed",
			slog.String("kind", string(domain.KindOf(err))),
			slog.Any("error", err),
		)
		return "", domain.NewGenerationError(err)
	}

	logger.Info("prompt.generated", slog.String("path", location))
	return location, nil
}

func (o *Orchestrator) generate(ctx context.Context, req Request) (string, error) {
	if ctx == nil {
		return "", errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := o.initialiseErr; err != nil {
		return "", err
	}

	// The extracted model only validates the document; see the package docs.
	if _, err := o.Inspect(ctx, req.TemplateID); err != nil {
		return "", err
	}

	text, err := o.Render(ctx, req.TemplateID, req.Context)
	if err != nil {
		return "", err
	}

	prefix := strings.TrimSpace(req.Prefix)
	if prefix == "" {
		prefix = o.prefix()
	}
	return o.writer.WriteWithPrefix(ctx, text, prefix)
}

// Inspect loads, parses and extracts the template model for templateID. Stage
// errors are returned unchanged.
func (o *Orchestrator) Inspect(ctx context.Context, templateID string) (model.TemplateModel, error) {
	if err := o.initialiseErr; err != nil {
		return model.TemplateModel{}, err
	}
	resolved, err := o.resolveTemplateID(templateID)
	if err != nil {
		return model.TemplateModel{}, err
	}

	doc, err := o.loader.Load(ctx, o.sourceFor(resolved))
	if err != nil {
		return model.TemplateModel{}, err
	}
	root, err := o.parser.Parse(ctx, doc)
	if err != nil {
		return model.TemplateModel{}, err
	}
	return o.extractor.Extract(root)
}

// Render applies the registered transformers to a copy of data and renders
// templateID without writing anything. Stage errors are returned unchanged.
func (o *Orchestrator) Render(ctx context.Context, templateID string, data map[string]any) (string, error) {
	if err := o.initialiseErr; err != nil {
		return "", err
	}
	resolved, err := o.resolveTemplateID(templateID)
	if err != nil {
		return "", err
	}

	view := copyContext(data)
	for _, transformer := range o.transformers {
		if transformer == nil {
			continue
		}
		if err := transformer.Transform(ctx, resolved, view); err != nil {
			return "", fmt.Errorf("orchestrator: transform context: %w", err)
		}
	}
	return o.renderer.Render(ctx, resolved, view)
}

// Config returns the effective configuration.
func (o *Orchestrator) Config() config.Config {
	return *o.cfg
}

func (o *Orchestrator) prefix() string {
	if prefix := strings.TrimSpace(o.cfg.Output.Prefix); prefix != "" {
		return prefix
	}
	return DefaultPrefix
}

func (o *Orchestrator) resolveTemplateID(templateID string) (string, error) {
	trimmed := strings.TrimSpace(templateID)
	if trimmed == "" {
		return "", errors.New("orchestrator: template id is required")
	}
	cleaned := path.Clean(filepath.ToSlash(trimmed))
	if !fs.ValidPath(cleaned) {
		return "", fmt.Errorf("orchestrator: invalid template id %q", templateID)
	}
	if ext := normalizeExt(o.cfg.Templates.Extension); ext != "" && path.Ext(cleaned) == "" {
		cleaned += ext
	}
	return cleaned, nil
}

func (o *Orchestrator) sourceFor(resolved string) document.Source {
	if o.templateFS != nil {
		return document.SourceFromFS(resolved)
	}
	return document.SourceFromFile(filepath.Join(o.cfg.Templates.Dir, filepath.FromSlash(resolved)))
}

func (o *Orchestrator) applyDefaults() {
	if o.templateFS == nil || o.writer == nil {
		if err := o.ensureDirectories(); err != nil {
			o.initialiseErr = err
			return
		}
	}

	if o.loader == nil {
		o.loader = internalLoader.New(document.NewLoaderOptions(
			document.WithFileSystem(o.templateFS),
			document.WithLoaderLogger(o.logger),
		))
	}
	if o.parser == nil {
		o.parser = internalParser.New(document.NewParserOptions(
			document.WithParserLogger(o.logger),
		))
	}
	if o.extractor == nil {
		o.extractor = model.NewExtractor(model.WithLogger(o.logger))
	}
	if o.renderer == nil {
		renderer, err := o.defaultRenderer()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.renderer = renderer
	}
	if o.writer == nil {
		o.writer = output.NewFileWriter(o.cfg.Output.Dir,
			output.WithPrefix(o.prefix()),
			output.WithLogger(o.logger),
		)
	}
}

func (o *Orchestrator) ensureDirectories() error {
	var dirs []string
	if o.templateFS == nil {
		dirs = append(dirs, o.cfg.Templates.Dir)
	}
	if o.writer == nil {
		dirs = append(dirs, o.cfg.Output.Dir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			o.logger.Error("directories.create_failed",
				slog.String("path", dir),
				slog.Any("error", err),
			)
			return domain.New("orchestrator", domain.KindIO, dir, err)
		}
	}
	return nil
}

func (o *Orchestrator) defaultRenderer() (*render.Renderer, error) {
	templates := o.cfg.Templates
	options := []pongo.Option{
		pongo.WithExtension(templates.Extension),
		pongo.WithAutoescapeExtensions(templates.AutoescapeExtensions...),
		pongo.WithWhitespaceControl(templates.TrimBlocksEnabled(), templates.LStripBlocksEnabled()),
	}
	if o.templateFS != nil {
		options = append(options, pongo.WithFS(o.templateFS))
	} else {
		options = append(options, pongo.WithBaseDir(templates.Dir))
	}

	engine, err := pongo.New(options...)
	if err != nil {
		return nil, err
	}
	return render.New(engine, render.WithLogger(o.logger))
}

func normalizeExt(ext string) string {
	trimmed := strings.TrimSpace(ext)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, ".") {
		trimmed = "." + trimmed
	}
	return trimmed
}
