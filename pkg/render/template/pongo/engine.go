package pongo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-promptgen/pkg/render/template"
)

// Plain-text templates are wrapped in an autoescape-off block. The empty
// variable tags keep trim_blocks/lstrip_blocks from touching the first and
// last line of the wrapped template.
const (
	plainPrefix = `{% autoescape off %}{{ "" }}`
	plainSuffix = `{{ "" }}{% endautoescape %}`
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir      string
	templates    fs.FS
	extension    string
	markupExts   []string
	trimBlocks   bool
	lstripBlocks bool
	templateFn   map[string]any
	globalData   map[string]any
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS. When combined with WithBaseDir the
// directory is searched first.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension sets the extension appended to template names that have none.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		cfg.extension = normalizeExt(ext)
	}
}

// WithAutoescapeExtensions lists the extensions treated as markup. Templates
// with these extensions escape HTML/XML-significant characters in substituted
// values; every other template renders values verbatim.
func WithAutoescapeExtensions(exts ...string) Option {
	return func(cfg *config) {
		cfg.markupExts = cfg.markupExts[:0]
		for _, ext := range exts {
			if normalized := normalizeExt(ext); normalized != "" {
				cfg.markupExts = append(cfg.markupExts, normalized)
			}
		}
	}
}

// WithWhitespaceControl mirrors Jinja's trim_blocks and lstrip_blocks.
func WithWhitespaceControl(trimBlocks, lstripBlocks bool) Option {
	return func(cfg *config) {
		cfg.trimBlocks = trimBlocks
		cfg.lstripBlocks = lstripBlocks
	}
}

// WithTemplateFunc registers helper functions or filters when the engine loads.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFn == nil {
			cfg.templateFn = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFn[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobalData seeds global context values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine satisfies template.TemplateRenderer using a pongo2 template set.
// Templates are read and compiled on every call; nothing is cached.
type Engine struct {
	templateSet *pongo2.TemplateSet
	sources     []fs.FS
	tplExt      string
	markupExts  map[string]struct{}
}

// Ensure Engine implements the TemplateRenderer interface.
var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		markupExts: []string{".xml"},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("pongo: need to provide either base dir or fs.FS")
	}

	var sources []fs.FS
	if cfg.baseDir != "" {
		info, err := os.Stat(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("pongo: template dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("pongo: template dir %q is not a directory", cfg.baseDir)
		}
		sources = append(sources, os.DirFS(cfg.baseDir))
	}
	if cfg.templates != nil {
		sources = append(sources, cfg.templates)
	}

	loaders := make([]pongo2.TemplateLoader, 0, len(sources))
	for _, src := range sources {
		loaders = append(loaders, pongo2.NewFSLoader(src))
	}

	set := pongo2.NewSet("promptgen", loaders...)
	set.Options.TrimBlocks = cfg.trimBlocks
	set.Options.LStripBlocks = cfg.lstripBlocks

	engine := &Engine{
		templateSet: set,
		sources:     sources,
		tplExt:      cfg.extension,
		markupExts:  make(map[string]struct{}, len(cfg.markupExts)),
	}
	for _, ext := range cfg.markupExts {
		engine.markupExts[ext] = struct{}{}
	}
	registerDefaultFilters()

	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("pongo: apply global data: %w", err)
	}
	for name, fn := range cfg.templateFn {
		if err := engine.registerTemplateFunc(name, fn); err != nil {
			return nil, fmt.Errorf("pongo: register template func %q: %w", name, err)
		}
	}

	return engine, nil
}

// Render treats name as inline template content when it contains template
// delimiters, and as a template name otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if isTemplateContent(name) {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate resolves name against the configured sources and executes it.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("pongo: engine is nil")
	}

	templatePath, err := e.resolveName(name)
	if err != nil {
		return "", err
	}
	raw, err := e.readTemplate(templatePath)
	if err != nil {
		return "", err
	}

	content := string(raw)
	wrapped := !e.IsMarkup(templatePath)
	if wrapped {
		content = plainPrefix + content + plainSuffix
	}

	tmpl, err := e.templateSet.FromString(content)
	if err != nil {
		locateError(err, templatePath, wrapped)
		return "", fmt.Errorf("pongo: parse template %q: %w", templatePath, err)
	}
	rendered, err := e.execute(tmpl, templatePath, data, out)
	if err != nil {
		locateError(err, templatePath, wrapped)
	}
	return rendered, err
}

// RenderString compiles and executes inline template content. Inline content
// is treated as markup, so substituted values are escaped.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("pongo: engine is nil")
	}

	tmpl, err := e.templateSet.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("pongo: parse template string: %w", err)
	}
	return e.execute(tmpl, "string", data, out)
}

// IsMarkup reports whether a template name has one of the autoescaped
// extensions.
func (e *Engine) IsMarkup(name string) bool {
	_, ok := e.markupExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// RegisterFilter registers a template filter. Filters are process-wide in
// pongo2, so registering an existing name fails.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("pongo: filter name and function required")
	}

	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "custom_filter", OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}

	if pongo2.FilterExists(name) {
		return fmt.Errorf("pongo: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, filter)
}

// GlobalContext merges data into the globals visible to every template.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.templateSet == nil {
		return errors.New("pongo: engine is nil")
	}
	if data == nil {
		return nil
	}

	globalCtx, err := convertToContext(data)
	if err != nil {
		return err
	}
	if e.templateSet.Globals == nil {
		e.templateSet.Globals = make(pongo2.Context)
	}
	e.templateSet.Globals.Update(globalCtx)
	return nil
}

func (e *Engine) execute(tmpl *pongo2.Template, label string, data any, out []io.Writer) (string, error) {
	viewContext, err := convertToContext(data)
	if err != nil {
		return "", fmt.Errorf("pongo: convert data: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(viewContext, &buf); err != nil {
		return "", fmt.Errorf("pongo: execute template %q: %w", label, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *Engine) resolveName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", errors.New("pongo: template name is required")
	}
	cleaned := path.Clean(filepath.ToSlash(trimmed))
	if !fs.ValidPath(cleaned) {
		return "", fmt.Errorf("pongo: invalid template name %q", name)
	}
	if e.tplExt != "" && path.Ext(cleaned) == "" {
		cleaned += e.tplExt
	}
	return cleaned, nil
}

func (e *Engine) readTemplate(name string) ([]byte, error) {
	for _, src := range e.sources {
		raw, err := fs.ReadFile(src, name)
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("pongo: read template %q: %w", name, err)
		}
	}
	return nil, fmt.Errorf("pongo: %q: %w", name, template.ErrTemplateNotFound)
}

func (e *Engine) registerTemplateFunc(name string, fn any) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || fn == nil {
		return nil
	}

	if filter, ok := fn.(pongo2.FilterFunction); ok {
		if pongo2.FilterExists(trimmed) {
			return nil
		}
		return pongo2.RegisterFilter(trimmed, filter)
	}

	if !isCallable(fn) {
		return nil
	}
	if e.templateSet.Globals == nil {
		e.templateSet.Globals = make(pongo2.Context)
	}
	e.templateSet.Globals[trimmed] = fn
	return nil
}

// locateError names the template file in pongo2 errors, which report
// "<string>" for templates compiled from memory, and undoes the column shift
// the plain-text wrapper adds to the first line.
func locateError(err error, name string, wrapped bool) {
	var perr *pongo2.Error
	if !errors.As(err, &perr) {
		return
	}
	if perr.Filename == "" || perr.Filename == "<string>" {
		perr.Filename = name
	}
	if wrapped && perr.Line == 1 && perr.Column > len(plainPrefix) {
		perr.Column -= len(plainPrefix)
	}
}

func isTemplateContent(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%")
}

func normalizeExt(ext string) string {
	trimmed := strings.ToLower(strings.TrimSpace(ext))
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, ".") {
		trimmed = "." + trimmed
	}
	return trimmed
}
