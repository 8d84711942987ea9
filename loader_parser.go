package promptgen

import (
	"context"

	internalLoader "github.com/goliatone/go-promptgen/internal/document/loader"
	internalParser "github.com/goliatone/go-promptgen/internal/document/parser"
	"github.com/goliatone/go-promptgen/pkg/document"
	"github.com/goliatone/go-promptgen/pkg/model"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...document.LoaderOption) document.Loader {
	cfg := document.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...document.ParserOption) document.Parser {
	cfg := document.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// Extract parses doc and extracts its template model.
func Extract(ctx context.Context, doc document.Document) (model.TemplateModel, error) {
	root, err := NewParser().Parse(ctx, doc)
	if err != nil {
		return model.TemplateModel{}, err
	}
	return model.NewExtractor().Extract(root)
}

// ExtractFile loads, parses and extracts the template document at path.
func ExtractFile(ctx context.Context, path string) (model.TemplateModel, error) {
	doc, err := NewLoader().Load(ctx, document.SourceFromFile(path))
	if err != nil {
		return model.TemplateModel{}, err
	}
	return Extract(ctx, doc)
}
