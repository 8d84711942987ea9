package model

import (
	"log/slog"

	"github.com/goliatone/go-promptgen/internal/model"
	"github.com/goliatone/go-promptgen/pkg/document"
)

// Extractor converts a document tree into a TemplateModel.
type Extractor interface {
	Extract(root *document.Node) (TemplateModel, error)
}

// ExtractorOption configures the extractor behaviour.
type ExtractorOption func(*extractorOptions)

type extractorOptions struct {
	logger *slog.Logger
}

// WithLogger injects the logger used for extraction diagnostics.
func WithLogger(logger *slog.Logger) ExtractorOption {
	return func(opts *extractorOptions) {
		opts.logger = logger
	}
}

// NewExtractor returns an Extractor backed by the internal implementation.
func NewExtractor(options ...ExtractorOption) Extractor {
	cfg := extractorOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return model.New(model.Options{Logger: cfg.logger})
}

// Extract runs the extraction algorithm directly, without logging.
func Extract(root *document.Node) TemplateModel {
	return model.Extract(root)
}
