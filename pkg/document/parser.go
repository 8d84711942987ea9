package document

import (
	"context"
	"log/slog"
)

// Parser turns a loaded Document into its root Node.
type Parser interface {
	Parse(ctx context.Context, doc Document) (*Node, error)
}

// ParserOptions exposes parsing toggles.
type ParserOptions struct {
	// Permissive tolerates common markup mistakes such as unquoted attribute
	// values. Defaults to false so malformed documents surface as parse errors.
	Permissive bool

	// Logger receives a record for every parse failure. Nil discards.
	Logger *slog.Logger
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithPermissive toggles lenient parsing.
func WithPermissive(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.Permissive = enabled
	}
}

// WithParserLogger injects the logger used for parse diagnostics.
func WithParserLogger(logger *slog.Logger) ParserOption {
	return func(opts *ParserOptions) {
		opts.Logger = logger
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// Construction helpers live in the top-level promptgen package to avoid import cycles.
