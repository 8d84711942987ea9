// Package domain holds the error taxonomy shared by every pipeline stage. Each
// stage classifies a failure once, at the point it is detected, and hands the
// resulting *Error back to its caller untouched. Only the orchestrator folds
// failures into a Generation error.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrParse         = errors.New("parse error")
	ErrTemplate      = errors.New("template error")
	ErrIO            = errors.New("io error")
	ErrGeneration    = errors.New("generation failed")
	ErrInvalidConfig = errors.New("invalid config")
)

// Kind is a coarse-grained categorization for errors.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindParse         Kind = "parse"
	KindTemplate      Kind = "template"
	KindIO            Kind = "io"
	KindGeneration    Kind = "generation"
	KindInvalidConfig Kind = "invalid_config"
)

// Error wraps an underlying error with operation context and a kind.
type Error struct {
	Op   string
	Kind Kind
	Path string // optional: document, template, or output path
	Err  error
}

// New builds an *Error for the given operation.
func New(op string, kind Kind, path string, err error) *Error {
	return &Error{Op: op, Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches the sentinel error associated with the error's kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	return sentinelFor(e.Kind) == target
}

// GenerationError is the single error surfaced by the orchestrator. It keeps
// the message of the failure that stopped the run but not its type.
type GenerationError struct {
	Msg string
}

// NewGenerationError flattens err into a GenerationError.
func NewGenerationError(err error) *GenerationError {
	msg := "<nil>"
	if err != nil {
		msg = err.Error()
	}
	return &GenerationError{Msg: msg}
}

func (e *GenerationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return "prompt template generation failed: " + e.Msg
}

// Is reports true for ErrGeneration.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

// IsKind helps callers classify errors without depending on stage packages.
func IsKind(err error, kind Kind) bool {
	if kind == KindGeneration {
		var ge *GenerationError
		if errors.As(err, &ge) {
			return true
		}
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// KindOf returns the kind of the outermost classified error, or "" when err
// carries no classification.
func KindOf(err error) Kind {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return KindGeneration
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func sentinelFor(kind Kind) error {
	switch kind {
	case KindNotFound:
		return ErrNotFound
	case KindParse:
		return ErrParse
	case KindTemplate:
		return ErrTemplate
	case KindIO:
		return ErrIO
	case KindGeneration:
		return ErrGeneration
	case KindInvalidConfig:
		return ErrInvalidConfig
	default:
		return nil
	}
}
