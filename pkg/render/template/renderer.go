package template

import (
	"errors"
	"io"
)

// ErrTemplateNotFound is returned (wrapped) when no configured source holds
// the requested template.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateRenderer is the seam between the render stage and a concrete
// template engine.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
