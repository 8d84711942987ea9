package model

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/goliatone/go-promptgen/internal/logging"
	"github.com/goliatone/go-promptgen/pkg/document"
)

const (
	tagDescription = "description"
	tagSection     = "section"
	attrName       = "name"
	attrType       = "type"
)

// Options configures the extractor.
type Options struct {
	Logger *slog.Logger
}

// Extractor recovers a TemplateModel from a generic document tree.
type Extractor struct {
	logger *slog.Logger
}

// New constructs an Extractor.
func New(options Options) *Extractor {
	return &Extractor{logger: logging.OrDiscard(options.Logger)}
}

// Extract builds the TemplateModel for root. The only failure is a nil root;
// any well-formed tree yields a model.
func (e *Extractor) Extract(root *document.Node) (TemplateModel, error) {
	if root == nil {
		return TemplateModel{}, errors.New("model extractor: document root is nil")
	}
	tm := Extract(root)
	e.logger.Debug("template.extracted",
		slog.String("name", tm.Name),
		slog.Int("sections", len(tm.Sections)),
		slog.Int("items", tm.ItemCount()),
	)
	return tm, nil
}

// Extract is the pure extraction function behind Extractor.Extract.
func Extract(root *document.Node) TemplateModel {
	tm := TemplateModel{
		Name:     root.AttrOr(attrName, DefaultTemplateName),
		Sections: []Section{},
	}
	if desc := root.FirstChild(tagDescription); desc != nil {
		tm.Description = desc.Text
	}

	for _, node := range root.ChildrenByTag(tagSection) {
		tm.Sections = append(tm.Sections, extractSection(node))
	}
	return tm
}

func extractSection(node *document.Node) Section {
	section := Section{
		Type:       SectionType(node.AttrOr(attrType, "")),
		DirectText: strings.TrimSpace(node.Text),
	}

	itemTag, ok := section.Type.ItemTag()
	if !ok {
		return section
	}
	for _, child := range node.ChildrenByTag(itemTag) {
		section.Items = append(section.Items, Item{
			Text:        strings.TrimSpace(child.Text),
			Annotations: collectAnnotations(extractSubItems(child)),
		})
	}
	return section
}

// extractSubItems walks the direct annotation children of an item-producing
// node. Annotations attach to the most recently pushed item; when the node has
// no main text a single empty-text item is synthesized on the first
// annotation and every later annotation lands on it.
func extractSubItems(node *document.Node) []Item {
	var stack []Item

	if mainText := strings.TrimSpace(node.Text); mainText != "" {
		stack = append(stack, Item{Text: mainText})
	}

	for _, child := range node.Children {
		kind, ok := ParseAnnotationKind(child.Tag)
		if !ok {
			continue
		}
		if len(stack) == 0 {
			stack = append(stack, Item{})
		}
		current := &stack[len(stack)-1]
		current.Annotations = append(current.Annotations, Annotation{
			Kind: kind,
			Text: strings.TrimSpace(child.Text),
		})
	}
	return stack
}

func collectAnnotations(stack []Item) []Annotation {
	var out []Annotation
	for _, item := range stack {
		out = append(out, item.Annotations...)
	}
	return out
}
