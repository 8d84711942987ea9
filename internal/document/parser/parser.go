package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/beevik/etree"

	"github.com/goliatone/go-promptgen/internal/logging"
	"github.com/goliatone/go-promptgen/pkg/document"
	"github.com/goliatone/go-promptgen/pkg/domain"
)

const op = "document parser"

// Parser implements document.Parser using etree.
type Parser struct {
	options document.ParserOptions
	logger  *slog.Logger
}

// Ensure the implementation satisfies the public interface.
var _ document.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options document.ParserOptions) document.Parser {
	return &Parser{
		options: options,
		logger:  logging.OrDiscard(options.Logger),
	}
}

// Parse converts the document payload into a Node tree rooted at the single
// document element. Malformed markup yields a parse error.
func (p *Parser) Parse(ctx context.Context, doc document.Document) (*document.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree := etree.NewDocument()
	tree.ReadSettings.Permissive = p.options.Permissive

	if err := tree.ReadFromBytes(doc.Raw()); err != nil {
		return nil, p.fail(doc, err)
	}

	roots := tree.ChildElements()
	switch len(roots) {
	case 0:
		return nil, p.fail(doc, errors.New("document has no root element"))
	case 1:
	default:
		return nil, p.fail(doc, fmt.Errorf("document has %d root elements", len(roots)))
	}

	root := convert(roots[0])
	p.logger.Debug("document.parsed",
		slog.String("source", doc.Location()),
		slog.String("root", root.Tag),
		slog.Int("children", len(root.Children)),
	)
	return root, nil
}

func (p *Parser) fail(doc document.Document, err error) error {
	p.logger.Error("document.parse_failed",
		slog.String("source", doc.Location()),
		slog.String("error", err.Error()),
	)
	return domain.New(op, domain.KindParse, doc.Location(), err)
}

func convert(el *etree.Element) *document.Node {
	node := &document.Node{
		Tag:  el.Tag,
		Text: el.Text(),
	}
	if len(el.Attr) > 0 {
		node.Attributes = make(map[string]string, len(el.Attr))
		for _, attr := range el.Attr {
			node.Attributes[attr.FullKey()] = attr.Value
		}
	}
	children := el.ChildElements()
	if len(children) > 0 {
		node.Children = make([]*document.Node, 0, len(children))
		for _, child := range children {
			node.Children = append(node.Children, convert(child))
		}
	}
	return node
}
