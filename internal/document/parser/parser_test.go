package parser

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-promptgen/pkg/document"
	"github.com/goliatone/go-promptgen/pkg/domain"
)

func parse(t *testing.T, raw string) (*document.Node, error) {
	t.Helper()
	doc := document.MustNewDocument(document.SourceFromFS("fixture.xml"), []byte(raw))
	return New(document.NewParserOptions()).Parse(context.Background(), doc)
}

func TestParseBuildsOrderedTree(t *testing.T) {
	const raw = `<?xml version="1.0" encoding="UTF-8"?>
<prompt name="t1"><description>D</description><section type="rules"><rule>R1<description>desc1</description><note>note1</note></rule></section></prompt>`

	root, err := parse(t, raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := &document.Node{
		Tag:        "prompt",
		Attributes: map[string]string{"name": "t1"},
		Children: []*document.Node{
			{Tag: "description", Text: "D"},
			{
				Tag:        "section",
				Attributes: map[string]string{"type": "rules"},
				Children: []*document.Node{
					{
						Tag:  "rule",
						Text: "R1",
						Children: []*document.Node{
							{Tag: "description", Text: "desc1"},
							{Tag: "note", Text: "note1"},
						},
					},
				},
			},
		},
	}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTextStopsAtFirstChildElement(t *testing.T) {
	root, err := parse(t, "<rule>\n  lead <!-- aside --> text\n  <note>n</note>\n  tail\n</rule>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if root.Text != "\n  lead  text\n  " {
		t.Fatalf("unexpected text %q", root.Text)
	}
	if len(root.Children) != 1 || root.Children[0].Tag != "note" {
		t.Fatalf("unexpected children: %+v", root.Children)
	}
}

func TestParseMalformedDocumentIsParseError(t *testing.T) {
	cases := map[string]string{
		"mismatched": `<prompt><section></prompt>`,
		"unclosed":   `<prompt><section>`,
		"empty":      ``,
		"two roots":  `<prompt/><prompt/>`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parse(t, raw)
			if err == nil {
				t.Fatalf("expected parse error")
			}
			if !domain.IsKind(err, domain.KindParse) {
				t.Fatalf("expected parse kind, got %v", err)
			}
		})
	}
}
