package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	internalParser "github.com/goliatone/go-promptgen/internal/document/parser"
	"github.com/goliatone/go-promptgen/pkg/document"
	pkgmodel "github.com/goliatone/go-promptgen/pkg/model"
)

// ParseXML parses raw markup into a Node tree, failing the test on error.
func ParseXML(t *testing.T, raw string) *document.Node {
	t.Helper()

	root, err := ParseXMLString(raw)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return root
}

// ParseXMLString parses raw markup without requiring testing.T.
func ParseXMLString(raw string) (*document.Node, error) {
	doc, err := document.NewDocument(document.SourceFromFS("fixture.xml"), []byte(raw))
	if err != nil {
		return nil, fmt.Errorf("testsupport: new document: %w", err)
	}
	parser := internalParser.New(document.NewParserOptions())
	return parser.Parse(context.Background(), doc)
}

// LoadDocument reads a fixture and builds a Document using a file source.
func LoadDocument(t *testing.T, path string) document.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (document.Document, error) {
	if path == "" {
		return document.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return document.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := document.NewDocument(document.SourceFromFile(path), data)
	if err != nil {
		return document.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustExtract parses raw markup and runs the extractor over it.
func MustExtract(t *testing.T, raw string) pkgmodel.TemplateModel {
	t.Helper()

	root := ParseXML(t, raw)
	tm, err := pkgmodel.NewExtractor().Extract(root)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return tm
}

// MustLoadTemplateModel loads a JSON golden file into a TemplateModel.
func MustLoadTemplateModel(t *testing.T, path string) pkgmodel.TemplateModel {
	t.Helper()

	tm, err := LoadTemplateModel(path)
	if err != nil {
		t.Fatalf("load template model: %v", err)
	}
	return tm
}

// LoadTemplateModel reads a JSON fixture into a TemplateModel, returning an
// error for callers managing setup outside of *testing.T.
func LoadTemplateModel(path string) (pkgmodel.TemplateModel, error) {
	if path == "" {
		return pkgmodel.TemplateModel{}, errors.New("testsupport: template model path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pkgmodel.TemplateModel{}, fmt.Errorf("testsupport: read template model: %w", err)
	}
	var out pkgmodel.TemplateModel
	if err := json.Unmarshal(data, &out); err != nil {
		return pkgmodel.TemplateModel{}, fmt.Errorf("testsupport: unmarshal template model: %w", err)
	}
	return out, nil
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file as a string.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput runs fn with a buffer and returns both the returned
// string and whatever fn wrote to the buffer.
func CaptureTemplateOutput(t *testing.T, fn func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	result, err := fn(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return result, buf.String()
}
