package loader

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-promptgen/pkg/document"
	"github.com/goliatone/go-promptgen/pkg/domain"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.xml")
	payload := []byte(`<prompt name="t1"/>`)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	l := New(document.NewLoaderOptions())
	doc, err := l.Load(context.Background(), document.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(doc.Raw(), payload) {
		t.Fatalf("payload mismatch: %q", doc.Raw())
	}
	if doc.Location() != path {
		t.Fatalf("location mismatch: %q", doc.Location())
	}
}

func TestLoadMissingFileIsNotFound(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	l := New(document.NewLoaderOptions(document.WithLoaderLogger(logger)))
	missing := filepath.Join(t.TempDir(), "missing.xml")

	_, err := l.Load(context.Background(), document.SourceFromFile(missing))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found error, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected underlying fs.ErrNotExist, got %v", err)
	}
	if !strings.Contains(logs.String(), "document.load_failed") {
		t.Fatalf("expected failure to be logged, got %q", logs.String())
	}
}

func TestLoadFromFS(t *testing.T) {
	files := fstest.MapFS{
		"templates/rules.xml": &fstest.MapFile{Data: []byte(`<prompt/>`)},
	}
	l := New(document.NewLoaderOptions(document.WithFileSystem(files)))

	doc, err := l.Load(context.Background(), document.SourceFromFS("templates/rules.xml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != `<prompt/>` {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	_, err = l.Load(context.Background(), document.SourceFromFS("templates/other.xml"))
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found for missing fs entry, got %v", err)
	}
}

func TestLoadFromFSWithoutFileSystem(t *testing.T) {
	l := New(document.NewLoaderOptions())
	_, err := l.Load(context.Background(), document.SourceFromFS("rules.xml"))
	if err == nil {
		t.Fatalf("expected error when filesystem is not configured")
	}
	if domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("configuration error should not be reported as not_found")
	}
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(document.NewLoaderOptions())
	_, err := l.Load(ctx, document.SourceFromFile("prompt.xml"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
