package output_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"testing"
	"time"

	"github.com/goliatone/go-promptgen/pkg/domain"
	"github.com/goliatone/go-promptgen/pkg/output"
)

var fixedNow = func() time.Time {
	return time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
}

func TestFileWriter_Write(t *testing.T) {
	dir := t.TempDir()
	w := output.NewFileWriter(dir, output.WithNow(fixedNow))

	loc, err := w.Write(context.Background(), "hello prompt\n")
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	want := filepath.Join(dir, "prompt_20240305_140709.txt")
	if loc != want {
		t.Fatalf("want location %q, got %q", want, loc)
	}
	data, err := os.ReadFile(loc)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hello prompt\n" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestFileWriter_Prefixes(t *testing.T) {
	dir := t.TempDir()
	w := output.NewFileWriter(dir, output.WithNow(fixedNow), output.WithPrefix("claude_prompt"))

	loc, err := w.Write(context.Background(), "x")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(loc) != "claude_prompt_20240305_140709.txt" {
		t.Fatalf("unexpected name %q", filepath.Base(loc))
	}

	loc, err = w.WriteWithPrefix(context.Background(), "y", "review")
	if err != nil {
		t.Fatalf("write with prefix: %v", err)
	}
	if filepath.Base(loc) != "review_20240305_140709.txt" {
		t.Fatalf("unexpected name %q", filepath.Base(loc))
	}
}

func TestFileWriter_NameFormat(t *testing.T) {
	w := output.NewFileWriter(t.TempDir())

	loc, err := w.Write(context.Background(), "x")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	pattern := regexp.MustCompile(`^prompt_\d{8}_\d{6}\.txt$`)
	if !pattern.MatchString(filepath.Base(loc)) {
		t.Fatalf("name %q does not match %s", filepath.Base(loc), pattern)
	}
}

func TestFileWriter_DoesNotOverwriteSameSecond(t *testing.T) {
	dir := t.TempDir()
	w := output.NewFileWriter(dir, output.WithNow(fixedNow))

	first, err := w.Write(context.Background(), "first")
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	second, err := w.Write(context.Background(), "second")
	if err != nil {
		t.Fatalf("second write: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct locations, got %q twice", first)
	}
	if filepath.Base(second) != "prompt_20240305_140709_2.txt" {
		t.Fatalf("unexpected collision name %q", filepath.Base(second))
	}
	data, _ := os.ReadFile(first)
	if string(data) != "first" {
		t.Fatalf("first file was overwritten: %q", data)
	}
}

func TestFileWriter_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "outputs")
	w := output.NewFileWriter(dir, output.WithNow(fixedNow))

	if _, err := w.Write(context.Background(), "x"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected output directory to be created, err=%v", err)
	}
}

func TestFileWriter_IOError(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("file"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	w := output.NewFileWriter(filepath.Join(blocker, "outputs"))
	_, err := w.Write(context.Background(), "x")
	if err == nil {
		t.Fatalf("expected io error")
	}
	if !domain.IsKind(err, domain.KindIO) || !errors.Is(err, domain.ErrIO) {
		t.Fatalf("expected io kind, got %v", err)
	}
}

func TestFileWriter_ReadOnlyDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	_, err := output.NewFileWriter(dir).Write(context.Background(), "x")
	if !domain.IsKind(err, domain.KindIO) {
		t.Fatalf("expected io kind, got %v", err)
	}
}

func TestFileWriter_RejectsPathPrefix(t *testing.T) {
	w := output.NewFileWriter(t.TempDir())
	if _, err := w.WriteWithPrefix(context.Background(), "x", "../escape"); !domain.IsKind(err, domain.KindIO) {
		t.Fatalf("expected io kind for path prefix, got %v", err)
	}
}

func TestFileName(t *testing.T) {
	got := output.FileName("claude_prompt", fixedNow())
	if got != "claude_prompt_20240305_140709.txt" {
		t.Fatalf("unexpected file name %q", got)
	}
}
