// Package output persists rendered prompts as timestamped text files.
package output

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-promptgen/internal/logging"
	"github.com/goliatone/go-promptgen/pkg/domain"
)

const (
	// DefaultPrefix names files written without an explicit prefix.
	DefaultPrefix = "prompt"
	// TimestampLayout is the YYYYMMDD_HHMMSS stamp embedded in file names.
	TimestampLayout = "20060102_150405"

	fileExt     = ".txt"
	maxAttempts = 100
	opWrite     = "output writer"
)

// Writer persists text and returns where it was stored.
type Writer interface {
	Write(ctx context.Context, text string) (string, error)
	WriteWithPrefix(ctx context.Context, text, prefix string) (string, error)
}

// FileWriter writes prompts into a directory as <prefix>_<timestamp>.txt.
type FileWriter struct {
	dir    string
	prefix string
	now    func() time.Time
	perm   fs.FileMode
	logger *slog.Logger
}

// Option customises a FileWriter.
type Option func(*FileWriter)

// WithPrefix sets the prefix used by Write.
func WithPrefix(prefix string) Option {
	return func(w *FileWriter) {
		if trimmed := strings.TrimSpace(prefix); trimmed != "" {
			w.prefix = trimmed
		}
	}
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(w *FileWriter) {
		if now != nil {
			w.now = now
		}
	}
}

// WithFileMode sets the permission bits of written files.
func WithFileMode(perm fs.FileMode) Option {
	return func(w *FileWriter) {
		if perm != 0 {
			w.perm = perm
		}
	}
}

// WithLogger sets the logger used to report write failures.
func WithLogger(logger *slog.Logger) Option {
	return func(w *FileWriter) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewFileWriter returns a writer rooted at dir. The directory is created on
// the first write when it does not exist.
func NewFileWriter(dir string, options ...Option) *FileWriter {
	w := &FileWriter{
		dir:    dir,
		prefix: DefaultPrefix,
		now:    time.Now,
		perm:   0o644,
		logger: logging.Discard(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

var _ Writer = (*FileWriter)(nil)

// Dir returns the output directory.
func (w *FileWriter) Dir() string {
	return w.dir
}

// Write stores text using the writer's default prefix.
func (w *FileWriter) Write(ctx context.Context, text string) (string, error) {
	return w.WriteWithPrefix(ctx, text, w.prefix)
}

// WriteWithPrefix stores text as <prefix>_<YYYYMMDD_HHMMSS>.txt. When a file
// with that name already exists a numeric suffix is appended instead of
// overwriting it.
func (w *FileWriter) WriteWithPrefix(ctx context.Context, text, prefix string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = w.prefix
	}
	if strings.ContainsAny(prefix, `/\`) {
		return "", w.fail(prefix, fmt.Errorf("prefix %q must not contain path separators", prefix))
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", w.fail(w.dir, err)
	}

	base := FileName(prefix, w.now())
	for attempt := 0; attempt < maxAttempts; attempt++ {
		name := base
		if attempt > 0 {
			name = strings.TrimSuffix(base, fileExt) + fmt.Sprintf("_%d", attempt+1) + fileExt
		}
		path := filepath.Join(w.dir, name)

		err := writeExclusive(path, []byte(text), w.perm)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", w.fail(path, err)
		}

		w.logger.Info("prompt.saved",
			slog.String("path", path),
			slog.Int("bytes", len(text)),
		)
		return path, nil
	}
	return "", w.fail(filepath.Join(w.dir, base), fmt.Errorf("no free file name after %d attempts", maxAttempts))
}

// FileName formats the output file name for prefix at t.
func FileName(prefix string, t time.Time) string {
	return prefix + "_" + t.Format(TimestampLayout) + fileExt
}

func writeExclusive(path string, data []byte, perm fs.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

func (w *FileWriter) fail(path string, err error) error {
	w.logger.Error("prompt.save_failed",
		slog.String("path", path),
		slog.Any("error", err),
	)
	return domain.New(opWrite, domain.KindIO, path, err)
}
