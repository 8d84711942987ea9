package loader

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/goliatone/go-promptgen/internal/logging"
	"github.com/goliatone/go-promptgen/pkg/document"
	"github.com/goliatone/go-promptgen/pkg/domain"
)

const op = "document loader"

// Loader implements document.Loader by delegating to file or fs.FS
// strategies. Construction helpers live in the top-level promptgen package.
type Loader struct {
	fs     fs.FS
	logger *slog.Logger
}

// Ensure the implementation satisfies the public interface.
var _ document.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options document.LoaderOptions) document.Loader {
	return &Loader{
		fs:     options.FileSystem,
		logger: logging.OrDiscard(options.Logger),
	}
}

// Load fetches a document from the provided source and wraps it in a Document.
// A missing source yields a not_found error; nothing is parsed here.
func (l *Loader) Load(ctx context.Context, src document.Source) (document.Document, error) {
	if src == nil {
		return document.Document{}, errors.New("document loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case document.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case document.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	default:
		err = errors.New("document loader: unsupported source kind")
	}
	if err != nil {
		return document.Document{}, l.fail(src, err)
	}

	l.logger.Debug("document.loaded",
		slog.String("source", src.Location()),
		slog.Int("bytes", len(data)),
	)
	return document.NewDocument(src, data)
}

func (l *Loader) fail(src document.Source, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	kind := domain.KindIO
	if errors.Is(err, fs.ErrNotExist) {
		kind = domain.KindNotFound
	}
	classified := domain.New(op, kind, src.Location(), err)
	l.logger.Error("document.load_failed",
		slog.String("source", src.Location()),
		slog.String("kind", string(kind)),
		slog.String("error", err.Error()),
	)
	return classified
}
