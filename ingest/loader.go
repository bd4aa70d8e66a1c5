// Package ingest turns uploaded files into chunked documents ready for the
// vector store.
package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/spetersoncode/finsight/document"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultMaxSizeMB    = 50

	// CSVRowsPerChunk is the number of data rows rendered into each CSV
	// chunk document.
	CSVRowsPerChunk = 50
)

var (
	// ErrUnsupportedType is returned for file extensions without a loader.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrTooLarge is returned for files above the configured size limit.
	ErrTooLarge = errors.New("file exceeds maximum upload size")
)

var (
	defaultSeparators  = []string{"\n\n", "\n", " ", ""}
	markdownSeparators = []string{
		"\n# ", "\n## ", "\n### ", "\n#### ", "\n##### ", "\n###### ",
		"\n\n", "\n", " ", "",
	}
)

// Loader loads and splits files.
type Loader struct {
	chunkSize    int
	chunkOverlap int
	maxBytes     int64
	logger       *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithChunking sets the splitter chunk size and overlap.
func WithChunking(size, overlap int) Option {
	return func(l *Loader) {
		if size > 0 {
			l.chunkSize = size
		}
		if overlap >= 0 && overlap < l.chunkSize {
			l.chunkOverlap = overlap
		}
	}
}

// WithMaxSizeMB sets the upload size limit in megabytes.
func WithMaxSizeMB(mb int) Option {
	return func(l *Loader) {
		if mb > 0 {
			l.maxBytes = int64(mb) << 20
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader with the default chunking and size limit.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		maxBytes:     DefaultMaxSizeMB << 20,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Supported reports whether name has an extension the loader understands.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".csv", ".txt", ".md":
		return true
	}
	return false
}

// LoadFile reads the file at path, dispatching on its extension, and splits
// the result into chunks. Chunks keep their parent's metadata.
func (l *Loader) LoadFile(path string) ([]document.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > l.maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, filepath.Base(path), info.Size(), l.maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var docs []document.Document
	switch ext {
	case ".pdf":
		docs, err = loadPDF(path)
	case ".csv":
		docs, err = loadCSV(path)
	case ".txt", ".md":
		docs, err = loadText(path, strings.TrimPrefix(ext, "."))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	if err != nil {
		l.logger.Error("failed to load file", "path", path, "error", err)
		return nil, err
	}
	l.logger.Info("loaded file", "path", path, "documents", len(docs))

	chunks, err := l.Split(docs, ext)
	if err != nil {
		return nil, err
	}
	l.logger.Info("split documents", "path", path, "chunks", len(chunks))
	return chunks, nil
}

// Split splits every document with a recursive character splitter chosen
// for ext. Empty chunks are dropped.
func (l *Loader) Split(docs []document.Document, ext string) ([]document.Document, error) {
	splitter := l.splitterFor(ext)

	var chunks []document.Document
	for _, d := range docs {
		parts, err := splitter.SplitText(d.PageContent)
		if err != nil {
			return nil, fmt.Errorf("split %s: %w", d.Source(), err)
		}
		for _, p := range parts {
			if strings.TrimSpace(p) == "" {
				continue
			}
			chunks = append(chunks, document.Document{PageContent: p, Metadata: d.Metadata})
		}
	}
	return chunks, nil
}

func (l *Loader) splitterFor(ext string) textsplitter.TextSplitter {
	separators := defaultSeparators
	if ext == ".md" {
		separators = markdownSeparators
	}
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(l.chunkSize),
		textsplitter.WithChunkOverlap(l.chunkOverlap),
		textsplitter.WithSeparators(separators),
	)
}

func loadText(path, typ string) ([]document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}
	return []document.Document{{
		PageContent: text,
		Metadata:    document.Metadata{Source: filepath.Base(path), Type: typ},
	}}, nil
}
