package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spetersoncode/finsight/document"
)

// Confidence levels reported with an answer.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

const (
	// DefaultK is the number of documents retrieved per question.
	DefaultK = 4

	// HighConfidenceDocs is the number of retrieved documents at which an
	// answer is reported with high confidence.
	HighConfidenceDocs = 3

	noContext = "No relevant documents found."
)

// Source identifies a document an answer was drawn from.
type Source struct {
	Source string `json:"source"`
	Type   string `json:"type"`
	Page   *int   `json:"page,omitempty"`
}

// Answer is the outcome of answering a question. Success is false when the
// collaborator could not produce an answer.
type Answer struct {
	Success    bool
	Text       string
	Sources    []Source
	Confidence string
	NumSources int
}

// Answerer answers a question.
type Answerer interface {
	Answer(ctx context.Context, question string) (Answer, error)
}

// RetrievalAnswerer answers questions by retrieving similar documents and
// handing them to a Generator as context.
type RetrievalAnswerer struct {
	retriever Retriever
	generator Generator
	k         int
	logger    *slog.Logger
}

// AnswererOption configures a RetrievalAnswerer.
type AnswererOption func(*RetrievalAnswerer)

// WithK sets the number of documents retrieved.
func WithK(k int) AnswererOption {
	return func(a *RetrievalAnswerer) {
		if k > 0 {
			a.k = k
		}
	}
}

// WithAnswererLogger sets the logger.
func WithAnswererLogger(l *slog.Logger) AnswererOption {
	return func(a *RetrievalAnswerer) {
		a.logger = l
	}
}

// NewRetrievalAnswerer creates an answerer over r and g.
func NewRetrievalAnswerer(r Retriever, g Generator, opts ...AnswererOption) *RetrievalAnswerer {
	a := &RetrievalAnswerer{
		retriever: r,
		generator: g,
		k:         DefaultK,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Answer retrieves context for question and generates an answer from it.
// Generation errors are returned. A blank generated answer is reported as
// unsuccessful.
func (a *RetrievalAnswerer) Answer(ctx context.Context, question string) (Answer, error) {
	docs := a.retriever.SimilaritySearch(ctx, question, a.k)

	contextText := noContext
	sources := make([]Source, 0, len(docs))
	if len(docs) == 0 {
		a.logger.Warn("no relevant documents found", "question", question)
	} else {
		contextText = document.JoinContent(docs, 0)
		for _, d := range docs {
			sources = append(sources, Source{Source: d.Source(), Type: d.Type(), Page: d.Metadata.Page})
		}
		a.logger.Info("context prepared", "documents", len(docs))
	}

	text, err := a.generator.Generate(ctx, map[string]string{
		"question": question,
		"context":  contextText,
	})
	if err != nil {
		return Answer{}, fmt.Errorf("generate answer: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return Answer{Success: false, Confidence: ConfidenceLow}, nil
	}

	return Answer{
		Success:    true,
		Text:       strings.TrimSpace(text),
		Sources:    sources,
		Confidence: confidence(len(docs)),
		NumSources: len(docs),
	}, nil
}

func confidence(n int) string {
	if n >= HighConfidenceDocs {
		return ConfidenceHigh
	}
	return ConfidenceMedium
}
