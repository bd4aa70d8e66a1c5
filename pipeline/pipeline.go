// Package pipeline implements the Q&A, summary and quiz flows over
// ingested financial documents.
//
// Each pipeline is a [flow.Flow] over its own state type. Collaborators
// (retrieval, answer generation, summarization, quiz generation and
// parsing) are injected at construction so the same pipeline runs against
// crews in production and counters in tests.
package pipeline

import (
	"context"

	"github.com/spetersoncode/finsight/document"
)

// Flow names.
const (
	FlowQA      = "qa"
	FlowSummary = "summary"
	FlowMCQ     = "mcq"
)

// Generator produces text from named prompt inputs.
// crew.Crew is the production implementation.
type Generator interface {
	Generate(ctx context.Context, inputs map[string]string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, inputs map[string]string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, inputs map[string]string) (string, error) {
	return f(ctx, inputs)
}

// Retriever finds documents similar to a query. Implementations return an
// empty slice rather than an error when nothing can be found.
type Retriever interface {
	SimilaritySearch(ctx context.Context, query string, k int) []document.Document
}

// DocumentLister returns the documents available to summary and quiz runs.
type DocumentLister interface {
	Documents() []document.Document
}
