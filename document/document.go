// Package document defines the unit of retrieved or ingested text shared by
// the ingestion, retrieval and pipeline packages.
package document

import (
	"sort"
	"strings"
)

const (
	// UnknownSource is reported for documents without a source.
	UnknownSource = "Unknown"
	// UnknownType is reported for documents without a type.
	UnknownType = "unknown"
)

// Metadata describes where a Document came from.
type Metadata struct {
	Source string         `json:"source,omitempty"`
	Type   string         `json:"type,omitempty"`
	Page   *int           `json:"page,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// Document is a chunk of text plus its metadata. Documents are treated as
// immutable once produced.
type Document struct {
	PageContent string   `json:"page_content"`
	Metadata    Metadata `json:"metadata"`
}

// Source returns the document source, or UnknownSource.
func (d Document) Source() string {
	if d.Metadata.Source == "" {
		return UnknownSource
	}
	return d.Metadata.Source
}

// Type returns the document type, or UnknownType.
func (d Document) Type() string {
	if d.Metadata.Type == "" {
		return UnknownType
	}
	return d.Metadata.Type
}

// Page returns a pointer to a copy of n, for building Metadata literals.
func Page(n int) *int {
	return &n
}

// JoinContent joins the page content of at most limit documents with a blank
// line. A limit <= 0 means all documents.
func JoinContent(docs []Document, limit int) string {
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = d.PageContent
	}
	return strings.Join(parts, "\n\n")
}

// Sources returns the distinct sources of docs. The result is sorted so
// output is stable, but callers must treat it as a set.
func Sources(docs []Document) []string {
	seen := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		seen[d.Source()] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
