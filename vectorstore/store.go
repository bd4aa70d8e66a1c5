// Package vectorstore is an embedding index over documents, persisted in
// badger and searched by cosine similarity.
package vectorstore

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v4"

	ai "github.com/spetersoncode/finsight"
	"github.com/spetersoncode/finsight/chat"
	"github.com/spetersoncode/finsight/document"
)

// DefaultBatchSize is the number of texts embedded per provider call.
const DefaultBatchSize = 32

var keyPrefix = []byte("doc/")

// ErrDimensionMismatch is returned when a new embedding does not match the
// dimension of the stored ones.
var ErrDimensionMismatch = errors.New("vectorstore: embedding dimension mismatch")

type entry struct {
	Seq      uint64            `json:"seq"`
	Document document.Document `json:"document"`
	Vector   []float64         `json:"vector"`
	norm     float64
}

// Store holds documents and their embeddings. It is safe for concurrent use.
type Store struct {
	db        *badger.DB
	embedder  chat.Embedder
	logger    *slog.Logger
	batchSize int

	mu      sync.RWMutex
	entries []entry
	nextSeq uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithBatchSize sets how many texts are embedded per call.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// Open opens the database described by cfg and loads the stored entries.
func Open(cfg Config, embedder chat.Embedder, opts ...Option) (*Store, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &Store{
		db:        db,
		embedder:  embedder,
		logger:    slog.Default(),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	s.logger.Info("vector store loaded", "documents", len(s.entries), "in_memory", cfg.InMemory)
	return s, nil
}

func (s *Store) load() error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var e entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return fmt.Errorf("decode entry %s: %w", it.Item().Key(), err)
			}
			e.norm = norm(e.Vector)
			s.entries = append(s.entries, e)
			if e.Seq >= s.nextSeq {
				s.nextSeq = e.Seq + 1
			}
		}
		return nil
	})
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Add embeds docs and stores them.
func (s *Store) Add(ctx context.Context, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}

	vectors := make([][]float64, 0, len(docs))
	for start := 0; start < len(docs); start += s.batchSize {
		end := min(start+s.batchSize, len(docs))
		texts := make([]string, 0, end-start)
		for _, d := range docs[start:end] {
			texts = append(texts, d.PageContent)
		}

		resp, err := s.embedder.Embed(ctx, texts,
			ai.WithEmbeddingTaskType(ai.EmbeddingTaskTypeRetrievalDocument))
		if err != nil {
			return fmt.Errorf("embed documents: %w", err)
		}
		if len(resp.Embeddings) != len(texts) {
			return fmt.Errorf("embed documents: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
		}
		vectors = append(vectors, resp.Embeddings...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dim := s.dimension(); dim > 0 {
		for _, v := range vectors {
			if len(v) != dim {
				return fmt.Errorf("%w: have %d, got %d", ErrDimensionMismatch, dim, len(v))
			}
		}
	}

	// The batch commits in several transactions once it outgrows one.
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	added := make([]entry, len(docs))
	for i, d := range docs {
		e := entry{Seq: s.nextSeq + uint64(i), Document: d, Vector: vectors[i]}
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		if err := wb.Set(entryKey(e.Seq), data); err != nil {
			return fmt.Errorf("persist documents: %w", err)
		}
		e.norm = norm(e.Vector)
		added[i] = e
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("persist documents: %w", err)
	}

	s.entries = append(s.entries, added...)
	s.nextSeq += uint64(len(docs))
	s.logger.Info("added documents to vector store", "count", len(docs), "total", len(s.entries))
	return nil
}

// SimilaritySearch returns the k documents most similar to query, best
// first. It returns an empty slice, never an error, when the store is empty
// or the query cannot be embedded.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) []document.Document {
	if k <= 0 {
		return []document.Document{}
	}

	s.mu.RLock()
	empty := len(s.entries) == 0
	s.mu.RUnlock()
	if empty {
		s.logger.Warn("vector store not initialized")
		return []document.Document{}
	}

	resp, err := s.embedder.Embed(ctx, []string{query},
		ai.WithEmbeddingTaskType(ai.EmbeddingTaskTypeRetrievalQuery))
	if err != nil || len(resp.Embeddings) != 1 {
		s.logger.Error("failed to perform similarity search", "error", err)
		return []document.Document{}
	}
	q := resp.Embeddings[0]
	qn := norm(q)

	s.mu.RLock()
	type scored struct {
		doc   document.Document
		score float64
	}
	results := make([]scored, 0, len(s.entries))
	for _, e := range s.entries {
		if len(e.Vector) != len(q) {
			continue
		}
		results = append(results, scored{doc: e.Document, score: cosine(q, qn, e.Vector, e.norm)})
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })
	if len(results) > k {
		results = results[:k]
	}

	docs := make([]document.Document, len(results))
	for i, r := range results {
		docs[i] = r.doc
	}
	s.logger.Info("found similar documents", "count", len(docs))
	return docs
}

// Documents returns every stored document in insertion order.
func (s *Store) Documents() []document.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]document.Document, len(s.entries))
	for i, e := range s.entries {
		docs[i] = e.Document
	}
	return docs
}

// Clear removes every document.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DropPrefix(keyPrefix); err != nil {
		return fmt.Errorf("clear vector store: %w", err)
	}
	s.entries = nil
	s.nextSeq = 0
	s.logger.Info("cleared vector store")
	return nil
}

func (s *Store) dimension() int {
	if len(s.entries) == 0 {
		return 0
	}
	return len(s.entries[0].Vector)
}

func entryKey(seq uint64) []byte {
	var buf bytes.Buffer
	buf.Write(keyPrefix)
	_ = binary.Write(&buf, binary.BigEndian, seq)
	return buf.Bytes()
}

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func cosine(a []float64, an float64, b []float64, bn float64) float64 {
	if an == 0 || bn == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (an * bn)
}
