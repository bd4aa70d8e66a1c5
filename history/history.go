// Package history persists a log of answered questions, summaries and
// quizzes to a JSON file.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileName is the history file created inside the logs directory.
const FileName = "chat_history.json"

// Entry types.
const (
	TypeQA      = "qa"
	TypeSummary = "summary"
	TypeMCQ     = "mcq"
)

// reserved keys are owned by Entry and cannot be overridden by fields.
var reserved = []string{"id", "timestamp", "type"}

// Entry is one recorded interaction. Fields hold the type-specific payload
// and are flattened next to id, timestamp and type when encoded.
type Entry struct {
	ID        string
	Timestamp time.Time
	Type      string
	Fields    map[string]any
}

// MarshalJSON flattens Fields into the top-level object.
func (e Entry) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.Fields)+3)
	for k, v := range e.Fields {
		m[k] = v
	}
	m["id"] = e.ID
	m["timestamp"] = e.Timestamp.Format(time.RFC3339Nano)
	m["type"] = e.Type
	return json.Marshal(m)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	id, _ := m["id"].(string)
	typ, _ := m["type"].(string)
	ts, _ := m["timestamp"].(string)

	var t time.Time
	if ts != "" {
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			// Entries written without a zone offset.
			parsed, err = time.ParseInLocation("2006-01-02T15:04:05.999999999", ts, time.Local)
			if err != nil {
				return fmt.Errorf("parse timestamp %q: %w", ts, err)
			}
		}
		t = parsed
	}

	for _, k := range reserved {
		delete(m, k)
	}
	*e = Entry{ID: id, Timestamp: t, Type: typ, Fields: m}
	return nil
}

// Store is an append-only interaction log backed by a single JSON file.
// The whole file is rewritten on every change. It is safe for concurrent use.
type Store struct {
	path   string
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries []Entry
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithClock sets the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open loads the history file in dir, creating dir if needed. A missing
// file yields an empty history.
func Open(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create history directory %s: %w", dir, err)
	}

	s := &Store{
		path:   filepath.Join(dir, FileName),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read history: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("decode history %s: %w", s.path, err)
	}
	return s, nil
}

// Path returns the history file path.
func (s *Store) Path() string {
	return s.path
}

// Append records an interaction of the given type and persists the log.
func (s *Store) Append(typ string, fields map[string]any) (Entry, error) {
	if typ == "" {
		return Entry{}, errors.New("history entry type is required")
	}

	payload := make(map[string]any, len(fields))
	for k, v := range fields {
		if !slices.Contains(reserved, k) {
			payload[k] = v
		}
	}
	e := Entry{
		ID:        uuid.NewString(),
		Timestamp: s.now(),
		Type:      typ,
		Fields:    payload,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)
	if err := s.save(); err != nil {
		s.entries = s.entries[:len(s.entries)-1]
		s.logger.Error("error saving chat history", "error", err)
		return Entry{}, err
	}
	return e, nil
}

// List returns entries oldest first, restricted to types when any are given.
func (s *Store) List(types ...string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if len(types) == 0 || slices.Contains(types, e.Type) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear removes every entry and persists the empty log.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.entries
	s.entries = nil
	if err := s.save(); err != nil {
		s.entries = prev
		return err
	}
	return nil
}

// save writes the log through a temporary file. Callers hold mu.
func (s *Store) save() error {
	entries := s.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
