package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spetersoncode/finsight/flow"
	"github.com/spetersoncode/finsight/pipeline"
)

// failure converts a failed run into an error for the exit status.
func failure(run *flow.Run) error {
	if err := run.Err(); err != nil {
		return err
	}
	for _, key := range []string{"message", "answer", "summary"} {
		if msg, ok := run.Output[key].(string); ok && msg != "" {
			return errors.New(msg)
		}
	}
	return fmt.Errorf("%s run failed", run.Flow)
}

func renderAnswer(w io.Writer, s *pipeline.QAState) {
	fmt.Fprintln(w, s.Answer)
	fmt.Fprintf(w, "\nConfidence: %s\n", s.Confidence)
	if len(s.Sources) > 0 {
		fmt.Fprintln(w, "Sources:")
		for _, src := range uniqueSources(s.Sources) {
			if src.Page != nil {
				fmt.Fprintf(w, "  - %s (page %d)\n", src.Source, *src.Page)
			} else {
				fmt.Fprintf(w, "  - %s\n", src.Source)
			}
		}
	}
	if s.Keywords != "" {
		fmt.Fprintf(w, "Keywords: %s\n", s.Keywords)
	}
}

// uniqueSources drops repeated source, type and page combinations, keeping
// first occurrences in order.
func uniqueSources(in []pipeline.Source) []pipeline.Source {
	type key struct {
		source, typ string
		page        int
		paged       bool
	}
	seen := make(map[key]bool, len(in))
	out := make([]pipeline.Source, 0, len(in))
	for _, src := range in {
		k := key{source: src.Source, typ: src.Type}
		if src.Page != nil {
			k.page, k.paged = *src.Page, true
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, src)
	}
	return out
}

func renderSummary(w io.Writer, s *pipeline.SummaryState) {
	fmt.Fprintf(w, "%s summary of %d documents (%d words)\n\n", titleCase(s.SummaryType), s.NumDocuments, s.WordCount)
	fmt.Fprintln(w, s.SummaryText)
	if len(s.Sources) > 0 {
		fmt.Fprintf(w, "\nSources: %s\n", strings.Join(s.Sources, ", "))
	}
}

func renderQuiz(w io.Writer, s *pipeline.MCQState) {
	for i, q := range s.Questions {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%d. %s\n", i+1, q.Question)
		letters := make([]string, 0, len(q.Options))
		for letter := range q.Options {
			letters = append(letters, letter)
		}
		sort.Strings(letters)
		for _, letter := range letters {
			fmt.Fprintf(w, "   %s) %s\n", letter, q.Options[letter])
		}
		fmt.Fprintf(w, "   Answer: %s\n", q.CorrectAnswer)
		if q.Explanation != "" {
			fmt.Fprintf(w, "   %s\n", q.Explanation)
		}
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
