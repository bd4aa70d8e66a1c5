package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/finsight/flow"
	"github.com/spetersoncode/finsight/history"
	"github.com/spetersoncode/finsight/pipeline"
	"github.com/spetersoncode/finsight/quiz"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"ingest", "ask", "summarize", "quiz", "history", "serve", "words-server", "relay"})
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.csv", "notes.md", "deck.pptx", "sub/c.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	single := filepath.Join(dir, "deck.pptx")

	files, err := collectFiles([]string{dir, single})
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "notes.md"),
		filepath.Join(dir, "sub", "c.txt"),
		single,
	}
	assert.Equal(t, want, files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestFailure(t *testing.T) {
	run := &flow.Run{Flow: "summary", Output: flow.Payload{"success": false, "summary": "No documents available to summarize"}}
	assert.EqualError(t, failure(run), "No documents available to summarize")

	run = &flow.Run{Flow: "mcq", Output: flow.Payload{"success": false}}
	assert.EqualError(t, failure(run), "mcq run failed")

	cause := errors.New("boom")
	run = &flow.Run{
		Flow:    "qa",
		Order:   []string{"answer_for_question"},
		Results: map[string]flow.Result{"answer_for_question": {Failed: true, Err: cause}},
	}
	assert.ErrorIs(t, failure(run), cause)
}

func TestRenderAnswer(t *testing.T) {
	page := 3
	var buf bytes.Buffer
	renderAnswer(&buf, &pipeline.QAState{
		Answer:     "Revenue was $4.2M.",
		Confidence: pipeline.ConfidenceHigh,
		Sources: []pipeline.Source{
			{Source: "q3.pdf", Type: "pdf", Page: &page},
			{Source: "data.csv", Type: "csv"},
		},
		Keywords: "revenue, million",
	})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Revenue was $4.2M.\n"))
	assert.Contains(t, out, "Confidence: high")
	assert.Contains(t, out, "  - q3.pdf (page 3)\n")
	assert.Contains(t, out, "  - data.csv\n")
	assert.Contains(t, out, "Keywords: revenue, million")
}

func TestRenderAnswerRepeatedSources(t *testing.T) {
	page3, samePage, page4 := 3, 3, 4
	var buf bytes.Buffer
	renderAnswer(&buf, &pipeline.QAState{
		Answer:     "Debt fell.",
		Confidence: pipeline.ConfidenceMedium,
		Sources: []pipeline.Source{
			{Source: "q3.pdf", Type: "pdf", Page: &page3},
			{Source: "q3.pdf", Type: "pdf", Page: &samePage},
			{Source: "q3.pdf", Type: "pdf", Page: &page4},
			{Source: "data.csv", Type: "csv"},
			{Source: "data.csv", Type: "csv"},
		},
	})

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "  - q3.pdf (page 3)\n"))
	assert.Equal(t, 1, strings.Count(out, "  - q3.pdf (page 4)\n"))
	assert.Equal(t, 1, strings.Count(out, "  - data.csv\n"))
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	renderSummary(&buf, &pipeline.SummaryState{
		SummaryType:  "brief",
		SummaryText:  "Margins improved.",
		NumDocuments: 2,
		WordCount:    2,
		Sources:      []string{"a.pdf", "b.csv"},
	})
	assert.Equal(t, "Brief summary of 2 documents (2 words)\n\nMargins improved.\n\nSources: a.pdf, b.csv\n", buf.String())
}

func TestRenderQuiz(t *testing.T) {
	var buf bytes.Buffer
	renderQuiz(&buf, &pipeline.MCQState{Questions: []quiz.Question{{
		Question:      "What is EBITDA?",
		Options:       map[string]string{"B": "Two", "A": "One", "D": "Four", "C": "Three"},
		CorrectAnswer: "C",
		Explanation:   "Because.",
	}}})

	assert.Equal(t, `1. What is EBITDA?
   A) One
   B) Two
   C) Three
   D) Four
   Answer: C
   Because.
`, buf.String())
}

func TestHistoryCommands(t *testing.T) {
	t.Chdir(t.TempDir())
	logs := filepath.Join(t.TempDir(), "logs")
	t.Setenv("LOGS_DIR", logs)
	t.Setenv("UPLOAD_DIR", filepath.Join(t.TempDir(), "uploads"))
	t.Setenv("PROCESSED_DIR", filepath.Join(t.TempDir(), "processed"))
	t.Setenv("FINSIGHT_PROVIDER", "ollama")

	store, err := history.Open(logs)
	require.NoError(t, err)
	_, err = store.Append(history.TypeQA, map[string]any{"question": "q"})
	require.NoError(t, err)
	_, err = store.Append(history.TypeMCQ, map[string]any{"difficulty": "hard"})
	require.NoError(t, err)

	run := func(args ...string) string {
		var out bytes.Buffer
		root := newRootCmd()
		root.SetOut(&out)
		root.SetArgs(args)
		require.NoError(t, root.Execute())
		return out.String()
	}

	out := run("history", "list", "--type", "mcq")
	assert.Contains(t, out, `"difficulty": "hard"`)
	assert.NotContains(t, out, `"question"`)

	out = run("history", "clear")
	assert.Contains(t, out, "Removed 2 entries")

	out = run("history", "list")
	assert.Equal(t, "[]\n", out)
}
