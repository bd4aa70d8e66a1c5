package quiz

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
)

var (
	questionMarker = regexp.MustCompile(`(?i)\*{0,2}Question \d+:\*{0,2}`)
	correctAnswer  = regexp.MustCompile(`(?i)\*\*Correct Answer:\*\*\s*([A-D])`)
	optionEnd      = regexp.MustCompile(`\n[A-D]\)|\n\*\*Correct Answer|\n\*\*Explanation`)
)

const (
	letters           = "ABCD"
	explanationMarker = "**Explanation:**"
	nextQuestion      = "\n**Question"
)

// Parse extracts every well-formed question from raw. Text before the first
// "Question N:" marker is ignored. Blocks without a stem or without all four
// options are dropped. When no block survives, Parse returns the single
// Fallback question. Parse never panics and never returns an empty slice.
func Parse(raw string) []Question {
	blocks := questionMarker.Split(raw, -1)

	var questions []Question
	for i, block := range blocks[1:] {
		q := parseBlock(block)
		if !q.Valid() {
			slog.Warn("invalid question format", "block", i+1, "options", len(q.Options))
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		slog.Warn("no questions parsed, using fallback")
		return []Question{Fallback()}
	}

	slog.Debug("parsed questions", "count", len(questions))
	return questions
}

// ParseJSON runs Parse and renders the result as a JSON array.
func ParseJSON(raw string) (string, error) {
	data, err := json.Marshal(Parse(raw))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func parseBlock(block string) Question {
	q := Question{
		Options:       make(map[string]string, 4),
		CorrectAnswer: "A",
		Explanation:   DefaultExplanation,
	}

	// the stem runs up to the first line-leading "A)"
	if idx := strings.Index(block, "\nA)"); idx >= 0 {
		q.Question = strings.TrimSpace(block[:idx])
	}

	for _, letter := range letters {
		marker := string(letter) + ")"
		idx := strings.Index(block, marker)
		if idx < 0 {
			continue
		}
		rest := strings.TrimLeftFunc(block[idx+len(marker):], unicode.IsSpace)
		if loc := optionEnd.FindStringIndex(rest); loc != nil {
			rest = rest[:loc[0]]
		}
		q.Options[string(letter)] = strings.TrimSpace(rest)
	}

	if m := correctAnswer.FindStringSubmatch(block); m != nil {
		q.CorrectAnswer = strings.ToUpper(m[1])
	}

	if idx := strings.Index(block, explanationMarker); idx >= 0 {
		rest := strings.TrimLeftFunc(block[idx+len(explanationMarker):], unicode.IsSpace)
		if end := strings.Index(rest, nextQuestion); end >= 0 {
			rest = rest[:end]
		}
		q.Explanation = strings.TrimSpace(rest)
	}

	return q
}
