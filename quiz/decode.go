package quiz

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSONArray returns the span from the first "[" to the last "]" of
// raw, or the trimmed raw text when there is no such span.
func ExtractJSONArray(raw string) string {
	raw = strings.TrimSpace(raw)
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

// Decode extracts the JSON array from raw and decodes it.
func Decode(raw string) ([]Question, error) {
	var questions []Question
	if err := json.Unmarshal([]byte(ExtractJSONArray(raw)), &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return questions, nil
}

// Truncate returns at most n questions, keeping their order. It never pads.
func Truncate(questions []Question, n int) []Question {
	if n < 0 {
		n = 0
	}
	if len(questions) > n {
		return questions[:n]
	}
	return questions
}
