// Package quiz turns loosely formatted multiple-choice text produced by a
// language model into validated question records.
package quiz

import (
	"github.com/go-playground/validator/v10"
)

// Question is one multiple-choice question with four lettered options.
type Question struct {
	Question      string            `json:"question" validate:"required"`
	Options       map[string]string `json:"options" validate:"len=4"`
	CorrectAnswer string            `json:"correct_answer" validate:"oneof=A B C D"`
	Explanation   string            `json:"explanation"`
}

// DefaultExplanation is used when a block carries no explanation.
const DefaultExplanation = "No explanation provided"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Valid reports whether q has a non-empty stem, exactly four options and an
// answer letter between A and D.
func (q Question) Valid() bool {
	return validate.Struct(q) == nil
}

// Fallback returns the placeholder question emitted when nothing could be
// parsed, so callers never receive an empty quiz.
func Fallback() Question {
	return Question{
		Question: "Based on the document, what is the main topic discussed?",
		Options: map[string]string{
			"A": "Financial performance",
			"B": "Market analysis",
			"C": "Risk assessment",
			"D": "Strategic planning",
		},
		CorrectAnswer: "A",
		Explanation:   "This is a fallback question. Please check document content or formatting.",
	}
}
