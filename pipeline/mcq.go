package pipeline

import (
	"context"
	"strconv"
	"strings"

	"github.com/spetersoncode/finsight/document"
	"github.com/spetersoncode/finsight/flow"
	"github.com/spetersoncode/finsight/quiz"
)

// MCQ step names. get_the_documents, get_instructions and get_sources are
// shared with the summary flow.
const (
	StepGenerateMCQs = "generate_mcqs"
	StepParseMCQs    = "parse_mcqs"
)

// Difficulty levels.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const (
	DefaultNumQuestions = 5
	MaxNumQuestions     = 10

	mcqDocumentLimit = 15
	noDocuments      = "No documents available"
	noQuestionsText  = "No generated questions to parse."
)

var difficultyInstructions = map[string]string{
	DifficultyEasy:   "Focus on basic facts and direct information from the text",
	DifficultyMedium: "Test understanding and ability to apply concepts",
	DifficultyHard:   "Require analysis, synthesis, and deep understanding",
}

// DifficultyInstructions returns the instruction clause for difficulty, or
// "" for unknown levels.
func DifficultyInstructions(difficulty string) string {
	return difficultyInstructions[difficulty]
}

// LocalParser parses quiz text in process with quiz.Parse instead of a
// model round trip. It can stand in for the parser crew.
var LocalParser Generator = GeneratorFunc(func(_ context.Context, inputs map[string]string) (string, error) {
	return quiz.ParseJSON(inputs["raw_text"])
})

// MCQState is the state of one quiz run.
type MCQState struct {
	Documents              []document.Document `json:"documents"`
	FullText               string              `json:"full_text"`
	DifficultyInstructions string              `json:"difficulty_instructions"`
	QuestionsText          string              `json:"questions_text"`
	Questions              []quiz.Question     `json:"questions"`
	NumQuestions           int                 `json:"num_questions"`
	Difficulty             string              `json:"difficulty"`
}

// NewMCQState returns the initial state. numQuestions is clamped to
// [1, MaxNumQuestions], with 0 meaning DefaultNumQuestions; an empty
// difficulty means medium.
func NewMCQState(docs []document.Document, numQuestions int, difficulty string) *MCQState {
	switch {
	case numQuestions <= 0:
		numQuestions = DefaultNumQuestions
	case numQuestions > MaxNumQuestions:
		numQuestions = MaxNumQuestions
	}
	if difficulty == "" {
		difficulty = DifficultyMedium
	}
	return &MCQState{
		Documents:    docs,
		NumQuestions: numQuestions,
		Difficulty:   difficulty,
		Questions:    []quiz.Question{},
	}
}

// MCQ generates multiple-choice questions from documents.
type MCQ struct {
	generator Generator
	parser    Generator
	flow      *flow.Flow[MCQState]
}

// NewMCQ builds the quiz flow get_the_documents → get_instructions →
// generate_mcqs → parse_mcqs → get_sources. The parser is expected to return
// a JSON array of questions, possibly surrounded by other text.
func NewMCQ(generator, parser Generator, opts ...flow.Option) *MCQ {
	p := &MCQ{generator: generator, parser: parser}
	p.flow = flow.New[MCQState](FlowMCQ, opts...).
		Step(StepGetTheDocuments, p.getTheDocuments).
		Step(StepGetInstructions, p.getInstructions, flow.After(StepGetTheDocuments)).
		Step(StepGenerateMCQs, p.generateMCQs, flow.After(StepGetInstructions)).
		Step(StepParseMCQs, p.parseMCQs, flow.After(StepGenerateMCQs)).
		Step(StepGetSources, p.getSources, flow.After(StepParseMCQs))
	return p
}

// Flow returns the underlying flow.
func (p *MCQ) Flow() *flow.Flow[MCQState] { return p.flow }

// Generate runs the flow over docs.
func (p *MCQ) Generate(ctx context.Context, docs []document.Document, numQuestions int, difficulty string, opts ...flow.RunOption) (*flow.Run, *MCQState, error) {
	state := NewMCQState(docs, numQuestions, difficulty)
	run, err := p.flow.Kickoff(ctx, state, opts...)
	return run, state, err
}

func (p *MCQ) getTheDocuments(_ context.Context, s *MCQState) (flow.Result, error) {
	if len(s.Documents) == 0 {
		return flow.Failure(flow.Payload{
			"success":   false,
			"questions": []quiz.Question{},
			"message":   noDocuments,
		}), nil
	}
	s.FullText = document.JoinContent(s.Documents, mcqDocumentLimit)
	return flow.Success(flow.Payload{
		"documents": s.Documents,
		"full_text": s.FullText,
	}), nil
}

func (p *MCQ) getInstructions(_ context.Context, s *MCQState) (flow.Result, error) {
	s.DifficultyInstructions = DifficultyInstructions(s.Difficulty)
	return flow.Success(flow.Payload{"instructions": s.DifficultyInstructions}), nil
}

func (p *MCQ) generateMCQs(ctx context.Context, s *MCQState) (flow.Result, error) {
	text, err := p.generator.Generate(ctx, map[string]string{
		"full_text":               s.FullText,
		"num_questions":           strconv.Itoa(s.NumQuestions),
		"difficulty":              s.Difficulty,
		"difficulty_instructions": s.DifficultyInstructions,
	})
	if err != nil {
		return flow.Result{}, err
	}
	s.QuestionsText = text
	return flow.Success(flow.Payload{"questions_text": s.QuestionsText}), nil
}

func (p *MCQ) parseMCQs(ctx context.Context, s *MCQState) (flow.Result, error) {
	if strings.TrimSpace(s.QuestionsText) == "" {
		return flow.Failure(flow.Payload{
			"success":   false,
			"questions": []quiz.Question{},
			"message":   noQuestionsText,
		}), nil
	}

	raw, err := p.parser.Generate(ctx, map[string]string{"raw_text": s.QuestionsText})
	if err != nil {
		return flow.Result{}, err
	}
	questions, err := quiz.Decode(raw)
	if err != nil {
		return flow.Result{}, err
	}
	s.Questions = quiz.Truncate(questions, s.NumQuestions)
	if s.Questions == nil {
		s.Questions = []quiz.Question{}
	}

	return flow.Success(flow.Payload{
		"success":       true,
		"questions":     s.Questions,
		"num_questions": len(s.Questions),
		"difficulty":    s.Difficulty,
	}), nil
}

func (p *MCQ) getSources(_ context.Context, s *MCQState) (flow.Result, error) {
	return flow.Success(flow.Payload{
		"success":       true,
		"questions":     s.Questions,
		"num_questions": len(s.Questions),
		"difficulty":    s.Difficulty,
		"sources":       document.Sources(s.Documents),
	}), nil
}
