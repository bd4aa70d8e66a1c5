package pipeline

import (
	"context"
	"strings"

	"github.com/spetersoncode/finsight/flow"
)

// Q&A step names.
const (
	StepGetTheQuestion    = "get_the_question"
	StepAnswerForQuestion = "answer_for_question"
	StepGenerateKeywords  = "generate_keywords"
)

const (
	answerFailureText = "An error occurred during post-processing."
	noQuestionMessage = "No question provided"
)

// QAState is the state of one Q&A run.
type QAState struct {
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Sources    []Source `json:"sources"`
	Confidence string   `json:"confidence"`
	Keywords   string   `json:"keywords"`
}

// NewQAState returns the initial state for question.
func NewQAState(question string) *QAState {
	return &QAState{Question: question, Sources: []Source{}, Confidence: ConfidenceLow}
}

// QA answers questions over retrieved documents and extracts keywords from
// the answer.
type QA struct {
	answerer Answerer
	keywords Generator
	flow     *flow.Flow[QAState]
}

// NewQA builds the Q&A flow
// get_the_question → answer_for_question → generate_keywords.
func NewQA(answerer Answerer, keywords Generator, opts ...flow.Option) *QA {
	p := &QA{answerer: answerer, keywords: keywords}
	p.flow = flow.New[QAState](FlowQA, opts...).
		Step(StepGetTheQuestion, p.getTheQuestion).
		Step(StepAnswerForQuestion, p.answerForQuestion, flow.After(StepGetTheQuestion)).
		Step(StepGenerateKeywords, p.generateKeywords, flow.After(StepAnswerForQuestion))
	return p
}

// Flow returns the underlying flow.
func (p *QA) Flow() *flow.Flow[QAState] { return p.flow }

// Ask runs the flow for question.
func (p *QA) Ask(ctx context.Context, question string, opts ...flow.RunOption) (*flow.Run, *QAState, error) {
	state := NewQAState(question)
	run, err := p.flow.Kickoff(ctx, state, opts...)
	return run, state, err
}

func (p *QA) getTheQuestion(_ context.Context, s *QAState) (flow.Result, error) {
	if strings.TrimSpace(s.Question) == "" {
		return flow.Failure(flow.Payload{
			"success":    false,
			"answer":     noQuestionMessage,
			"sources":    []Source{},
			"confidence": ConfidenceLow,
			"message":    noQuestionMessage,
		}), nil
	}
	return flow.Success(flow.Payload{"question": s.Question}), nil
}

func (p *QA) answerForQuestion(ctx context.Context, s *QAState) (flow.Result, error) {
	a, err := p.answerer.Answer(ctx, s.Question)
	if err != nil {
		return flow.Result{}, err
	}
	if !a.Success {
		return flow.Failure(flow.Payload{
			"success":    false,
			"answer":     answerFailureText,
			"sources":    []Source{},
			"confidence": ConfidenceLow,
		}), nil
	}

	s.Answer = a.Text
	s.Sources = a.Sources
	s.Confidence = a.Confidence
	return flow.Success(flow.Payload{
		"success":    true,
		"answer":     s.Answer,
		"sources":    s.Sources,
		"confidence": s.Confidence,
	}), nil
}

func (p *QA) generateKeywords(ctx context.Context, s *QAState) (flow.Result, error) {
	kw, err := p.keywords.Generate(ctx, map[string]string{"answer": s.Answer})
	if err != nil {
		return flow.Result{}, err
	}
	s.Keywords = strings.TrimSpace(kw)
	return flow.Success(flow.Payload{
		"success":    true,
		"answer":     s.Answer,
		"sources":    s.Sources,
		"confidence": s.Confidence,
		"keywords":   s.Keywords,
	}), nil
}
