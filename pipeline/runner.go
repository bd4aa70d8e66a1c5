package pipeline

import (
	"context"

	"github.com/spetersoncode/finsight/flow"
)

// QAInput is the untyped input accepted by the Q&A runner.
type QAInput struct {
	Question string `json:"question"`
}

// SummaryInput is the untyped input accepted by the summary runner.
type SummaryInput struct {
	SummaryType string `json:"summary_type"`
}

// MCQInput is the untyped input accepted by the quiz runner.
type MCQInput struct {
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty"`
}

// Runner returns a flow.Runner for the Q&A flow.
func (p *QA) Runner() flow.Runner {
	return flow.NewRunner(p.flow, func(_ context.Context, input any) (*QAState, error) {
		in, err := flow.DecodeState[QAInput](input)
		if err != nil {
			return nil, err
		}
		return NewQAState(in.Question), nil
	})
}

// Runner returns a flow.Runner for the summary flow that summarizes every
// document listed by docs at the time of the run.
func (p *Summary) Runner(docs DocumentLister) flow.Runner {
	return flow.NewRunner(p.flow, func(_ context.Context, input any) (*SummaryState, error) {
		in, err := flow.DecodeState[SummaryInput](input)
		if err != nil {
			return nil, err
		}
		return NewSummaryState(docs.Documents(), in.SummaryType), nil
	})
}

// Runner returns a flow.Runner for the quiz flow over the documents listed
// by docs at the time of the run.
func (p *MCQ) Runner(docs DocumentLister) flow.Runner {
	return flow.NewRunner(p.flow, func(_ context.Context, input any) (*MCQState, error) {
		in, err := flow.DecodeState[MCQInput](input)
		if err != nil {
			return nil, err
		}
		return NewMCQState(docs.Documents(), in.NumQuestions, in.Difficulty), nil
	})
}
