package pipeline

import (
	"context"
	"strings"

	"github.com/spetersoncode/finsight/document"
	"github.com/spetersoncode/finsight/flow"
)

// Summary step names.
const (
	StepGetTheDocuments = "get_the_documents"
	StepGetInstructions = "get_instructions"
	StepGenerateSummary = "generate_summary"
	StepGetSources      = "get_sources"
	StepGetWordCount    = "get_word_count"
)

// Summary types.
const (
	SummaryComprehensive = "comprehensive"
	SummaryBrief         = "brief"
	SummaryExecutive     = "executive"
)

const (
	summaryDocumentLimit = 20

	briefInstructions = "Provide a brief 3-5 sentence summary of the key points."

	executiveInstructions = `Provide an executive summary with:
            - Main objective/purpose
            - Key findings (3-5 points)
            - Critical numbers or metrics
            - Recommendations or implications`

	comprehensiveInstructions = `Provide a comprehensive summary including:
            - Document overview and purpose
            - Main topics covered
            - Key findings and insights
            - Important financial metrics, numbers, or data points
            - Notable trends or patterns
            - Conclusions or implications`

	noDocumentsToSummarize = "No documents available to summarize"
)

// SummaryState is the state of one summary run.
type SummaryState struct {
	Documents    []document.Document `json:"documents"`
	FullText     string              `json:"full_text"`
	Instructions string              `json:"instructions"`
	SummaryType  string              `json:"summary_type"`
	SummaryText  string              `json:"summary_text"`
	NumDocuments int                 `json:"num_documents"`
	Sources      []string            `json:"sources"`
	WordCount    int                 `json:"word_count"`
}

// NewSummaryState returns the initial state. An empty summaryType selects
// the comprehensive summary.
func NewSummaryState(docs []document.Document, summaryType string) *SummaryState {
	if summaryType == "" {
		summaryType = SummaryComprehensive
	}
	return &SummaryState{Documents: docs, SummaryType: summaryType}
}

// Instructions returns the instruction template for summaryType. Unknown
// types get the comprehensive template.
func Instructions(summaryType string) string {
	switch summaryType {
	case SummaryBrief:
		return briefInstructions
	case SummaryExecutive:
		return executiveInstructions
	default:
		return comprehensiveInstructions
	}
}

// Summary summarizes documents.
type Summary struct {
	summarizer Generator
	flow       *flow.Flow[SummaryState]
}

// NewSummary builds the summary flow get_the_documents → get_instructions
// → generate_summary → {get_sources, get_word_count}.
func NewSummary(summarizer Generator, opts ...flow.Option) *Summary {
	p := &Summary{summarizer: summarizer}
	p.flow = flow.New[SummaryState](FlowSummary, opts...).
		Step(StepGetTheDocuments, p.getTheDocuments).
		Step(StepGetInstructions, p.getInstructions, flow.After(StepGetTheDocuments)).
		Step(StepGenerateSummary, p.generateSummary, flow.After(StepGetInstructions)).
		Step(StepGetSources, p.getSources, flow.After(StepGenerateSummary)).
		Step(StepGetWordCount, p.getWordCount, flow.After(StepGenerateSummary))
	return p
}

// Flow returns the underlying flow.
func (p *Summary) Flow() *flow.Flow[SummaryState] { return p.flow }

// Summarize runs the flow over docs.
func (p *Summary) Summarize(ctx context.Context, docs []document.Document, summaryType string, opts ...flow.RunOption) (*flow.Run, *SummaryState, error) {
	state := NewSummaryState(docs, summaryType)
	run, err := p.flow.Kickoff(ctx, state, opts...)
	return run, state, err
}

func (p *Summary) getTheDocuments(_ context.Context, s *SummaryState) (flow.Result, error) {
	if len(s.Documents) == 0 {
		return flow.Failure(flow.Payload{
			"success":      false,
			"summary":      noDocumentsToSummarize,
			"summary_type": s.SummaryType,
		}), nil
	}
	s.FullText = document.JoinContent(s.Documents, summaryDocumentLimit)
	return flow.Success(flow.Payload{
		"documents": s.Documents,
		"full_text": s.FullText,
	}), nil
}

func (p *Summary) getInstructions(_ context.Context, s *SummaryState) (flow.Result, error) {
	s.Instructions = Instructions(s.SummaryType)
	return flow.Success(flow.Payload{"instructions": s.Instructions}), nil
}

func (p *Summary) generateSummary(ctx context.Context, s *SummaryState) (flow.Result, error) {
	text, err := p.summarizer.Generate(ctx, map[string]string{
		"full_text":    s.FullText,
		"instructions": s.Instructions,
		"summary_type": s.SummaryType,
	})
	if err != nil {
		return flow.Result{}, err
	}
	s.SummaryText = text
	return flow.Success(flow.Payload{"summary_text": s.SummaryText}), nil
}

func (p *Summary) getSources(_ context.Context, s *SummaryState) (flow.Result, error) {
	s.Sources = document.Sources(s.Documents)
	return flow.Success(flow.Payload{"sources": s.Sources}), nil
}

// getWordCount counts the words of the generated summary.
func (p *Summary) getWordCount(_ context.Context, s *SummaryState) (flow.Result, error) {
	s.WordCount = len(strings.Fields(s.SummaryText))
	s.NumDocuments = len(s.Documents)
	return flow.Success(flow.Payload{
		"success":       true,
		"summary":       s.SummaryText,
		"summary_type":  s.SummaryType,
		"num_documents": s.NumDocuments,
		"word_count":    s.WordCount,
	}), nil
}
