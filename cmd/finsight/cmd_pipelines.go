package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/finsight/history"
	"github.com/spetersoncode/finsight/pipeline"
)

func (c *cli) askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a question from the ingested documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), c.cfg, c.logger, appOptions{localParser: true})
			if err != nil {
				return err
			}
			defer a.Close()

			question := strings.Join(args, " ")
			run, state, err := a.qa.Ask(cmd.Context(), question)
			if err != nil {
				return err
			}
			if run.Failed() {
				return failure(run)
			}

			a.record(history.TypeQA, map[string]any{
				"question":   question,
				"answer":     state.Answer,
				"sources":    state.Sources,
				"confidence": state.Confidence,
				"keywords":   state.Keywords,
			})
			renderAnswer(cmd.OutOrStdout(), state)
			return nil
		},
	}
}

func (c *cli) summarizeCmd() *cobra.Command {
	var summaryType string
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize every ingested document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), c.cfg, c.logger, appOptions{localParser: true})
			if err != nil {
				return err
			}
			defer a.Close()

			run, state, err := a.summary.Summarize(cmd.Context(), a.store.Documents(), summaryType)
			if err != nil {
				return err
			}
			if run.Failed() {
				return failure(run)
			}

			a.record(history.TypeSummary, map[string]any{
				"summary_type": state.SummaryType,
				"summary":      state.SummaryText,
				"metadata": map[string]any{
					"num_documents": state.NumDocuments,
					"word_count":    state.WordCount,
				},
			})
			renderSummary(cmd.OutOrStdout(), state)
			return nil
		},
	}
	cmd.Flags().StringVarP(&summaryType, "type", "t", pipeline.SummaryComprehensive, "summary type: comprehensive, brief or executive")
	return cmd
}

func (c *cli) quizCmd() *cobra.Command {
	var (
		numQuestions int
		difficulty   string
		localParser  bool
	)
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate multiple choice questions from the ingested documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), c.cfg, c.logger, appOptions{localParser: localParser})
			if err != nil {
				return err
			}
			defer a.Close()

			run, state, err := a.mcq.Generate(cmd.Context(), a.store.Documents(), numQuestions, difficulty)
			if err != nil {
				return err
			}
			if run.Failed() {
				return failure(run)
			}

			a.record(history.TypeMCQ, map[string]any{
				"difficulty":    state.Difficulty,
				"num_questions": len(state.Questions),
				"questions":     state.Questions,
			})
			renderQuiz(cmd.OutOrStdout(), state)
			return nil
		},
	}
	cmd.Flags().IntVarP(&numQuestions, "num", "n", pipeline.DefaultNumQuestions, "number of questions (1-10)")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", pipeline.DifficultyMedium, "easy, medium or hard")
	cmd.Flags().BoolVar(&localParser, "local-parser", false, "structure questions without the parser crew")
	return cmd
}
