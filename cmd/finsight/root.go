package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/finsight/config"
)

// cli carries state shared by every subcommand.
type cli struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "finsight",
		Short: "Question answering, summaries and quizzes over financial documents",
		Long: `finsight ingests PDF, CSV, text and markdown files into a local vector
store and runs question answering, summary and multiple choice quiz
pipelines against them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirs(); err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = cfg.NewLogger()
			slog.SetDefault(c.logger)
			return nil
		},
	}

	root.AddCommand(
		c.ingestCmd(),
		c.askCmd(),
		c.summarizeCmd(),
		c.quizCmd(),
		c.historyCmd(),
		c.serveCmd(),
		c.wordsServerCmd(),
		c.relayCmd(),
	)
	return root
}
