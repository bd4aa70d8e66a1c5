package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/finsight/history"
)

func (c *cli) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the chat history",
	}

	var types []string
	list := &cobra.Command{
		Use:   "list",
		Short: "Print history entries as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(c.cfg.LogsDir, history.WithLogger(c.logger))
			if err != nil {
				return err
			}
			entries := store.List(types...)
			if entries == nil {
				entries = []history.Entry{}
			}
			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	list.Flags().StringSliceVarP(&types, "type", "t", nil, "only show entries of these types (qa, summary, mcq)")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every history entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(c.cfg.LogsDir, history.WithLogger(c.logger))
			if err != nil {
				return err
			}
			n := store.Len()
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries from %s\n", n, store.Path())
			return nil
		},
	}

	cmd.AddCommand(list, clearCmd)
	return cmd
}
