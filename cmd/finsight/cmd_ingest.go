package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/finsight/document"
	"github.com/spetersoncode/finsight/ingest"
)

func (c *cli) ingestCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:     "ingest [file or directory...]",
		Short:   "Load documents into the vector store",
		Aliases: []string{"i"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectFiles(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no supported files found (accepted: .pdf, .csv, .txt, .md)")
			}

			a, err := newApp(cmd.Context(), c.cfg, c.logger, appOptions{localParser: true})
			if err != nil {
				return err
			}
			defer a.Close()

			if reset {
				if err := a.store.Clear(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			var all []document.Document
			for _, path := range files {
				docs, err := a.loader.LoadFile(path)
				if err != nil {
					fmt.Fprintf(out, "  skipped %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(out, "  loaded %s (%d chunks)\n", path, len(docs))
				all = append(all, docs...)
			}
			if len(all) == 0 {
				return fmt.Errorf("no documents could be loaded")
			}

			if err := a.store.Add(cmd.Context(), all); err != nil {
				return err
			}
			fmt.Fprintf(out, "Added %d chunks. The store now holds %d.\n", len(all), a.store.Len())
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "clear", false, "remove existing documents first")
	return cmd
}

// collectFiles expands directories to the supported files beneath them.
// Explicit file arguments are returned as given so unsupported types are
// reported by the loader.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && ingest.Supported(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}
