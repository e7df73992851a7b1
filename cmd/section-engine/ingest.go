// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index the content tree into the SQLite content index",
	Long: `Ingest walks the content directory and replaces the content index with
the pages, drafts and files it finds. Numbered directories (1_blog) are
listed pages, plain directories are unlisted and directories under _drafts
are drafts. Malformed pages are reported and skipped.`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.store.Ingest(commandContext(), a.cfg.ContentDir, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\n%d pages, %d drafts, %d files indexed\n",
		summary.Pages, summary.Drafts, summary.Files)
	if summary.Failed > 0 {
		return fmt.Errorf("%d item(s) failed indexing", summary.Failed)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
