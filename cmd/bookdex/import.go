// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookdex/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Resolve a batch of queries from a text or CSV file",
	Long: `Import reads queries from a file (or standard input with "-") and
resolves each one in order. Plain text files carry one query per line
(# starts a comment). CSV files are parsed column-aware: recognized
headers are title/书名/标题, author/作者,
isbn and query/检索词; an ISBN column wins over title plus author. A CSV
without a recognized header row is read as one query per first column.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	queries, err := importer.ReadQueries(args[0])
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		fmt.Fprintln(os.Stderr, "no queries found in", args[0])
		return nil
	}

	r, s, err := newResolver(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	result := importer.ImportBatch(context.Background(), r, queries, os.Stdout)
	if result.Failed > 0 {
		return fmt.Errorf("%d quer(ies) failed", result.Failed)
	}
	return nil
}
