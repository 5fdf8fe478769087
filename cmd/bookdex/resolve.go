// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookdex/internal/importer"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [queries...]",
	Short: "Resolve free-text queries into catalog records",
	Long: `Resolve turns each query (a title, "title author" string, or ISBN) into a
canonical catalog record. Configured providers are tried in priority order;
the first detail that passes ISBN validation is merged into the catalog.

A query that matches nothing is reported as not found, which is a normal
outcome and does not fail the command.`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more queries (title, author string, or ISBN)")
	}

	r, s, err := newResolver(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	result := importer.ImportBatch(context.Background(), r, args, os.Stdout)
	if result.Failed > 0 {
		return fmt.Errorf("%d quer(ies) failed", result.Failed)
	}
	return nil
}
