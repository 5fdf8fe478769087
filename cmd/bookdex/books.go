// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bookdex/internal/store"
	"github.com/pdiddy/bookdex/pkg/types"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Manage the catalog (list, show, delete, export)",
}

// --- list subcommand ---

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all books in the catalog",
	RunE:  runBooksList,
}

func runBooksList(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	books, err := s.ListBooks(context.Background())
	if err != nil {
		return err
	}
	for _, b := range books {
		line := fmt.Sprintf("%4d  %s", b.ID, b.Title)
		if len(b.Authors) > 0 {
			line += "  " + strings.Join(b.Authors, ", ")
		}
		if b.ISBN != "" {
			line += "  " + b.ISBN
		}
		if b.Category != "" {
			line += "  [" + b.Category + "]"
		}
		fmt.Println(line)
	}
	fmt.Fprintf(os.Stderr, "%d book(s)\n", len(books))
	return nil
}

// --- show subcommand ---

var booksShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one book as JSON, including provenance",
	Args:  cobra.ExactArgs(1),
	RunE:  runBooksShow,
}

func runBooksShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid book id %q", args[0])
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	b, err := s.GetBook(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("book %d not found", id)
	}
	prov, err := s.ListProvenance(ctx, id)
	if err != nil {
		return err
	}

	out := struct {
		*types.Book
		Sources []types.ProvenanceEntry `json:"sources,omitempty"`
	}{Book: b, Sources: prov}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// --- delete subcommand ---

var booksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a book and its provenance",
	Args:  cobra.ExactArgs(1),
	RunE:  runBooksDelete,
}

func runBooksDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid book id %q", args[0])
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	deleted, err := s.DeleteBook(context.Background(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("book %d not found", id)
	}
	fmt.Printf("deleted: book %d\n", id)
	return nil
}

// --- export subcommand ---

var booksExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to a YAML or JSON file",
	RunE:  runBooksExport,
}

func runBooksExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = "export." + format
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	switch format {
	case "yaml":
		err = s.ExportYAML(ctx, out)
	case "json":
		err = s.ExportJSON(ctx, out)
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("exported: %s\n", out)
	return nil
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	return store.Open(types.StoreConfig{DataDir: dataDir(cmd)})
}

func init() {
	booksExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	booksExportCmd.Flags().String("out", "", "output path (default export.<format>)")

	booksCmd.AddCommand(booksListCmd)
	booksCmd.AddCommand(booksShowCmd)
	booksCmd.AddCommand(booksDeleteCmd)
	booksCmd.AddCommand(booksExportCmd)
	rootCmd.AddCommand(booksCmd)
}
